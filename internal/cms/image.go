// Package cms builds image URLs for assets hosted by the Sanity CDN.
package cms

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/franckalain/recipebook/internal/config"
	"github.com/franckalain/recipebook/internal/models"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("cms project id or dataset is not configured")
	ErrNoSource      = errors.New("no image source")
)

var formats = map[string]bool{"jpg": true, "png": true, "webp": true}

// Options are the optional transforms applied to an image. Zero values are
// left out of the URL so the CDN defaults apply.
type Options struct {
	Width   int
	Height  int
	Format  string // jpg, png, webp
	Quality int
}

// Asset is a parsed image asset id such as image-Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000-jpg.
type Asset struct {
	ID     string
	Width  int
	Height int
	Format string
}

// ParseAssetRef parses an asset id, or a CDN URL pointing at one.
func ParseAssetRef(ref string) (Asset, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		id, err := refFromURL(ref)
		if err != nil {
			return Asset{}, err
		}
		ref = id
	}

	parts := strings.Split(ref, "-")
	if len(parts) != 4 || parts[0] != "image" || parts[1] == "" || parts[3] == "" {
		return Asset{}, fmt.Errorf("malformed asset reference %q", ref)
	}
	w, h, ok := strings.Cut(parts[2], "x")
	if !ok {
		return Asset{}, fmt.Errorf("malformed dimensions in asset reference %q", ref)
	}
	width, errW := strconv.Atoi(w)
	height, errH := strconv.Atoi(h)
	if errW != nil || errH != nil {
		return Asset{}, fmt.Errorf("malformed dimensions in asset reference %q", ref)
	}
	return Asset{ID: parts[1], Width: width, Height: height, Format: parts[3]}, nil
}

// refFromURL turns .../abc-10x20.png into image-abc-10x20-png.
func refFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid image url: %w", err)
	}
	file := path.Base(u.Path)
	ext := path.Ext(file)
	if ext == "" {
		return "", fmt.Errorf("image url %q has no file extension", raw)
	}
	return "image-" + strings.TrimSuffix(file, ext) + "-" + ext[1:], nil
}

// Resolver builds CDN URLs for one project and dataset
type Resolver struct {
	projectID string
	dataset   string
	cdnURL    string
	logger    *zap.Logger
}

func NewResolver(cfg config.CMSConfig, logger *zap.Logger) *Resolver {
	cdn := strings.TrimRight(cfg.CDNURL, "/")
	if cdn == "" {
		cdn = "https://cdn.sanity.io"
	}
	return &Resolver{
		projectID: cfg.ProjectID,
		dataset:   cfg.Dataset,
		cdnURL:    cdn,
		logger:    logger,
	}
}

// Build returns the transformed URL for src.
func (r *Resolver) Build(src *models.ImageSource, opts Options) (string, error) {
	if r.projectID == "" || r.dataset == "" {
		return "", ErrNotConfigured
	}
	ref := src.Reference()
	if ref == "" {
		return "", ErrNoSource
	}
	asset, err := ParseAssetRef(ref)
	if err != nil {
		return "", err
	}

	base := fmt.Sprintf("%s/images/%s/%s/%s-%dx%d.%s",
		r.cdnURL, r.projectID, r.dataset, asset.ID, asset.Width, asset.Height, asset.Format)

	q := url.Values{}
	if opts.Width > 0 {
		q.Set("w", strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		q.Set("h", strconv.Itoa(opts.Height))
	}
	if opts.Format != "" {
		if !formats[opts.Format] {
			return "", fmt.Errorf("unsupported image format %q", opts.Format)
		}
		q.Set("fm", opts.Format)
	}
	if opts.Quality > 0 {
		q.Set("q", strconv.Itoa(opts.Quality))
	}
	if len(q) == 0 {
		return base, nil
	}
	return base + "?" + q.Encode(), nil
}

// URLFor is Build for callers that only need a URL or nothing. Missing
// configuration or source yields no URL silently; malformed input is logged.
func (r *Resolver) URLFor(src *models.ImageSource, opts Options) (string, bool) {
	u, err := r.Build(src, opts)
	if err != nil {
		if !errors.Is(err, ErrNotConfigured) && !errors.Is(err, ErrNoSource) {
			r.logger.Warn("Cannot build image url", zap.String("ref", src.Reference()), zap.Error(err))
		}
		return "", false
	}
	return u, true
}

// OptionsFromQuery reads w, h, fm and q from query parameters.
func OptionsFromQuery(q url.Values) (Options, error) {
	var opts Options
	ints := []struct {
		key string
		dst *int
	}{
		{"w", &opts.Width},
		{"h", &opts.Height},
		{"q", &opts.Quality},
	}
	for _, p := range ints {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Options{}, fmt.Errorf("invalid %s parameter %q", p.key, v)
		}
		*p.dst = n
	}
	opts.Format = q.Get("fm")
	return opts, nil
}
