package cms

import (
	"net/url"
	"testing"

	"github.com/franckalain/recipebook/internal/config"
	"github.com/franckalain/recipebook/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const ref = "image-Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000-jpg"

func newResolver() *Resolver {
	return NewResolver(config.CMSConfig{ProjectID: "zp7mbokg", Dataset: "production"}, zap.NewNop())
}

func TestResolver_Build(t *testing.T) {
	base := "https://cdn.sanity.io/images/zp7mbokg/production/Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000.jpg"

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"no transforms", Options{}, base},
		{"width only", Options{Width: 300}, base + "?w=300"},
		{"height only", Options{Height: 200}, base + "?h=200"},
		{"all transforms", Options{Width: 300, Height: 200, Format: "webp", Quality: 80}, base + "?fm=webp&h=200&q=80&w=300"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newResolver().Build(&models.ImageSource{Ref: ref}, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_SourceShapes(t *testing.T) {
	want := "https://cdn.sanity.io/images/zp7mbokg/production/abc-10x20.png"
	sources := map[string]*models.ImageSource{
		"reference":    {Ref: "image-abc-10x20-png"},
		"image object": {Asset: &models.ImageSource{Ref: "image-abc-10x20-png"}},
		"asset doc":    {Asset: &models.ImageSource{ID: "image-abc-10x20-png"}},
		"cdn url":      {Asset: &models.ImageSource{URL: "https://cdn.sanity.io/images/other/set/abc-10x20.png?w=5"}},
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			got, ok := newResolver().URLFor(src, Options{})
			require.True(t, ok)
			assert.Equal(t, want, got)
		})
	}
}

func TestResolver_URLFor_Nothing(t *testing.T) {
	t.Run("missing project", func(t *testing.T) {
		r := NewResolver(config.CMSConfig{Dataset: "production"}, zap.NewNop())
		_, ok := r.URLFor(&models.ImageSource{Ref: ref}, Options{})
		assert.False(t, ok)
	})

	t.Run("missing dataset", func(t *testing.T) {
		r := NewResolver(config.CMSConfig{ProjectID: "p"}, zap.NewNop())
		_, err := r.Build(&models.ImageSource{Ref: ref}, Options{})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("nil source", func(t *testing.T) {
		_, err := newResolver().Build(nil, Options{})
		assert.ErrorIs(t, err, ErrNoSource)
	})

	t.Run("malformed reference", func(t *testing.T) {
		_, ok := newResolver().URLFor(&models.ImageSource{Ref: "file-abc-pdf"}, Options{})
		assert.False(t, ok)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := newResolver().Build(&models.ImageSource{Ref: ref}, Options{Format: "gif"})
		assert.Error(t, err)
	})
}

func TestParseAssetRef(t *testing.T) {
	a, err := ParseAssetRef(ref)
	require.NoError(t, err)
	assert.Equal(t, Asset{ID: "Tb9Ew8CXIwaY6R1kjMvI0uRR", Width: 2000, Height: 3000, Format: "jpg"}, a)

	for _, bad := range []string{"", "image-abc", "image-abc-10by20-png", "image-abc-10xZ-png", "img-abc-1x1-png"} {
		_, err := ParseAssetRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestOptionsFromQuery(t *testing.T) {
	opts, err := OptionsFromQuery(url.Values{"w": {"300"}, "fm": {"png"}})
	require.NoError(t, err)
	assert.Equal(t, Options{Width: 300, Format: "png"}, opts)

	_, err = OptionsFromQuery(url.Values{"q": {"high"}})
	assert.Error(t, err)
}
