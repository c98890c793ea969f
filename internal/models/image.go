package models

import (
	"bytes"
	"encoding/json"
)

// ImageSource is a CMS image reference in any of the shapes the CMS hands out:
// a bare asset id or URL string, a {_ref} reference, or an image object whose
// asset is itself a reference, a resolved document, or a URL.
type ImageSource struct {
	Ref   string       `json:"_ref,omitempty"`
	ID    string       `json:"_id,omitempty"`
	URL   string       `json:"url,omitempty"`
	Asset *ImageSource `json:"asset,omitempty"`
}

func (s *ImageSource) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var ref string
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*s = ImageSource{Ref: ref}
		return nil
	}
	type plain ImageSource
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = ImageSource(p)
	return nil
}

// Reference returns the innermost asset id or URL, or "" when there is none.
func (s *ImageSource) Reference() string {
	if s == nil {
		return ""
	}
	if s.Asset != nil {
		if ref := s.Asset.Reference(); ref != "" {
			return ref
		}
	}
	switch {
	case s.Ref != "":
		return s.Ref
	case s.ID != "":
		return s.ID
	default:
		return s.URL
	}
}
