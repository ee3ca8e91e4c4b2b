package model

import "encoding/json"

// ConfigBundle is the configuration document stored remotely as config.json.
// Each sub-document is an independent opaque JSON value; a nil entry means
// the sub-document was not included in the upload.
type ConfigBundle struct {
	Settings json.RawMessage `json:"settings,omitempty"`
	Filters  json.RawMessage `json:"filters,omitempty"`
	Services json.RawMessage `json:"services,omitempty"`
}

// Doc returns the raw sub-document for a category, or nil.
func (b *ConfigBundle) Doc(c Category) json.RawMessage {
	if b == nil {
		return nil
	}
	switch c {
	case CategorySettings:
		return b.Settings
	case CategoryFilters:
		return b.Filters
	case CategoryServices:
		return b.Services
	}
	return nil
}

// SetDoc stores the raw sub-document for a category.
func (b *ConfigBundle) SetDoc(c Category, raw json.RawMessage) {
	switch c {
	case CategorySettings:
		b.Settings = raw
	case CategoryFilters:
		b.Filters = raw
	case CategoryServices:
		b.Services = raw
	}
}

// Empty reports whether the bundle carries no sub-documents at all.
func (b *ConfigBundle) Empty() bool {
	return b == nil || (len(b.Settings) == 0 && len(b.Filters) == 0 && len(b.Services) == 0)
}
