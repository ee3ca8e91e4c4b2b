package model

import "time"

// BookmarksMeta describes the remote state of the bookmark payload.
// ContentHash is always the hash of the payload at the moment LastModified
// was set; the two fields are updated together, never independently.
type BookmarksMeta struct {
	ContentHash  string    `json:"contentHash"`
	LastModified time.Time `json:"lastModified"`
	Device       string    `json:"device"`
}

// ConfigDocMeta describes the remote state of a single config sub-document.
type ConfigDocMeta struct {
	ContentHash string `json:"contentHash"`
}

// ConfigMeta describes the remote state of the config bundle. Sub-document
// entries are nil when that sub-document has never been synced.
type ConfigMeta struct {
	Settings     *ConfigDocMeta `json:"settings"`
	Filters      *ConfigDocMeta `json:"filters"`
	Services     *ConfigDocMeta `json:"services"`
	LastModified time.Time      `json:"lastModified"`
	Device       string         `json:"device"`
}

// Doc returns the metadata entry for a config sub-document, or nil.
func (m *ConfigMeta) Doc(c Category) *ConfigDocMeta {
	if m == nil {
		return nil
	}
	switch c {
	case CategorySettings:
		return m.Settings
	case CategoryFilters:
		return m.Filters
	case CategoryServices:
		return m.Services
	}
	return nil
}

// SetDoc stores the metadata entry for a config sub-document.
func (m *ConfigMeta) SetDoc(c Category, doc *ConfigDocMeta) {
	switch c {
	case CategorySettings:
		m.Settings = doc
	case CategoryFilters:
		m.Filters = doc
	case CategoryServices:
		m.Services = doc
	}
}

// SyncMetadata is the authoritative small document stored remotely as
// meta.json. A locally persisted copy of it, as it stood after the most
// recent successful sync, serves as the three-way merge base.
type SyncMetadata struct {
	SyncAt    time.Time      `json:"syncAt"`
	Bookmarks *BookmarksMeta `json:"bookmarks"`
	Config    *ConfigMeta    `json:"config"`
}

// Clone returns a deep copy, so the config sync step can build on the
// metadata produced by the bookmarks step without aliasing.
func (m *SyncMetadata) Clone() *SyncMetadata {
	if m == nil {
		return nil
	}
	out := &SyncMetadata{SyncAt: m.SyncAt}
	if m.Bookmarks != nil {
		b := *m.Bookmarks
		out.Bookmarks = &b
	}
	if m.Config != nil {
		c := *m.Config
		if m.Config.Settings != nil {
			d := *m.Config.Settings
			c.Settings = &d
		}
		if m.Config.Filters != nil {
			d := *m.Config.Filters
			c.Filters = &d
		}
		if m.Config.Services != nil {
			d := *m.Config.Services
			c.Services = &d
		}
		out.Config = &c
	}
	return out
}
