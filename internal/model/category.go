package model

// Category identifies a unit of independent sync decision-making.
type Category string

const (
	// CategoryBookmarks is the bulk bookmark payload.
	CategoryBookmarks Category = "bookmarks"

	// CategoryConfig is the configuration bundle as a whole.
	CategoryConfig Category = "config"

	// CategorySettings is the settings sub-document of the config bundle.
	CategorySettings Category = "settings"

	// CategoryFilters is the filters sub-document of the config bundle.
	CategoryFilters Category = "filters"

	// CategoryServices is the API service configuration sub-document.
	CategoryServices Category = "services"
)

// ConfigDocs lists the sub-documents that make up the config bundle, in the
// order they are detected and merged.
func ConfigDocs() []Category {
	return []Category{CategorySettings, CategoryFilters, CategoryServices}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}
