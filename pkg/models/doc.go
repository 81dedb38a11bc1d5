package models

// Document is a resolved content path: either a markdown file or a directory.
type Document struct {
	Slug        string                 `json:"slug"`
	Path        string                 `json:"path,omitempty"` // resolved tree path, extension stripped
	FrontMatter map[string]interface{} `json:"frontmatter"`
	Body        string                 `json:"content"`
	Format      string                 `json:"format,omitempty"` // yaml, toml, json
	IsDirectory bool                   `json:"isDirectory"`
	Files       []string               `json:"mdFiles,omitempty"`
	Folders     []string               `json:"subDirs,omitempty"`
	NotFound    bool                   `json:"notFound,omitempty"`
	Match       string                 `json:"match,omitempty"` // how the slug was resolved
	Dir         string                 `json:"-"`               // source directory, relative to the root
}

// Title returns the frontmatter title, or "" when it is missing or not a string.
func (d *Document) Title() string {
	if d == nil || d.FrontMatter == nil {
		return ""
	}
	t, _ := d.FrontMatter["title"].(string)
	return t
}

type Crumb struct {
	Href    string `json:"href"`
	Label   string `json:"label"`
	Current bool   `json:"current"`
}
