package services

import (
	"net/url"
	"strings"

	"docsite/pkg/models"
)

// DocHref returns the escaped page URL for a slash separated slug.
func DocHref(slug string) string {
	parts := strings.Split(strings.Trim(slug, "/"), "/")
	escaped := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		escaped = append(escaped, url.PathEscape(p))
	}
	if len(escaped) == 0 {
		return "/docs"
	}
	return "/docs/" + strings.Join(escaped, "/")
}

// Breadcrumbs returns the trail from the site root to the decoded slug
// path. Labels show dashes as spaces.
func Breadcrumbs(path string) []models.Crumb {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}

	crumbs := make([]models.Crumb, 0, len(parts)+1)
	crumbs = append(crumbs, models.Crumb{Href: "/", Label: "Docs", Current: len(parts) == 0})

	for i, part := range parts {
		crumbs = append(crumbs, models.Crumb{
			Href:    DocHref(strings.Join(parts[:i+1], "/")),
			Label:   strings.ReplaceAll(part, "-", " "),
			Current: i == len(parts)-1,
		})
	}
	return crumbs
}
