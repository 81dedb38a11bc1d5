package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docsite/pkg/models"
	"docsite/pkg/services"
)

// page returns the data shared by every HTML page.
func (s *Site) page(c *gin.Context, title, current string) gin.H {
	items, query, err := s.sidebar(c, current)
	if err != nil {
		slog.Error("building sidebar", "error", err)
	}
	return gin.H{
		"SiteTitle":       s.Title,
		"SiteDescription": s.Description,
		"Title":           title,
		"Sidebar":         items,
		"Query":           query,
		"Current":         current,
	}
}

func (s *Site) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", s.page(c, s.Title, ""))
}

// DocsIndex lists every document in the tree.
func (s *Site) DocsIndex(c *gin.Context) {
	data := s.page(c, "Documentation", "")

	tree, err := s.Docs.Tree()
	if err != nil {
		slog.Error("generating docs tree", "error", err)
		data["Error"] = "The documentation tree could not be read."
		c.HTML(http.StatusInternalServerError, "error.html", data)
		return
	}
	data["Tree"] = BuildSidebar(tree, "", SidebarState{}, "")
	c.HTML(http.StatusOK, "docs_index.html", data)
}

// docSegments decodes the slug from the escaped request path exactly once.
// The slug param is already unescaped.
func docSegments(c *gin.Context) ([]string, error) {
	raw := strings.TrimPrefix(c.Request.URL.EscapedPath(), "/docs")
	return services.DecodeSegments(services.SplitSlug(raw))
}

func (s *Site) DocPage(c *gin.Context) {
	if strings.Trim(c.Param("slug"), "/") == "" {
		s.DocsIndex(c)
		return
	}

	var doc *models.Document
	segments, err := docSegments(c)
	if err != nil {
		s.recordResolution("invalid")
	} else {
		doc, err = s.loadDoc(segments)
	}
	status := http.StatusOK
	switch {
	case errors.Is(err, services.ErrInvalidSlug):
		data := s.page(c, "Invalid path", "")
		data["Error"] = "The requested path is not valid."
		c.HTML(http.StatusBadRequest, "error.html", data)
		return
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case err != nil:
		data := s.page(c, "Error", "")
		data["Error"] = "The requested document could not be read."
		c.HTML(http.StatusInternalServerError, "error.html", data)
		return
	}

	data := s.page(c, doc.Title(), doc.Path)
	data["Doc"] = doc
	data["Crumbs"] = services.Breadcrumbs(doc.Slug)

	if !doc.IsDirectory && !doc.NotFound {
		out, err := s.Renderer.Render(doc.Body, doc.Dir)
		if err != nil {
			slog.Error("rendering document", "slug", doc.Slug, "error", err)
			data["Error"] = "The requested document could not be rendered."
			c.HTML(http.StatusInternalServerError, "error.html", data)
			return
		}
		// Document sources are trusted site content.
		data["Content"] = template.HTML(out)
	}
	c.HTML(status, "doc.html", data)
}
