package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"docsite/pkg/models"
	"docsite/pkg/services"
)

func (s *Site) DocsTree(c *gin.Context) {
	tree, err := s.Docs.Tree()
	if err != nil {
		slog.Error("generating docs tree", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, tree)
}

func (s *Site) ListSlugs(c *gin.Context) {
	slugs, err := s.Docs.Slugs()
	if err != nil {
		slog.Error("listing slugs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, slugs)
}

// GetDoc returns the document record for ?path=. The query value is already
// unescaped and its segments are taken literally.
func (s *Site) GetDoc(c *gin.Context) {
	doc, err := s.loadDoc(services.SplitSlug(c.Query("path")))
	switch {
	case errors.Is(err, services.ErrInvalidSlug):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid path"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, doc)
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	default:
		c.JSON(http.StatusOK, doc)
	}
}

// loadDoc resolves segments and records the outcome.
func (s *Site) loadDoc(segments []string) (*models.Document, error) {
	doc, err := s.Docs.GetDoc(segments)

	outcome := ""
	switch {
	case errors.Is(err, services.ErrInvalidSlug):
		outcome = "invalid"
	case errors.Is(err, services.ErrNotFound):
		outcome = "not_found"
	case err != nil:
		slog.Error("loading document", "segments", segments, "error", err)
	default:
		outcome = doc.Match
	}
	if outcome != "" {
		s.recordResolution(outcome)
	}
	return doc, err
}

func (s *Site) recordResolution(outcome string) {
	if s.Metrics != nil {
		s.Metrics.SlugResolutionsTotal.WithLabelValues(outcome).Inc()
	}
}
