package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docsite/pkg/services"
)

// ServeAsset serves images and other attachments stored next to the
// documents.
func (s *Site) ServeAsset(c *gin.Context) {
	target := c.Param("path")
	if target == "" || target == "/" {
		c.Status(http.StatusBadRequest)
		return
	}

	asset, err := services.ResolveAsset(s.Docs.Root, target)
	switch {
	case errors.Is(err, services.ErrInvalidSlug):
		c.Status(http.StatusBadRequest)
		return
	case err != nil:
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Content-Type", asset.MIME)
	c.Header("X-Content-Type-Options", "nosniff")
	c.File(asset.Path)
}
