package handlers

import (
	"html/template"
	"path/filepath"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"docsite/pkg/metrics"
	"docsite/pkg/services"
)

// Site wires the content services into HTTP handlers.
type Site struct {
	Title       string
	Description string

	Docs     *services.Docs
	Renderer *services.Renderer
	Metrics  *metrics.Metrics
}

// Options configure the router independently of the process environment.
type Options struct {
	TemplatesDir string
	StaticDir    string
	SessionName  string
	SessionKey   []byte
}

func NewSite(title, description, docsPath string, m *metrics.Metrics) *Site {
	return &Site{
		Title:       title,
		Description: description,
		Docs:        services.NewDocs(docsPath),
		Renderer:    services.NewRenderer(),
		Metrics:     m,
	}
}

// Router builds the gin engine serving the site.
func (s *Site) Router(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(), gin.Recovery())
	if s.Metrics != nil {
		r.Use(Instrument(s.Metrics))
	}

	store := cookie.NewStore(opts.SessionKey)
	store.Options(sessions.Options{Path: "/", MaxAge: 30 * 24 * 3600, HttpOnly: true})
	r.Use(sessions.Sessions(opts.SessionName, store))

	r.SetFuncMap(template.FuncMap{
		"docHref": services.DocHref,
	})
	r.LoadHTMLGlob(filepath.Join(opts.TemplatesDir, "*.html"))
	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
	}

	r.GET("/", s.Home)
	r.GET("/docs/*slug", s.DocPage)
	r.GET("/assets/*path", s.ServeAsset)

	api := r.Group("/api")
	{
		api.GET("/docs-tree", s.DocsTree)
		api.GET("/slugs", s.ListSlugs)
		api.GET("/doc", s.GetDoc)
		api.POST("/sidebar", s.UpdateSidebar)
	}

	if s.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	}
	return r
}
