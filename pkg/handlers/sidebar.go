package handlers

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"docsite/pkg/models"
	"docsite/pkg/services"
)

const (
	sessionQueryKey     = "sidebar_query"
	sessionCollapsedKey = "sidebar_collapsed"

	// Bounds on what is stored so the encoded session cookie stays below
	// the 4 KB securecookie limit.
	maxQueryRunes    = 100
	maxCollapsedSize = 1024
)

// SidebarItem is one rendered row of the navigation tree.
type SidebarItem struct {
	Name     string
	Path     string
	Href     string
	IsDir    bool
	Open     bool
	Active   bool
	Children []SidebarItem
}

// SidebarState is the per-visitor sidebar state kept in the session cookie.
type SidebarState struct {
	Query     string
	Collapsed map[string]bool
}

func loadSidebarState(c *gin.Context) SidebarState {
	session := sessions.Default(c)
	state := SidebarState{Collapsed: map[string]bool{}}

	if q, ok := session.Get(sessionQueryKey).(string); ok {
		state.Query = q
	}
	if raw, ok := session.Get(sessionCollapsedKey).(string); ok {
		for _, p := range strings.Split(raw, "\n") {
			if p != "" {
				state.Collapsed[p] = true
			}
		}
	}

	// An explicit ?q= replaces the stored filter.
	if q, ok := c.GetQuery("q"); ok {
		state.Query = cleanQuery(q)
		session.Set(sessionQueryKey, state.Query)
		if err := session.Save(); err != nil {
			slog.Warn("saving sidebar filter", "query", state.Query, "error", err)
		}
	}
	return state
}

func saveSidebarState(c *gin.Context, state SidebarState) error {
	session := sessions.Default(c)
	collapsed := make([]string, 0, len(state.Collapsed))
	for p := range state.Collapsed {
		collapsed = append(collapsed, p)
	}
	sort.Strings(collapsed)
	session.Set(sessionQueryKey, state.Query)
	session.Set(sessionCollapsedKey, strings.Join(collapsed, "\n"))
	return session.Save()
}

func cleanQuery(q string) string {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) > maxQueryRunes {
		q = string([]rune(q)[:maxQueryRunes])
	}
	return q
}

// compactCollapsed returns the collapsed folders worth storing: those that
// are still directories in tree, newest first, then shallowest first, for
// as many as fit in maxCollapsedSize bytes. A nil tree skips the directory
// check.
func compactCollapsed(collapsed map[string]bool, tree models.Tree, newest string) []string {
	isDir := func(p string) bool {
		if tree == nil {
			return true
		}
		node, ok := tree.Find(p)
		return ok && node != nil
	}

	paths := make([]string, 0, len(collapsed))
	for p := range collapsed {
		if p != "" && p != newest && isDir(p) {
			paths = append(paths, p)
		}
	}
	sort.Slice(paths, func(i, j int) bool {
		di, dj := strings.Count(paths[i], "/"), strings.Count(paths[j], "/")
		if di != dj {
			return di < dj
		}
		return paths[i] < paths[j]
	})
	if newest != "" && collapsed[newest] && isDir(newest) {
		paths = append([]string{newest}, paths...)
	}

	kept := paths[:0]
	size := 0
	for _, p := range paths {
		if size+len(p)+1 > maxCollapsedSize {
			continue
		}
		size += len(p) + 1
		kept = append(kept, p)
	}
	return kept
}

// BuildSidebar turns a tree into display rows. current is the resolved tree
// path of the page being viewed. While a filter is active every folder is
// shown open.
func BuildSidebar(tree models.Tree, base string, state SidebarState, current string) []SidebarItem {
	entries := services.SortedEntries(tree, base)
	items := make([]SidebarItem, 0, len(entries))
	for _, e := range entries {
		item := SidebarItem{
			Name:   services.DisplayName(e.Name),
			Path:   e.Path,
			Href:   services.DocHref(e.Path),
			IsDir:  e.IsDir,
			Active: e.Path == current,
		}
		if e.IsDir {
			item.Open = state.Query != "" || !state.Collapsed[e.Path]
			item.Children = BuildSidebar(e.Node, e.Path, state, current)
		}
		items = append(items, item)
	}
	return items
}

func (s *Site) sidebar(c *gin.Context, current string) ([]SidebarItem, string, error) {
	tree, err := s.Docs.Tree()
	if err != nil {
		return nil, "", err
	}
	state := loadSidebarState(c)
	filtered := services.FilterTree(tree, state.Query)
	return BuildSidebar(filtered, "", state, current), state.Query, nil
}

type sidebarRequest struct {
	Query *string `json:"query"`
	Path  string  `json:"path"`
	Open  *bool   `json:"open"`
}

// UpdateSidebar stores the sidebar filter and folder open state for the
// visitor.
func (s *Site) UpdateSidebar(c *gin.Context) {
	var req sidebarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	state := loadSidebarState(c)
	if req.Query != nil {
		state.Query = cleanQuery(*req.Query)
	}
	newest := ""
	if req.Path != "" && req.Open != nil {
		p := strings.Trim(req.Path, "/")
		if *req.Open {
			delete(state.Collapsed, p)
		} else {
			state.Collapsed[p] = true
			newest = p
		}
	}

	tree, err := s.Docs.Tree()
	if err != nil {
		slog.Warn("reading tree for sidebar state", "error", err)
	}
	kept := compactCollapsed(state.Collapsed, tree, newest)
	state.Collapsed = make(map[string]bool, len(kept))
	for _, p := range kept {
		state.Collapsed[p] = true
	}

	if err := saveSidebarState(c, state); err != nil {
		slog.Error("saving sidebar state", "collapsed", len(kept), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save sidebar state"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "query": state.Query, "collapsed": len(kept)})
}
