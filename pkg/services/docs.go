package services

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"docsite/pkg/models"
)

const notFoundBody = "The requested file or directory could not be found."

// Docs loads documents from a content root. Nothing is cached; every call
// reads the filesystem.
type Docs struct {
	Root     string
	resolver *Resolver
}

func NewDocs(root string) *Docs {
	return &Docs{Root: root, resolver: &Resolver{Root: root}}
}

func (d *Docs) Tree() (models.Tree, error) {
	return BuildTree(d.Root)
}

func (d *Docs) Slugs() ([]string, error) {
	return ListSlugs(d.Root)
}

// GetDoc resolves segments and loads the file or directory they name. An
// unresolvable slug yields a not-found record together with ErrNotFound; an
// invalid slug yields only the error.
func (d *Docs) GetDoc(segments []string) (*models.Document, error) {
	res, err := d.resolver.Resolve(segments)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			cleaned, cerr := CleanSegments(segments)
			if cerr != nil {
				return nil, cerr
			}
			return NotFoundDoc(strings.Join(cleaned, "/")), err
		}
		return nil, err
	}

	var doc *models.Document
	if res.IsDir {
		doc, err = loadDirectory(res)
	} else {
		doc, err = loadFile(res)
	}
	if err != nil {
		return nil, err
	}
	doc.Match = res.Match
	doc.Path = treePath(d.Root, res)
	doc.Dir = sourceDir(d.Root, res)
	return doc, nil
}

// NotFoundDoc is the record shown for a slug that resolves to nothing.
func NotFoundDoc(slug string) *models.Document {
	return &models.Document{
		Slug:        slug,
		FrontMatter: map[string]interface{}{"title": "Not Found"},
		Body:        notFoundBody,
		NotFound:    true,
	}
}

// sourceDir is the slash separated directory holding the resolved entry,
// relative to root. Relative links inside the document are based on it.
func sourceDir(root string, res *Resolution) string {
	dir := res.Path
	if !res.IsDir {
		dir = filepath.Dir(dir)
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// treePath is the resolved entry's key path in the navigation tree, which
// can differ from the requested slug after a dashed or close match.
func treePath(root string, res *Resolution) string {
	rel, err := filepath.Rel(root, res.Path)
	if err != nil || rel == "." {
		return ""
	}
	rel = filepath.ToSlash(rel)
	if !res.IsDir {
		rel = StripMarkdownExt(rel)
	}
	return rel
}

func lastOr(segments []string, fallback string) string {
	if len(segments) == 0 {
		return fallback
	}
	return segments[len(segments)-1]
}

func loadDirectory(res *Resolution) (*models.Document, error) {
	entries, err := os.ReadDir(res.Path)
	if err != nil {
		slog.Error("read directory", "path", res.Path, "error", err)
		return nil, fmt.Errorf("read directory %s: %w", res.Slug, err)
	}

	files := []string{}
	folders := []string{}
	for _, e := range entries {
		if isHidden(e.Name()) {
			continue
		}
		info, err := os.Stat(filepath.Join(res.Path, e.Name()))
		if err != nil {
			slog.Warn("skipping unreadable entry", "path", e.Name(), "error", err)
			continue
		}
		switch {
		case info.IsDir():
			folders = append(folders, e.Name())
		case IsMarkdown(e.Name()):
			files = append(files, StripMarkdownExt(e.Name()))
		}
	}
	sort.Strings(files)
	sort.Strings(folders)

	return &models.Document{
		Slug:        res.Slug,
		FrontMatter: map[string]interface{}{"title": lastOr(res.Segments, "Index")},
		IsDirectory: true,
		Files:       slices.Compact(files),
		Folders:     folders,
	}, nil
}

func loadFile(res *Resolution) (*models.Document, error) {
	content, err := os.ReadFile(res.Path)
	if err != nil {
		slog.Error("read document", "path", res.Path, "error", err)
		return nil, fmt.Errorf("read document %s: %w", res.Slug, err)
	}

	fm, body, format, err := ParseFrontMatter(content)
	if err != nil {
		slog.Warn("invalid frontmatter, rendering raw content", "path", res.Path, "error", err)
		fm, body, format = map[string]interface{}{}, string(content), ""
	}
	if t, ok := fm["title"]; !ok || t == nil || t == "" {
		fm["title"] = lastOr(res.Segments, "Untitled")
	}

	return &models.Document{
		Slug:        res.Slug,
		FrontMatter: fm,
		Body:        body,
		Format:      format,
	}, nil
}
