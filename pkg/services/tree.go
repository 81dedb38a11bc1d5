package services

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"docsite/pkg/models"
)

// IsMarkdown reports whether name carries a .md or .mdx extension, in any case.
func IsMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".mdx"
}

// StripMarkdownExt removes a trailing .md/.mdx extension.
func StripMarkdownExt(name string) string {
	if !IsMarkdown(name) {
		return name
	}
	return name[:len(name)-len(filepath.Ext(name))]
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// BuildTree walks root and returns the navigation tree of every markdown file
// below it. A missing root yields an empty tree.
func BuildTree(root string) (models.Tree, error) {
	tree := models.Tree{}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			slog.Warn("skipping unreadable entry", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if p == root {
			if !d.IsDir() {
				return fmt.Errorf("%s is not a directory", root)
			}
			return nil
		}
		if isHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsMarkdown(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		insert(tree, strings.Split(filepath.ToSlash(rel), "/"))
		return nil
	})

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("docs directory not found", "root", root)
			return models.Tree{}, nil
		}
		return nil, fmt.Errorf("build tree %s: %w", root, err)
	}
	return tree, nil
}

// insert adds a file path to the tree. Directory keys win over file keys of
// the same name.
func insert(tree models.Tree, parts []string) {
	current := tree
	for i, part := range parts {
		if i == len(parts)-1 {
			key := StripMarkdownExt(part)
			if _, ok := current[key]; !ok {
				current[key] = nil
			}
			return
		}
		next := current[part]
		if next == nil {
			next = models.Tree{}
			current[part] = next
		}
		current = next
	}
}

// ListSlugs returns every directory and extension-stripped markdown path
// below root, slash separated, in walk order. Each slug appears once.
func ListSlugs(root string) ([]string, error) {
	var slugs []string
	seen := map[string]bool{}
	add := func(slug string) {
		if !seen[slug] {
			seen[slug] = true
			slugs = append(slugs, slug)
		}
	}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			slog.Warn("skipping unreadable entry", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if p == root {
			return nil
		}
		if isHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		switch {
		case d.IsDir():
			add(rel)
		case IsMarkdown(d.Name()):
			add(StripMarkdownExt(rel))
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list slugs %s: %w", root, err)
	}
	if slugs == nil {
		slugs = []string{}
	}
	return slugs, nil
}

// SortedEntries returns the children of tree with directories first, each
// group in locale order. base is the slash separated path of tree itself.
func SortedEntries(tree models.Tree, base string) []models.TreeEntry {
	entries := make([]models.TreeEntry, 0, len(tree))
	for name, node := range tree {
		entries = append(entries, models.TreeEntry{
			Name:  name,
			Path:  path.Join(base, name),
			Node:  node,
			IsDir: node != nil,
		})
	}

	col := collate.New(language.English, collate.IgnoreCase)
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.Name < b.Name
	})
	return entries
}

// DisplayName is the last segment of a tree key.
func DisplayName(key string) string {
	if i := strings.LastIndexAny(key, `/\`); i >= 0 && i < len(key)-1 {
		return key[i+1:]
	}
	return key
}

// FilterTree keeps entries whose display name contains query, ignoring case.
// A matching directory keeps its whole subtree; a non-matching directory is
// kept only with the children that match.
func FilterTree(tree models.Tree, query string) models.Tree {
	if query == "" {
		return tree
	}
	fold := cases.Fold()
	return filterTree(tree, fold.String(query), fold)
}

func filterTree(tree models.Tree, query string, fold cases.Caser) models.Tree {
	filtered := models.Tree{}
	for key, node := range tree {
		if strings.Contains(fold.String(DisplayName(key)), query) {
			filtered[key] = node
			continue
		}
		if node == nil {
			continue
		}
		if sub := filterTree(node, query, fold); len(sub) > 0 {
			filtered[key] = sub
		}
	}
	return filtered
}
