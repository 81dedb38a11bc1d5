package services

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func resolverDocs(t *testing.T) *Resolver {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"intro.md":           "# Intro",
		"Getting-Started.md": "# Getting started",
		"guide/Setup.md":     "# Setup",
		"api/Reference.mdx":  "# Reference",
		"My Notes/todo.md":   "# Todo",
		"image.png":          "png",
		"50% off.md":         "# Sale",
		"a%20b.md":           "# Literal",
		".secret.md":         "# Secret",
	})
	return &Resolver{Root: root}
}

func TestResolve(t *testing.T) {
	r := resolverDocs(t)

	tests := []struct {
		name  string
		raw   []string
		path  string
		isDir bool
		match string
		slug  string
	}{
		{"root", nil, "", true, MatchExact, ""},
		{"directory", []string{"guide"}, "guide", true, MatchExact, "guide"},
		{"markdown extension", []string{"intro"}, "intro.md", false, MatchExtension, "intro"},
		{"explicit extension", []string{"intro.md"}, "intro.md", false, MatchExtension, "intro"},
		{"spaces to dashes", []string{"Getting Started"}, "Getting-Started.md", false, MatchDashed, "Getting Started"},
		{"percent in name", []string{"50% off"}, "50% off.md", false, MatchExtension, "50% off"},
		{"escape taken literally", []string{"a%20b"}, "a%20b.md", false, MatchExtension, "a%20b"},
		{"close match", []string{"guide", "setup"}, "guide/Setup.md", false, MatchClose, "guide/setup"},
		{"close match mdx", []string{"api", "reference"}, "api/Reference.mdx", false, MatchClose, "api/reference"},
		{"directory with space", []string{"My Notes", "todo"}, "My Notes/todo.md", false, MatchExtension, "My Notes/todo"},
		{"empty segments", []string{"", "guide", ""}, "guide", true, MatchExact, "guide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Resolve(tt.raw)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.raw, err)
			}
			want := filepath.Join(r.Root, filepath.FromSlash(tt.path))
			if res.Path != want {
				t.Errorf("path = %s, want %s", res.Path, want)
			}
			if res.IsDir != tt.isDir {
				t.Errorf("isDir = %v, want %v", res.IsDir, tt.isDir)
			}
			if res.Match != tt.match {
				t.Errorf("match = %s, want %s", res.Match, tt.match)
			}
			if res.Slug != tt.slug {
				t.Errorf("slug = %q, want %q", res.Slug, tt.slug)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	r := resolverDocs(t)

	tests := []struct {
		name string
		raw  []string
		want error
	}{
		{"missing", []string{"missing"}, ErrNotFound},
		{"missing parent", []string{"nope", "intro"}, ErrNotFound},
		{"non-markdown file", []string{"image.png"}, ErrNotFound},
		{"hidden file", []string{".secret"}, ErrNotFound},
		{"parent traversal", []string{"..", "etc"}, ErrInvalidSlug},
		{"separator in segment", []string{"a/b"}, ErrInvalidSlug},
		{"backslash in segment", []string{`a\b`}, ErrInvalidSlug},
		{"escaped space not decoded", []string{"Getting%20Started"}, ErrNotFound},
		{"extension only", []string{".md"}, ErrInvalidSlug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.raw)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Resolve(%q) error = %v, want %v", tt.raw, err, tt.want)
			}
		})
	}
}

func TestDecodeSegments(t *testing.T) {
	got, err := DecodeSegments([]string{"a%20b", "", "c.mdx"})
	if err != nil {
		t.Fatalf("DecodeSegments: %v", err)
	}
	if want := []string{"a b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("segments = %q, want %q", got, want)
	}

	got, err = DecodeSegments(SplitSlug("/"))
	if err != nil || len(got) != 0 {
		t.Fatalf("root slug = %q, %v", got, err)
	}

	got, err = DecodeSegments(SplitSlug("50%25%20off/a%2520b"))
	if err != nil {
		t.Fatalf("DecodeSegments: %v", err)
	}
	if want := []string{"50% off", "a%20b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("segments = %q, want %q", got, want)
	}

	for _, raw := range []string{"%zz", "a%2Fb", "%2E%2E"} {
		if _, err := DecodeSegments([]string{raw}); !errors.Is(err, ErrInvalidSlug) {
			t.Errorf("DecodeSegments(%q) error = %v, want ErrInvalidSlug", raw, err)
		}
	}
}

func TestCleanSegments(t *testing.T) {
	got, err := CleanSegments([]string{"", "50% off", "a%20b.md"})
	if err != nil {
		t.Fatalf("CleanSegments: %v", err)
	}
	if want := []string{"50% off", "a%20b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("segments = %q, want %q", got, want)
	}

	for _, raw := range [][]string{{".."}, {"."}, {"a/b"}, {"x", ".mdx"}} {
		if _, err := CleanSegments(raw); !errors.Is(err, ErrInvalidSlug) {
			t.Errorf("CleanSegments(%q) error = %v, want ErrInvalidSlug", raw, err)
		}
	}
}

func TestSafeJoin(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "docs")

	tests := []struct {
		sub, target, want string
	}{
		{"", "img/a.png", filepath.Join(root, "img", "a.png")},
		{"", "../etc/passwd", filepath.Join(root, "etc", "passwd")},
		{"guide", "../../x", filepath.Join(root, "guide", "x")},
		{"", "", root},
		{"..", "x", ""},
	}
	for _, tt := range tests {
		if got := SafeJoin(root, tt.sub, tt.target); got != tt.want {
			t.Errorf("SafeJoin(%q, %q) = %q, want %q", tt.sub, tt.target, got, tt.want)
		}
	}
}
