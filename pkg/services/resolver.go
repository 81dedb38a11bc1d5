package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrInvalidSlug = errors.New("invalid slug")
)

// Match kinds reported by Resolve.
const (
	MatchExact     = "exact"
	MatchExtension = "extension"
	MatchDashed    = "dashed"
	MatchClose     = "close"
)

// SafeJoin joins target below root/sub, returning "" when target would
// escape root.
func SafeJoin(root, sub, target string) string {
	cleanTarget := filepath.Clean("/" + filepath.FromSlash(target))
	full := filepath.Join(root, sub, cleanTarget)
	base := filepath.Clean(root)
	if full != base && !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return ""
	}
	return full
}

// Resolution is a slug mapped onto the filesystem.
type Resolution struct {
	Slug     string
	Segments []string
	Path     string
	IsDir    bool
	Match    string
}

// Resolver maps slugs to files under Root.
type Resolver struct {
	Root string
}

// SplitSlug splits a slash separated slug into path segments.
func SplitSlug(slug string) []string {
	return strings.Split(strings.Trim(slug, "/"), "/")
}

// DecodeSegments unescapes segments taken from an escaped URL path and
// cleans them with CleanSegments.
func DecodeSegments(raw []string) ([]string, error) {
	decoded := make([]string, 0, len(raw))
	for _, r := range raw {
		s, err := url.PathUnescape(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSlug, r, err)
		}
		decoded = append(decoded, s)
	}
	return CleanSegments(decoded)
}

// CleanSegments drops empty segments and strips a markdown extension from
// the last one. Segments are taken literally; it rejects any that would
// leave the current directory.
func CleanSegments(raw []string) ([]string, error) {
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if s == "" {
			continue
		}
		if s == "." || s == ".." || strings.ContainsAny(s, "/\\\x00") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, s)
		}
		segments = append(segments, s)
	}
	if n := len(segments); n > 0 {
		last := StripMarkdownExt(segments[n-1])
		if last == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, segments[n-1])
		}
		segments[n-1] = last
	}
	return segments, nil
}

func dashed(segments []string) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = strings.ReplaceAll(s, " ", "-")
	}
	return out
}

type candidate struct {
	path  string
	match string
}

func (r *Resolver) candidates(segments []string) []candidate {
	exact := filepath.Join(append([]string{r.Root}, segments...)...)
	dash := filepath.Join(append([]string{r.Root}, dashed(segments)...)...)

	all := []candidate{
		{exact, MatchExact},
		{exact + ".md", MatchExtension},
		{exact + ".mdx", MatchExtension},
		{dash, MatchDashed},
		{dash + ".md", MatchDashed},
		{dash + ".mdx", MatchDashed},
	}

	seen := make(map[string]bool, len(all))
	out := all[:0]
	for _, c := range all {
		if seen[c.path] {
			continue
		}
		seen[c.path] = true
		out = append(out, c)
	}
	return out
}

// Resolve finds the file or directory addressed by decoded slug segments. It
// tries the literal path, the path with a markdown extension, the same with
// spaces replaced by dashes, and finally a case-insensitive match within the
// parent directory.
func (r *Resolver) Resolve(raw []string) (*Resolution, error) {
	segments, err := CleanSegments(raw)
	if err != nil {
		return nil, err
	}

	res := &Resolution{
		Slug:     strings.Join(segments, "/"),
		Segments: segments,
	}

	for _, s := range segments {
		if isHidden(s) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, res.Slug)
		}
	}

	for _, c := range r.candidates(segments) {
		info, err := os.Stat(c.path)
		if err != nil {
			continue
		}
		if !info.IsDir() && !IsMarkdown(c.path) {
			continue
		}
		res.Path = c.path
		res.IsDir = info.IsDir()
		res.Match = c.match
		return res, nil
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, r.Root)
	}

	p, isDir, err := r.closeMatch(segments)
	if err != nil {
		return nil, err
	}
	slog.Debug("resolved slug by close match", "slug", res.Slug, "path", p)
	res.Path = p
	res.IsDir = isDir
	res.Match = MatchClose
	return res, nil
}

// closeMatch looks in the parent directory for an entry whose name, minus a
// markdown extension, equals the last segment ignoring case.
func (r *Resolver) closeMatch(segments []string) (string, bool, error) {
	parent := filepath.Join(append([]string{r.Root}, segments[:len(segments)-1]...)...)
	name := segments[len(segments)-1]
	wants := []string{strings.ToLower(name), strings.ToLower(strings.ReplaceAll(name, " ", "-"))}

	entries, err := os.ReadDir(parent)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(segments, "/"))
	}

	for _, e := range entries {
		if isHidden(e.Name()) || (!e.IsDir() && !IsMarkdown(e.Name())) {
			continue
		}
		got := strings.ToLower(StripMarkdownExt(e.Name()))
		for _, want := range wants {
			if got == want {
				return filepath.Join(parent, e.Name()), e.IsDir(), nil
			}
		}
	}
	return "", false, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(segments, "/"))
}
