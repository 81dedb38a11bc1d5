package services

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Styles maps rendered elements to the CSS classes applied to them. Keys are
// tag names, plus "pre code" for the code element inside a code block and
// "table-wrap" for the container around tables.
var Styles = map[string]string{
	"h1":         "doc-h1",
	"h2":         "doc-h2",
	"h3":         "doc-h3",
	"p":          "doc-p",
	"ul":         "doc-ul",
	"ol":         "doc-ol",
	"li":         "doc-li",
	"a":          "doc-link",
	"pre":        "doc-pre",
	"pre code":   "doc-pre-code",
	"code":       "doc-code",
	"table-wrap": "doc-table-wrap",
	"table":      "doc-table",
	"th":         "doc-th",
	"td":         "doc-td",
	"img":        "doc-img",
	"blockquote": "doc-blockquote",
}

const (
	noteOpen  = `<div class="doc-note"><p class="doc-note-title">Note</p><div class="doc-note-body">`
	noteClose = `</div></div>`
)

var (
	noteOpenTag  = regexp.MustCompile(`<Note(\s[^>]*)?>`)
	noteCloseTag = regexp.MustCompile(`</Note\s*>`)
	mdxStatement = regexp.MustCompile(`^(import\s.+\sfrom\s+['"].+['"];?|import\s+['"].+['"];?|export\s+(const|let|var|function|default)\b.*)$`)
)

// Renderer converts document bodies into styled HTML. It holds no per-call
// state and can be shared between requests.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(&styleTransformer{styles: Styles}, 999)),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(&styledBlockRenderer{styles: Styles}, 100)),
		),
	)
	return &Renderer{md: md}
}

var assetBaseKey = parser.NewContextKey()

// Render returns the HTML for a markdown or MDX body. Relative image
// sources are rewritten to the asset route, based at dir.
func (r *Renderer) Render(body, dir string) (string, error) {
	pc := parser.NewContext()
	pc.Set(assetBaseKey, dir)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(PrepareMDX(body)), &buf, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// PrepareMDX rewrites the MDX constructs the site understands into plain
// markdown and HTML. Fenced code is left untouched.
func PrepareMDX(body string) string {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))

	var fence string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if fence != "" {
			if strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, fence[:1]) == "" {
				fence = ""
			}
			out = append(out, line)
			continue
		}
		if f := fenceMarker(trimmed); f != "" {
			fence = f
			out = append(out, line)
			continue
		}

		if mdxStatement.MatchString(line) {
			continue
		}
		line = noteOpenTag.ReplaceAllString(line, "\n\n"+noteOpen+"\n\n")
		line = noteCloseTag.ReplaceAllString(line, "\n\n"+noteClose+"\n\n")
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// fenceMarker returns the opening run of backticks or tildes of a code
// fence line, or "".
func fenceMarker(line string) string {
	for _, c := range []string{"`", "~"} {
		n := 0
		for n < len(line) && line[n:n+1] == c {
			n++
		}
		if n >= 3 {
			return line[:n]
		}
	}
	return ""
}

type styleTransformer struct {
	styles map[string]string
}

func (t *styleTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	base, _ := pc.Get(assetBaseKey).(string)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if img, ok := n.(*ast.Image); ok {
			img.Destination = []byte(AssetHref(base, string(img.Destination)))
		}
		if cls := t.styles[elementName(n)]; cls != "" {
			n.SetAttributeString("class", []byte(cls))
		}
		return ast.WalkContinue, nil
	})
}

func elementName(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Heading:
		return fmt.Sprintf("h%d", v.Level)
	case *ast.Paragraph:
		return "p"
	case *ast.List:
		if v.IsOrdered() {
			return "ol"
		}
		return "ul"
	case *ast.ListItem:
		return "li"
	case *ast.Link, *ast.AutoLink:
		return "a"
	case *ast.Image:
		return "img"
	case *ast.CodeSpan:
		return "code"
	case *ast.Blockquote:
		return "blockquote"
	case *east.Table:
		return "table"
	case *east.TableCell:
		if _, ok := v.Parent().(*east.TableHeader); ok {
			return "th"
		}
		return "td"
	}
	return ""
}

// AssetHref maps a relative link target onto the asset route. Absolute
// paths, URLs with a scheme and targets escaping the root are returned
// unchanged.
func AssetHref(base, dest string) string {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" || strings.HasPrefix(u.Path, "/") {
		return dest
	}
	joined := path.Join(base, u.Path)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return dest
	}
	out := &url.URL{Path: "/assets/" + joined, RawQuery: u.RawQuery, Fragment: u.Fragment}
	return out.String()
}

// styledBlockRenderer overrides the elements whose markup differs from the
// default renderer: code blocks and tables.
type styledBlockRenderer struct {
	styles map[string]string
}

func (r *styledBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindFencedCodeBlock, r.renderCodeBlock)
	reg.Register(east.KindTable, r.renderTable)
}

func (r *styledBlockRenderer) renderCodeBlock(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</code></pre>\n")
		return ast.WalkContinue, nil
	}

	class := r.styles["pre code"]
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		if lang := fenced.Language(source); lang != nil {
			class = strings.TrimSpace(class + " language-" + string(util.EscapeHTML(lang)))
		}
	}
	_, _ = fmt.Fprintf(w, `<pre class="%s"><code class="%s">`, r.styles["pre"], class)

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		html.DefaultWriter.RawWrite(w, line.Value(source))
	}
	return ast.WalkContinue, nil
}

func (r *styledBlockRenderer) renderTable(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = fmt.Fprintf(w, "<div class=\"%s\">\n<table", r.styles["table-wrap"])
		if n.Attributes() != nil {
			html.RenderAttributes(w, n, extension.TableAttributeFilter)
		}
		_, _ = w.WriteString(">\n")
	} else {
		_, _ = w.WriteString("</table>\n</div>\n")
	}
	return ast.WalkContinue, nil
}
