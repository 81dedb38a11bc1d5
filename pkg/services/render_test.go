package services

import (
	"strings"
	"testing"
)

func render(t *testing.T, body, dir string) string {
	t.Helper()
	out, err := NewRenderer().Render(body, dir)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return out
}

func assertContains(t *testing.T, html string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q\n%s", want, html)
		}
	}
}

func TestRenderStyles(t *testing.T) {
	out := render(t, "# Title\n\n## Sub\n\n### Third\n\nHello **world** and `code`.\n\n- one\n- two\n\n1. first\n\n> quoted\n\n[link](https://example.com)\n", "")

	assertContains(t, out,
		`class="doc-h1">Title</h1>`,
		`class="doc-h2">Sub</h2>`,
		`class="doc-h3">Third</h3>`,
		`<p class="doc-p">Hello <strong>world</strong> and <code class="doc-code">code</code>.</p>`,
		`<ul class="doc-ul">`,
		`<li class="doc-li">one</li>`,
		`<ol class="doc-ol">`,
		`<blockquote class="doc-blockquote">`,
		`<a href="https://example.com" class="doc-link">link</a>`,
	)
}

func TestRenderCodeBlock(t *testing.T) {
	out := render(t, "```go\nfmt.Println(\"<hi>\")\n```\n\n    indented\n", "")

	assertContains(t, out,
		`<pre class="doc-pre"><code class="doc-pre-code language-go">`,
		`fmt.Println(&quot;&lt;hi&gt;&quot;)`,
		`<pre class="doc-pre"><code class="doc-pre-code">indented`,
	)
	if strings.Contains(out, `class="doc-code"`) {
		t.Errorf("block code should not get the inline code class\n%s", out)
	}
}

func TestRenderTable(t *testing.T) {
	out := render(t, "| a | b |\n|---|---|\n| 1 | 2 |\n", "")

	assertContains(t, out,
		`<div class="doc-table-wrap">`,
		`<table class="doc-table">`,
		`<th class="doc-th">a</th>`,
		`<td class="doc-td">2</td>`,
		"</table>\n</div>",
	)
}

func TestRenderImages(t *testing.T) {
	out := render(t, "![diagram](img/flow.png)\n\n![abs](/static/logo.png)\n\n![remote](https://cdn.example.com/x.png)\n", "guide")

	assertContains(t, out,
		`<img src="/assets/guide/img/flow.png" alt="diagram" class="doc-img">`,
		`<img src="/static/logo.png" alt="abs" class="doc-img">`,
		`<img src="https://cdn.example.com/x.png" alt="remote" class="doc-img">`,
	)
}

func TestRenderNote(t *testing.T) {
	out := render(t, "Before\n\n<Note>\nRemember **this**.\n</Note>\n\nAfter\n", "")

	assertContains(t, out,
		noteOpen,
		`<strong>this</strong>`,
		noteClose,
		`<p class="doc-p">After</p>`,
	)
	if strings.Contains(out, "<Note>") {
		t.Errorf("raw Note tag left in output\n%s", out)
	}
}

func TestRenderDropsMDXStatements(t *testing.T) {
	out := render(t, "import Chart from './chart'\nexport const meta = {}\n\n# Title\n", "")

	if strings.Contains(out, "import") || strings.Contains(out, "export") {
		t.Errorf("mdx statements leaked\n%s", out)
	}
	assertContains(t, out, `class="doc-h1">Title</h1>`)
}

func TestPrepareMDXLeavesFencesAlone(t *testing.T) {
	body := "```mdx\nimport X from 'x'\n<Note>inside</Note>\n```\n<Note>outside</Note>\n"

	got := PrepareMDX(body)

	if !strings.Contains(got, "import X from 'x'\n<Note>inside</Note>\n```") {
		t.Errorf("fenced content changed:\n%s", got)
	}
	if !strings.Contains(got, noteOpen+"\n\noutside\n\n"+noteClose) {
		t.Errorf("note outside the fence not expanded:\n%s", got)
	}
}

func TestPrepareMDXTildeFence(t *testing.T) {
	body := "~~~~\n<Note>\n~~~\nstill code\n~~~~\n<Note>x</Note>\n"

	got := PrepareMDX(body)

	if !strings.Contains(got, "~~~~\n<Note>\n~~~\nstill code\n~~~~") {
		t.Errorf("fence closed too early:\n%s", got)
	}
	if strings.Count(got, noteOpen) != 1 {
		t.Errorf("expected one expanded note:\n%s", got)
	}
}

func TestAssetHref(t *testing.T) {
	tests := []struct {
		base, dest, want string
	}{
		{"", "a.png", "/assets/a.png"},
		{"guide", "img/a.png", "/assets/guide/img/a.png"},
		{"guide/deep", "../b.png", "/assets/guide/b.png"},
		{"guide", "a.png?v=2#top", "/assets/guide/a.png?v=2#top"},
		{"", "../outside.png", "../outside.png"},
		{"guide", "/abs.png", "/abs.png"},
		{"guide", "https://example.com/a.png", "https://example.com/a.png"},
		{"guide", "//cdn.example.com/a.png", "//cdn.example.com/a.png"},
		{"guide", "#anchor", "#anchor"},
	}
	for _, tt := range tests {
		if got := AssetHref(tt.base, tt.dest); got != tt.want {
			t.Errorf("AssetHref(%q, %q) = %q, want %q", tt.base, tt.dest, got, tt.want)
		}
	}
}
