package content

import (
	"strings"
	"testing"
)

func TestRenderBasicMarkdown(t *testing.T) {
	html := Render("# Hello\n\nSome **bold** text.")

	if !strings.Contains(html, `<h1 id="hello">Hello</h1>`) {
		t.Fatalf("expected heading with anchor, got %q", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("expected bold text, got %q", html)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	markdown := "# 标题\n\n正文段落，包含 [链接](https://example.com) 和 `代码`。\n\n- 列表一\n- 列表二"

	first := Render(markdown)
	second := Render(markdown)
	if first != second {
		t.Fatalf("expected identical output for identical input:\n%q\n%q", first, second)
	}
}

func TestRenderHeadingAnchorsMatchExtractedHeadings(t *testing.T) {
	markdown := "## Some Title\n\ntext\n\n### 另一个 标题"

	html := Render(markdown)
	headings := ExtractHeadings(markdown)

	if len(headings) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(headings))
	}
	for _, heading := range headings {
		anchor := `id="` + heading.ID + `"`
		if !strings.Contains(html, anchor) {
			t.Fatalf("rendered html missing anchor %q:\n%s", anchor, html)
		}
	}
}

func TestRenderDoesNotEmitScriptTags(t *testing.T) {
	html := Render("hello <script>alert(1)</script> world")

	if strings.Contains(html, "<script") {
		t.Fatalf("expected script tags to be removed, got %q", html)
	}
}

func TestRenderGFMTable(t *testing.T) {
	markdown := "| A | B |\n| --- | --- |\n| 1 | 2 |"

	html := Render(markdown)
	if !strings.Contains(html, "<table>") || !strings.Contains(html, "<td>1</td>") {
		t.Fatalf("expected table output, got %q", html)
	}
}

func TestPrepareHTMLInjectsHeadingAnchors(t *testing.T) {
	html := PrepareHTML(`<h2 id="stale">My Title</h2><p>body</p>`)

	if !strings.Contains(html, `<h2 id="my-title">My Title</h2>`) {
		t.Fatalf("expected derived anchor to replace the stale id, got %q", html)
	}
}

func TestRenderContentDispatchesByType(t *testing.T) {
	raw := "# Heading"

	markdown := RenderContent(raw, "markdown")
	if !strings.Contains(markdown, "<h1") {
		t.Fatalf("expected markdown rendering, got %q", markdown)
	}

	asHTML := RenderContent("<p># Heading</p>", "html")
	if asHTML != "<p># Heading</p>" {
		t.Fatalf("expected html passthrough, got %q", asHTML)
	}
}
