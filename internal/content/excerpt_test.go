package content

import (
	"strings"
	"testing"
)

func TestExtractExcerptStripsMarkdown(t *testing.T) {
	markdown := "# 标题\n\n这是**加粗**和[链接文本](https://example.com)的内容"

	got := ExtractExcerpt(markdown, DefaultExcerptLength)
	want := "标题 这是加粗和链接文本的内容"
	if got != want {
		t.Fatalf("ExtractExcerpt = %q, want %q", got, want)
	}
}

func TestExtractExcerptTruncatesByRunes(t *testing.T) {
	markdown := strings.Repeat("字", 200)

	got := ExtractExcerpt(markdown, 10)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	if runes := []rune(got); len(runes) != 13 {
		t.Fatalf("expected 10 runes plus ellipsis, got %d runes: %q", len(runes), got)
	}
}

func TestExtractExcerptShortContentUnchanged(t *testing.T) {
	got := ExtractExcerpt("简短的一句话", DefaultExcerptLength)
	if got != "简短的一句话" {
		t.Fatalf("expected input unchanged, got %q", got)
	}
}

func TestExtractExcerptDropsImages(t *testing.T) {
	got := ExtractExcerpt("看图 ![](https://example.com/a.png) 结束", DefaultExcerptLength)

	if strings.Contains(got, "example.com") {
		t.Fatalf("expected image url dropped, got %q", got)
	}
	if !strings.Contains(got, "看图") || !strings.Contains(got, "结束") {
		t.Fatalf("expected surrounding text kept, got %q", got)
	}
}

func TestExtractExcerptCollapsesNewlines(t *testing.T) {
	got := ExtractExcerpt("第一行\n\n\n第二行", DefaultExcerptLength)
	if got != "第一行 第二行" {
		t.Fatalf("expected newlines collapsed, got %q", got)
	}
}

func TestExtractExcerptZeroLengthUsesDefault(t *testing.T) {
	markdown := strings.Repeat("a", DefaultExcerptLength+50)

	got := ExtractExcerpt(markdown, 0)
	if runes := []rune(got); len(runes) != DefaultExcerptLength+3 {
		t.Fatalf("expected default truncation, got %d runes", len(runes))
	}
}
