package content

import (
	htmlstd "html"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading 描述一条目录项，id 与渲染输出中的锚点一一对应。
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

var (
	htmlHeadingPattern = regexp.MustCompile(`(?is)<h([1-6])([^>]*)>(.*?)</h[1-6]\s*>`)
	htmlTagPattern     = regexp.MustCompile(`(?s)<[^>]*>`)
	htmlIDAttrPattern  = regexp.MustCompile(`(?i)\s+id\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
)

// ExtractHeadings 从 Markdown 中提取标题列表。
// 与 Render 共用同一个 goldmark 解析器，避免出现两套"什么算标题"的实现。
func ExtractHeadings(markdown string) []Heading {
	source := []byte(markdown)
	doc := markdownEngine.Parser().Parse(text.NewReader(source))

	headings := make([]Heading, 0, 8)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok {
			plain := strings.TrimSpace(nodeText(heading, source))
			headings = append(headings, Heading{
				ID:    HeadingID(plain),
				Text:  plain,
				Level: heading.Level,
			})
		}
		return ast.WalkContinue, nil
	})

	return headings
}

// Headings 按内容格式提取标题，供页面目录使用。
func Headings(raw, contentType string) []Heading {
	if contentType == "html" {
		return extractHTMLHeadings(raw)
	}
	return ExtractHeadings(raw)
}

// extractHTMLHeadings 从原始 HTML 中提取 h1-h6 标题。
func extractHTMLHeadings(raw string) []Heading {
	matches := htmlHeadingPattern.FindAllStringSubmatch(raw, -1)
	headings := make([]Heading, 0, len(matches))
	for _, match := range matches {
		level, _ := strconv.Atoi(match[1])
		plain := headingPlainText(match[3])
		headings = append(headings, Heading{
			ID:    HeadingID(plain),
			Text:  plain,
			Level: level,
		})
	}
	return headings
}

// injectHTMLHeadingIDs 为原始 HTML 中的每对标题标签补上 id 锚点，
// 已有的 id 会被派生值覆盖，保证锚点与目录一致。
func injectHTMLHeadingIDs(raw string) string {
	return htmlHeadingPattern.ReplaceAllStringFunc(raw, func(match string) string {
		groups := htmlHeadingPattern.FindStringSubmatch(match)
		if len(groups) < 4 {
			return match
		}

		level := groups[1]
		attrs := htmlIDAttrPattern.ReplaceAllString(groups[2], "")
		inner := groups[3]
		id := HeadingID(headingPlainText(inner))

		return "<h" + level + ` id="` + id + `"` + attrs + ">" + inner + "</h" + level + ">"
	})
}

// headingPlainText 去掉标题内部的嵌套标记，还原纯文本。
func headingPlainText(inner string) string {
	plain := htmlTagPattern.ReplaceAllString(inner, "")
	return strings.TrimSpace(htmlstd.UnescapeString(plain))
}
