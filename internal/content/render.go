// Package content 实现文章内容的渲染管线：
// Markdown 解析、标题锚点注入、HTML 白名单净化与摘要提取。
package content

import (
	"bytes"
	htmlstd "html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
	goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
)

// Render 将 Markdown 渲染为可直接嵌入页面的安全 HTML。
// 解析与标题锚点注入共用同一次语法树遍历，渲染结果最终经过白名单净化。
func Render(markdown string) string {
	source := []byte(markdown)
	doc := markdownEngine.Parser().Parse(text.NewReader(source))
	applyHeadingIDs(doc, source)

	var buf bytes.Buffer
	if err := markdownEngine.Renderer().Render(&buf, source, doc); err != nil {
		// goldmark 对任意输入都能产出 HTML，写入内存缓冲不应失败；
		// 兜底时把原文转义后原样展示。
		return Sanitize("<p>" + htmlstd.EscapeString(markdown) + "</p>")
	}

	return Sanitize(buf.String())
}

// PrepareHTML 处理 contentType 为 html 的文章：跳过 Markdown 解析，
// 直接在原始 HTML 上注入标题锚点并净化。
func PrepareHTML(raw string) string {
	return Sanitize(injectHTMLHeadingIDs(raw))
}

// RenderContent 按内容格式分发渲染路径，未知格式按 Markdown 处理。
func RenderContent(raw, contentType string) string {
	if contentType == "html" {
		return PrepareHTML(raw)
	}
	return Render(raw)
}

// applyHeadingIDs 为语法树中的每个标题节点设置 id 属性。
// 重复标题会得到相同的 id，与现网行为保持一致。
func applyHeadingIDs(doc ast.Node, source []byte) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok {
			plain := nodeText(heading, source)
			heading.SetAttributeString("id", []byte(HeadingID(plain)))
		}
		return ast.WalkContinue, nil
	})
}

// nodeText 收集节点下所有文本内容，忽略嵌套的行内标记。
func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(nodeText(c, source))
		}
	}
	return buf.String()
}
