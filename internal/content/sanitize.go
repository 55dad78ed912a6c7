package content

import "github.com/microcosm-cc/bluemonday"

var sanitizer = buildContentPolicy()

// buildContentPolicy 构建文章内容的白名单净化策略。
// 这是面向读者的唯一 XSS 防线，Markdown 渲染结果与作者提交的
// 原始 HTML 都必须经过它。
func buildContentPolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()

	policy.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr",
		"ul", "ol", "li",
		"blockquote", "pre", "code",
		"a", "strong", "em", "del", "ins", "sub", "sup",
		"table", "thead", "tbody", "tr", "th", "td",
		"img", "figure", "figcaption",
		"div", "span",
	)

	policy.AllowAttrs("href", "title", "target", "rel").OnElements("a")
	policy.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	// class 仅用于语法高亮样式钩子
	policy.AllowAttrs("class").OnElements("code", "pre", "span", "div")
	policy.AllowAttrs("align").OnElements("th", "td")
	// 保留渲染阶段注入的标题锚点
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")

	policy.AllowURLSchemes("http", "https", "mailto")
	policy.AllowDataURIImages()
	policy.AllowRelativeURLs(true)

	// 站外链接一律在新窗口打开，且不泄露 referrer/opener；
	// 站内（/ 开头）与页内（# 开头）链接不受影响。
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnFullyQualifiedLinks(true)

	return policy
}

// Sanitize 按白名单净化 HTML。对同一输入幂等。
func Sanitize(html string) string {
	return sanitizer.Sanitize(html)
}
