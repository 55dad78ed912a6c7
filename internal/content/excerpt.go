package content

import (
	"regexp"
	"strings"
)

// DefaultExcerptLength 是摘要的默认截断长度（按字符计）。
const DefaultExcerptLength = 160

var (
	excerptHeadingPattern = regexp.MustCompile(`(?m)^#+\s+`)
	excerptBoldPattern    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	excerptItalicPattern  = regexp.MustCompile(`\*(.+?)\*`)
	excerptLinkPattern    = regexp.MustCompile(`\[(.+?)\]\(.+?\)`)
	excerptCodePattern    = regexp.MustCompile("`(.+?)`")
	excerptFencePattern   = regexp.MustCompile("(?s)```.*?```")
	excerptImagePattern   = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	excerptNewlinePattern = regexp.MustCompile(`\n+`)
)

// ExtractExcerpt 把 Markdown 压平为纯文本摘要，超出 maxLength 时
// 按字符截断并追加省略号。仅在文章没有手工摘要时使用。
func ExtractExcerpt(markdown string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}

	plain := markdown
	plain = excerptHeadingPattern.ReplaceAllString(plain, "")
	plain = excerptBoldPattern.ReplaceAllString(plain, "$1")
	plain = excerptItalicPattern.ReplaceAllString(plain, "$1")
	plain = excerptLinkPattern.ReplaceAllString(plain, "$1")
	plain = excerptCodePattern.ReplaceAllString(plain, "$1")
	plain = excerptFencePattern.ReplaceAllString(plain, "")
	plain = excerptImagePattern.ReplaceAllString(plain, "")
	plain = excerptNewlinePattern.ReplaceAllString(plain, " ")
	plain = strings.TrimSpace(plain)

	runes := []rune(plain)
	if len(runes) <= maxLength {
		return plain
	}

	return strings.TrimSpace(string(runes[:maxLength])) + "..."
}
