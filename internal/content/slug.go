package content

import (
	"regexp"
	"strings"
)

var (
	// 保留单词字符、CJK 统一表意文字、空白与连字符，其余全部丢弃。
	slugDropPattern  = regexp.MustCompile(`[^\w\x{4e00}-\x{9fff}\s-]`)
	slugSpacePattern = regexp.MustCompile(`\s+`)
	hyphenRunPattern = regexp.MustCompile(`-{2,}`)
)

// HeadingID 从标题文本派生稳定的锚点 id。
// 相同文本永远得到相同 id；重复标题产生的 id 冲突不做去重。
func HeadingID(text string) string {
	id := strings.ToLower(strings.TrimSpace(text))
	id = slugDropPattern.ReplaceAllString(id, "")
	id = slugSpacePattern.ReplaceAllString(id, "-")
	return id
}

// Slugify 从名称或标题派生 URL 安全的 slug，
// 在 HeadingID 的基础上折叠连字符并去除首尾连字符。
func Slugify(name string) string {
	slug := HeadingID(name)
	slug = hyphenRunPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
