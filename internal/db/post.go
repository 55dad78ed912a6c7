package db

import (
	"time"

	"gorm.io/gorm"
)

// 文章内容格式。
const (
	ContentTypeMarkdown = "markdown"
	ContentTypeHTML     = "html"
)

// Post 定义了文章模型。
// 发布状态不变量：Published 为 true 时 PublishedAt 必有值，
// ScheduledAt 与 PreviewToken 必为空。
type Post struct {
	gorm.Model
	Title        string `gorm:"not null"`
	Slug         string `gorm:"uniqueIndex;not null"`
	Content      string `gorm:"type:text"`
	ContentType  string `gorm:"size:16;default:markdown"`
	Excerpt      string `gorm:"type:text"`
	CoverImage   string
	Published    bool `gorm:"index:idx_posts_publish_due"`
	Featured     bool
	ViewCount    uint64     `gorm:"default:0"`
	ScheduledAt  *time.Time `gorm:"index:idx_posts_publish_due"`
	PreviewToken *string
	PublishedAt  *time.Time
	CategoryID   *uint
	Category     *Category
	Tags         []Tag     `gorm:"many2many:post_tags;"`
	Comments     []Comment `gorm:"constraint:OnDelete:CASCADE"`
}

// Status 返回文章当前所处的发布阶段：draft、scheduled 或 published。
func (p *Post) Status() string {
	switch {
	case p.Published:
		return "published"
	case p.ScheduledAt != nil:
		return "scheduled"
	default:
		return "draft"
	}
}
