package service

import (
	"errors"
	"strings"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// 浏览计数的拒绝原因。
const (
	ViewReasonBot      = "bot"
	ViewReasonPrefetch = "prefetch"
	ViewReasonNotFound = "not_found"
)

// botSignatures 覆盖搜索引擎、社交预览抓取器与无头浏览器框架。
// 匹配时忽略大小写。
var botSignatures = []string{
	"bot",
	"crawler",
	"spider",
	"scraper",
	"headless",
	"phantom",
	"selenium",
	"puppeteer",
	"lighthouse",
	"pagespeed",
	"googlebot",
	"bingbot",
	"yandex",
	"baiduspider",
	"facebookexternalhit",
	"twitterbot",
	"linkedinbot",
	"slackbot",
	"discordbot",
	"telegrambot",
	"whatsapp",
}

// ViewResult 描述一次浏览是否被计入，未计入时给出原因。
type ViewResult struct {
	Counted bool
	Reason  string
}

// ViewService 负责把合格的读者访问累加到文章浏览数上。
type ViewService struct {
	db *gorm.DB
}

// NewViewService 创建 ViewService。
func NewViewService(gdb *gorm.DB) *ViewService {
	return &ViewService{db: gdb}
}

// Record 对指定 slug 的已发布文章记录一次浏览。
// 机器人与预取请求直接拒绝；计数使用数据库端的原子自增，
// 并发请求不会丢失更新。同一会话内的去重由客户端负责。
func (s *ViewService) Record(slug, userAgent, purpose, secPurpose string) (ViewResult, error) {
	if isBotUserAgent(userAgent) {
		return ViewResult{Counted: false, Reason: ViewReasonBot}, nil
	}

	if isPrefetch(purpose) || isPrefetch(secPurpose) {
		return ViewResult{Counted: false, Reason: ViewReasonPrefetch}, nil
	}

	var post db.Post
	err := s.db.Select("id", "published").Where("slug = ?", slug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ViewResult{Counted: false, Reason: ViewReasonNotFound}, nil
	}
	if err != nil {
		return ViewResult{}, err
	}
	if !post.Published {
		return ViewResult{Counted: false, Reason: ViewReasonNotFound}, nil
	}

	if err := s.db.Model(&db.Post{}).
		Where("id = ?", post.ID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
		return ViewResult{}, err
	}

	return ViewResult{Counted: true}, nil
}

// isBotUserAgent 判定 User-Agent 是否来自自动化客户端，缺失时视为机器人。
func isBotUserAgent(userAgent string) bool {
	trimmed := strings.TrimSpace(userAgent)
	if trimmed == "" {
		return true
	}

	lowered := strings.ToLower(trimmed)
	for _, signature := range botSignatures {
		if strings.Contains(lowered, signature) {
			return true
		}
	}
	return false
}

func isPrefetch(header string) bool {
	return strings.EqualFold(strings.TrimSpace(header), "prefetch")
}
