package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	cfg        config.AppConfig
	posts      *service.PostService
	categories *service.CategoryService
	tags       *service.TagService
	comments   *service.CommentService
	views      *service.ViewService
	settings   *service.SettingService
	rewriter   service.ContentRewriter
	metadata   service.MetadataGenerator
	covers     service.CoverImageGenerator
}

const siteSettingsContextKey = "__site_settings"

type siteViewModel struct {
	Name        string
	Description string
	URL         string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig) *API {
	categoryService := service.NewCategoryService(gdb)
	tagService := service.NewTagService(gdb)

	return &API{
		db:         gdb,
		cfg:        cfg,
		posts:      service.NewPostService(gdb),
		categories: categoryService,
		tags:       tagService,
		comments:   service.NewCommentService(gdb),
		views:      service.NewViewService(gdb),
		settings:   service.NewSettingService(gdb),
		rewriter:   service.NewAIRewriteService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL),
		metadata:   service.NewAIMetadataService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, categoryService, tagService),
		covers:     service.NewAIImageService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL),
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

// SetRewriter 替换全文改写实现，主要用于测试。
func (a *API) SetRewriter(rewriter service.ContentRewriter) {
	a.rewriter = rewriter
}

// SetMetadataGenerator 替换元数据生成实现，主要用于测试。
func (a *API) SetMetadataGenerator(generator service.MetadataGenerator) {
	a.metadata = generator
}

// SetCoverGenerator 替换封面生成实现，主要用于测试。
func (a *API) SetCoverGenerator(generator service.CoverImageGenerator) {
	a.covers = generator
}

func (a *API) siteSettings(c *gin.Context) siteViewModel {
	if cached, exists := c.Get(siteSettingsContextKey); exists {
		if view, ok := cached.(siteViewModel); ok {
			return view
		}
	}

	settings, err := a.settings.Get()
	if err != nil {
		c.Error(err)
	}

	view := siteViewModel{
		Name:        strings.TrimSpace(settings.SiteName),
		Description: strings.TrimSpace(settings.SiteDescription),
		URL:         strings.TrimSpace(settings.SiteURL),
	}
	if view.Name == "" {
		view.Name = "Inkwell"
	}
	if view.URL == "" {
		view.URL = a.cfg.SiteBaseURL
	}

	c.Set(siteSettingsContextKey, view)
	return view
}

// renderHTML 在向模板渲染时自动附加站点设置信息。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	view := a.siteSettings(c)

	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["site"]; !exists {
		payload["site"] = gin.H{
			"name":        view.Name,
			"description": view.Description,
			"url":         view.URL,
		}
	}
	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = view.Name
	}

	c.HTML(status, template, payload)
}
