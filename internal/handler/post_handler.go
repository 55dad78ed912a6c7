package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
)

// postPayload 是后台创建/更新文章的请求体。
type postPayload struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
	Excerpt     string `json:"excerpt"`
	CoverImage  string `json:"coverImage"`
	CategoryID  *uint  `json:"categoryId"`
	TagIDs      []uint `json:"tagIds"`
	Published   bool   `json:"published"`
	Featured    bool   `json:"featured"`
	ScheduledAt string `json:"scheduledAt"`
}

func (p postPayload) toInput() (service.PostInput, error) {
	input := service.PostInput{
		Title:       p.Title,
		Slug:        p.Slug,
		Content:     p.Content,
		ContentType: p.ContentType,
		Excerpt:     p.Excerpt,
		CoverImage:  p.CoverImage,
		CategoryID:  p.CategoryID,
		TagIDs:      p.TagIDs,
		Published:   p.Published,
		Featured:    p.Featured,
	}

	if raw := strings.TrimSpace(p.ScheduledAt); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return input, err
		}
		input.ScheduledAt = &at
	}

	return input, nil
}

// GetPosts 返回后台文章列表，支持状态、搜索与分页过滤。
func (a *API) GetPosts(c *gin.Context) {
	filter := service.PostFilter{
		Search:  strings.TrimSpace(c.Query("search")),
		Status:  c.Query("status"),
		Page:    parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage: parsePositiveInt(c.DefaultQuery("perPage", "10"), 10),
	}

	result, err := a.posts.List(filter)
	if err != nil {
		log.Printf("list posts: %v", err)
		respondError(c, http.StatusInternalServerError, "获取文章失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":          result.Posts,
		"total":          result.Total,
		"publishedCount": result.PublishedCount,
		"scheduledCount": result.ScheduledCount,
		"draftCount":     result.DraftCount,
		"totalPages":     result.TotalPages,
		"page":           result.Page,
		"perPage":        result.PerPage,
	})
}

// GetPost 返回单篇文章详情。
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章 ID")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		log.Printf("get post %d: %v", id, err)
		respondError(c, http.StatusInternalServerError, "获取文章失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost 创建文章。
func (a *API) CreatePost(c *gin.Context) {
	var payload postPayload
	if !bindJSON(c, &payload, "请求格式有误") {
		return
	}

	input, err := payload.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "排期时间格式有误")
		return
	}

	post, err := a.posts.Create(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostInvalid):
			respondError(c, http.StatusBadRequest, "标题和内容为必填")
		case errors.Is(err, service.ErrSlugTaken):
			respondError(c, http.StatusBadRequest, "此 slug 已存在")
		default:
			log.Printf("create post: %v", err)
			respondError(c, http.StatusInternalServerError, "创建文章失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": post})
}

// UpdatePost 更新文章。
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章 ID")
		return
	}

	var payload postPayload
	if !bindJSON(c, &payload, "请求格式有误") {
		return
	}

	input, err := payload.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "排期时间格式有误")
		return
	}

	post, err := a.posts.Update(id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "文章不存在")
		case errors.Is(err, service.ErrPostInvalid):
			respondError(c, http.StatusBadRequest, "标题和内容为必填")
		case errors.Is(err, service.ErrSlugTaken):
			respondError(c, http.StatusBadRequest, "此 slug 已存在")
		default:
			log.Printf("update post %d: %v", id, err)
			respondError(c, http.StatusInternalServerError, "更新文章失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": post})
}

// DeletePost 删除文章。
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章 ID")
		return
	}

	if err := a.posts.Delete(id); err != nil {
		log.Printf("delete post %d: %v", id, err)
		respondError(c, http.StatusInternalServerError, "删除文章失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TogglePublish 切换文章发布状态。
func (a *API) TogglePublish(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章 ID")
		return
	}

	post, err := a.posts.TogglePublish(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		log.Printf("toggle publish %d: %v", id, err)
		respondError(c, http.StatusInternalServerError, "操作失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "published": post.Published})
}

// SchedulePost 为文章设置定时发布时间。
func (a *API) SchedulePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章 ID")
		return
	}

	var payload struct {
		ScheduledAt string `json:"scheduledAt"`
	}
	if !bindJSON(c, &payload, "请求格式有误") {
		return
	}

	at, err := time.Parse(time.RFC3339, strings.TrimSpace(payload.ScheduledAt))
	if err != nil {
		respondError(c, http.StatusBadRequest, "排期时间格式有误")
		return
	}

	post, err := a.posts.Schedule(id, at)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "文章不存在")
		case errors.Is(err, service.ErrPostPublished):
			respondError(c, http.StatusBadRequest, "文章已发布，无需排期")
		default:
			log.Printf("schedule post %d: %v", id, err)
			respondError(c, http.StatusInternalServerError, "操作失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "scheduledAt": post.ScheduledAt})
}

// CreatePreviewToken 为未发布文章签发预览令牌。
func (a *API) CreatePreviewToken(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章 ID")
		return
	}

	token, err := a.posts.EnsurePreviewToken(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "文章不存在")
		case errors.Is(err, service.ErrPostPublished):
			respondError(c, http.StatusBadRequest, "文章已发布，无需预览令牌")
		default:
			log.Printf("preview token %d: %v", id, err)
			respondError(c, http.StatusInternalServerError, "操作失败")
		}
		return
	}

	var post db.Post
	previewURL := ""
	if err := a.db.Select("slug").First(&post, id).Error; err == nil {
		previewURL = a.cfg.SiteBaseURL + "/posts/" + post.Slug + "?token=" + token
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "previewUrl": previewURL})
}
