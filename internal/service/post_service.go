package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell/internal/content"
	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrPostInvalid      = errors.New("post is missing required fields")
	ErrSlugTaken        = errors.New("post slug already exists")
	ErrPostPublished    = errors.New("post is already published")
	ErrScheduleRequired = errors.New("schedule time is required")
)

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	Search       string
	Status       string
	CategorySlug string
	TagSlug      string
	Featured     *bool
	Page         int
	PerPage      int
}

// PostListResult aggregates paginated list data and counters.
type PostListResult struct {
	Posts          []db.Post
	Total          int64
	PublishedCount int64
	ScheduledCount int64
	DraftCount     int64
	TotalPages     int
	Page           int
	PerPage        int
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title       string
	Slug        string
	Content     string
	ContentType string
	Excerpt     string
	CoverImage  string
	CategoryID  *uint
	TagIDs      []uint
	Published   bool
	Featured    bool
	ScheduledAt *time.Time
}

// PublishSweepResult 汇总一次定时发布扫描的结果。
type PublishSweepResult struct {
	Count        int
	PublishedIDs []uint
}

// Create persists a post and associates tags in a transaction.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrPostInvalid
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = content.Slugify(title)
	}
	if slug == "" {
		return nil, ErrPostInvalid
	}

	taken, err := s.slugTaken(slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	contentType := strings.TrimSpace(input.ContentType)
	if contentType != db.ContentTypeHTML {
		contentType = db.ContentTypeMarkdown
	}

	post := db.Post{
		Title:       title,
		Slug:        slug,
		Content:     input.Content,
		ContentType: contentType,
		Excerpt:     strings.TrimSpace(input.Excerpt),
		CoverImage:  strings.TrimSpace(input.CoverImage),
		CategoryID:  input.CategoryID,
		Published:   input.Published,
		Featured:    input.Featured,
	}

	if input.Published {
		now := time.Now()
		post.PublishedAt = &now
	} else if input.ScheduledAt != nil {
		at := *input.ScheduledAt
		post.ScheduledAt = &at
	}

	return s.saveWithTags(&post, input.TagIDs)
}

// Update applies updates to an existing post, preserving the publish invariant.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrPostInvalid
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = content.Slugify(title)
	}
	taken, err := s.slugTaken(slug, existing.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	contentType := strings.TrimSpace(input.ContentType)
	if contentType != db.ContentTypeHTML {
		contentType = db.ContentTypeMarkdown
	}

	existing.Title = title
	existing.Slug = slug
	existing.Content = input.Content
	existing.ContentType = contentType
	existing.Excerpt = strings.TrimSpace(input.Excerpt)
	existing.CoverImage = strings.TrimSpace(input.CoverImage)
	existing.CategoryID = input.CategoryID
	existing.Featured = input.Featured

	if input.Published && !existing.Published {
		now := time.Now()
		existing.Published = true
		existing.PublishedAt = &now
	}
	if !input.Published && existing.Published {
		existing.Published = false
		existing.PublishedAt = nil
	}

	if existing.Published {
		// 已发布的文章不保留排期与预览令牌
		existing.ScheduledAt = nil
		existing.PreviewToken = nil
	} else if input.ScheduledAt != nil {
		at := *input.ScheduledAt
		existing.ScheduledAt = &at
	} else {
		existing.ScheduledAt = nil
	}

	return s.saveWithTags(&existing, input.TagIDs)
}

// Delete removes a post and its comments.
func (s *PostService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Post{}, id).Error
	})
}

// Get fetches a post by id with associations preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Category").Preload("Tags").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug fetches a post by slug regardless of publish state.
func (s *PostService) GetBySlug(slug string) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Category").Preload("Tags").
		Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// VisibleBySlug 返回读者可见的文章：已发布，或持有匹配预览令牌的未发布文章。
func (s *PostService) VisibleBySlug(slug, previewToken string) (*db.Post, error) {
	post, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	if post.Published {
		return post, nil
	}

	token := strings.TrimSpace(previewToken)
	if token != "" && post.PreviewToken != nil && *post.PreviewToken == token {
		return post, nil
	}

	return nil, ErrPostNotFound
}

// TogglePublish 切换发布状态。发布时记录当前时间并清除排期与预览令牌，
// 撤回时清空发布时间（发布时间表示状态而非历史）。
func (s *PostService) TogglePublish(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if post.Published {
		post.Published = false
		post.PublishedAt = nil
	} else {
		now := time.Now()
		post.Published = true
		post.PublishedAt = &now
		post.ScheduledAt = nil
		post.PreviewToken = nil
	}

	if err := s.db.Select("published", "published_at", "scheduled_at", "preview_token").
		Save(&post).Error; err != nil {
		return nil, err
	}

	return &post, nil
}

// Schedule 为未发布文章设置定时发布时间。
func (s *PostService) Schedule(id uint, at time.Time) (*db.Post, error) {
	if at.IsZero() {
		return nil, ErrScheduleRequired
	}

	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if post.Published {
		return nil, ErrPostPublished
	}

	post.ScheduledAt = &at
	if err := s.db.Select("scheduled_at").Save(&post).Error; err != nil {
		return nil, err
	}

	return &post, nil
}

// EnsurePreviewToken 为未发布文章返回预览令牌，不存在时生成一个。
func (s *PostService) EnsurePreviewToken(id uint) (string, error) {
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrPostNotFound
		}
		return "", err
	}

	if post.Published {
		return "", ErrPostPublished
	}

	if post.PreviewToken != nil && *post.PreviewToken != "" {
		return *post.PreviewToken, nil
	}

	token := uuid.NewString()
	if err := s.db.Model(&post).Update("preview_token", token).Error; err != nil {
		return "", err
	}

	return token, nil
}

// PublishDue 发布所有到期的排期文章。
// 每篇文章通过带 published=false 条件的单条 UPDATE 认领，
// 因此并发执行的两次扫描不会重复上报同一篇文章。
func (s *PostService) PublishDue(now time.Time) (PublishSweepResult, error) {
	result := PublishSweepResult{PublishedIDs: []uint{}}

	var candidates []db.Post
	if err := s.db.
		Where("published = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", false, now).
		Find(&candidates).Error; err != nil {
		return result, err
	}

	for i := range candidates {
		candidate := candidates[i]
		claim := s.db.Model(&db.Post{}).
			Where("id = ? AND published = ?", candidate.ID, false).
			Updates(map[string]interface{}{
				"published":     true,
				"published_at":  candidate.ScheduledAt, // 保留原定发布时间
				"scheduled_at":  nil,
				"preview_token": nil,
			})
		if claim.Error != nil {
			return result, claim.Error
		}
		if claim.RowsAffected == 1 {
			result.PublishedIDs = append(result.PublishedIDs, candidate.ID)
		}
	}

	result.Count = len(result.PublishedIDs)
	return result, nil
}

// List provides paginated posts with aggregated counters based on filters.
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	result := &PostListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}

	countQuery := s.applyFilters(s.db.Model(&db.Post{}), filter)
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.Post{}).Where("published = ?", true).
		Count(&result.PublishedCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Post{}).
		Where("published = ? AND scheduled_at IS NOT NULL", false).
		Count(&result.ScheduledCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Post{}).
		Where("published = ? AND scheduled_at IS NULL", false).
		Count(&result.DraftCount).Error; err != nil {
		return nil, err
	}

	result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))

	order := "posts.created_at desc"
	if filter.Status == "published" {
		order = "posts.published_at desc"
	}

	query := s.applyFilters(s.db.Model(&db.Post{}), filter).
		Preload("Category").Preload("Tags").
		Order(order).
		Offset((result.Page - 1) * result.PerPage).
		Limit(result.PerPage)

	if err := query.Find(&result.Posts).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// Recent returns the newest published posts for feeds and sitemaps.
func (s *PostService) Recent(limit int) ([]db.Post, error) {
	if limit <= 0 {
		limit = 20
	}

	var posts []db.Post
	if err := s.db.Preload("Category").
		Where("published = ?", true).
		Order("published_at desc").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// AllPublished 返回全部已发布文章，按发布时间倒序，供站点地图使用。
func (s *PostService) AllPublished() ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Where("published = ?", true).
		Order("published_at desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// TopByViews 返回浏览量最高的已发布文章，供后台统计使用。
func (s *PostService) TopByViews(limit int) ([]db.Post, error) {
	if limit <= 0 {
		limit = 10
	}

	var posts []db.Post
	if err := s.db.Preload("Category").
		Where("published = ?", true).
		Order("view_count desc").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// TotalViews 汇总全部已发布文章的浏览量。
func (s *PostService) TotalViews() (uint64, error) {
	var total uint64
	err := s.db.Model(&db.Post{}).
		Where("published = ?", true).
		Select("COALESCE(SUM(view_count), 0)").
		Scan(&total).Error
	return total, err
}

// Related 返回与文章同分类或共享标签的已发布文章。
func (s *PostService) Related(post *db.Post, limit int) ([]db.Post, error) {
	if limit <= 0 {
		limit = 3
	}

	query := s.db.Model(&db.Post{}).Distinct("posts.*").
		Where("posts.published = ? AND posts.id <> ?", true, post.ID)

	tagIDs := make([]uint, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tagIDs = append(tagIDs, tag.ID)
	}

	switch {
	case post.CategoryID != nil && len(tagIDs) > 0:
		query = query.
			Joins("LEFT JOIN post_tags ON post_tags.post_id = posts.id").
			Where("posts.category_id = ? OR post_tags.tag_id IN ?", *post.CategoryID, tagIDs)
	case post.CategoryID != nil:
		query = query.Where("posts.category_id = ?", *post.CategoryID)
	case len(tagIDs) > 0:
		query = query.
			Joins("LEFT JOIN post_tags ON post_tags.post_id = posts.id").
			Where("post_tags.tag_id IN ?", tagIDs)
	default:
		return nil, nil
	}

	var posts []db.Post
	if err := query.Order("posts.published_at desc").Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// DisplayExcerpt 返回文章的展示摘要：优先使用手工摘要，否则从正文派生。
func DisplayExcerpt(post *db.Post) string {
	if excerpt := strings.TrimSpace(post.Excerpt); excerpt != "" {
		return excerpt
	}
	return content.ExtractExcerpt(post.Content, content.DefaultExcerptLength)
}

func (s *PostService) slugTaken(slug string, excludeID uint) (bool, error) {
	var count int64
	query := s.db.Model(&db.Post{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *PostService) applyFilters(query *gorm.DB, filter PostFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("posts.title LIKE ? OR posts.content LIKE ?", like, like)
	}

	switch filter.Status {
	case "published":
		query = query.Where("posts.published = ?", true)
	case "scheduled":
		query = query.Where("posts.published = ? AND posts.scheduled_at IS NOT NULL", false)
	case "draft":
		query = query.Where("posts.published = ? AND posts.scheduled_at IS NULL", false)
	}

	if filter.Featured != nil {
		query = query.Where("posts.featured = ?", *filter.Featured)
	}

	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		query = query.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("categories.slug = ?", slug)
	}

	if slug := strings.TrimSpace(filter.TagSlug); slug != "" {
		query = query.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", slug)
	}

	return query
}

func (s *PostService) saveWithTags(post *db.Post, tagIDs []uint) (*db.Post, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(post).Error; err != nil {
			return err
		}

		var tags []db.Tag
		if len(tagIDs) > 0 {
			if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
				return err
			}
		}

		return tx.Model(post).Association("Tags").Replace(tags)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(post.ID)
}
