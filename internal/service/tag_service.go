package service

import (
	"errors"
	"strings"

	"github.com/inkwell/internal/content"
	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var (
	ErrTagNotFound  = errors.New("tag not found")
	ErrTagNameEmpty = errors.New("tag name is required")
	ErrTagNameTaken = errors.New("tag name or slug already exists")
	ErrTagInUse     = errors.New("tag is referenced by posts")
)

// TagService 负责标签的增删改查。
type TagService struct {
	db *gorm.DB
}

// NewTagService 创建 TagService。
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// TagWithCount 在标签上附带文章数量。
type TagWithCount struct {
	db.Tag
	PostCount int64
}

// List 返回全部标签及各自关联的文章数。
func (s *TagService) List() ([]TagWithCount, error) {
	var tags []db.Tag
	if err := s.db.Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}

	result := make([]TagWithCount, 0, len(tags))
	for i := range tags {
		count := s.db.Model(&tags[i]).Association("Posts").Count()
		result = append(result, TagWithCount{Tag: tags[i], PostCount: count})
	}

	return result, nil
}

// GetBySlug 按 slug 查找标签。
func (s *TagService) GetBySlug(slug string) (*db.Tag, error) {
	var tag db.Tag
	if err := s.db.Where("slug = ?", slug).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// Create 创建标签，名称与 slug 必须唯一。
func (s *TagService) Create(name string) (*db.Tag, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrTagNameEmpty
	}

	slug := content.Slugify(trimmed)
	taken, err := s.nameOrSlugTaken(trimmed, slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrTagNameTaken
	}

	tag := db.Tag{Name: trimmed, Slug: slug}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Update 重命名标签并同步 slug。
func (s *TagService) Update(id uint, name string) (*db.Tag, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrTagNameEmpty
	}

	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}

	slug := content.Slugify(trimmed)
	taken, err := s.nameOrSlugTaken(trimmed, slug, tag.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrTagNameTaken
	}

	tag.Name = trimmed
	tag.Slug = slug
	if err := s.db.Save(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Delete 删除未被文章引用的标签。
func (s *TagService) Delete(id uint) error {
	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return err
	}

	if count := s.db.Model(&tag).Association("Posts").Count(); count > 0 {
		return ErrTagInUse
	}

	return s.db.Delete(&tag).Error
}

func (s *TagService) nameOrSlugTaken(name, slug string, excludeID uint) (bool, error) {
	var count int64
	query := s.db.Model(&db.Tag{}).Where("name = ? OR slug = ?", name, slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
