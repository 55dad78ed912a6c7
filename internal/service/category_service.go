package service

import (
	"errors"
	"strings"

	"github.com/inkwell/internal/content"
	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryNameEmpty = errors.New("category name is required")
	ErrCategoryNameTaken = errors.New("category name or slug already exists")
)

// CategoryService 负责分类的增删改查。
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService 创建 CategoryService。
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// CategoryWithCount 在分类上附带文章数量，供列表页展示。
type CategoryWithCount struct {
	db.Category
	PostCount int64
}

// List 返回全部分类及各自的已发布文章数。
func (s *CategoryService) List() ([]CategoryWithCount, error) {
	var categories []db.Category
	if err := s.db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}

	result := make([]CategoryWithCount, 0, len(categories))
	for i := range categories {
		var count int64
		if err := s.db.Model(&db.Post{}).
			Where("category_id = ? AND published = ?", categories[i].ID, true).
			Count(&count).Error; err != nil {
			return nil, err
		}
		result = append(result, CategoryWithCount{Category: categories[i], PostCount: count})
	}

	return result, nil
}

// GetBySlug 按 slug 查找分类。
func (s *CategoryService) GetBySlug(slug string) (*db.Category, error) {
	var category db.Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Create 创建分类，名称与 slug 必须唯一。
func (s *CategoryService) Create(name, description string) (*db.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrCategoryNameEmpty
	}

	slug := content.Slugify(trimmed)
	taken, err := s.nameOrSlugTaken(trimmed, slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCategoryNameTaken
	}

	category := db.Category{
		Name:        trimmed,
		Slug:        slug,
		Description: strings.TrimSpace(description),
	}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Update 重命名分类并同步 slug。
func (s *CategoryService) Update(id uint, name, description string) (*db.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrCategoryNameEmpty
	}

	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	slug := content.Slugify(trimmed)
	taken, err := s.nameOrSlugTaken(trimmed, slug, category.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCategoryNameTaken
	}

	category.Name = trimmed
	category.Slug = slug
	category.Description = strings.TrimSpace(description)
	if err := s.db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete 删除分类，引用它的文章退回到无分类状态。
func (s *CategoryService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Post{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&db.Category{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
}

func (s *CategoryService) nameOrSlugTaken(name, slug string, excludeID uint) (bool, error) {
	var count int64
	query := s.db.Model(&db.Category{}).Where("name = ? OR slug = ?", name, slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
