package service

import (
	"errors"
	"strings"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound       = errors.New("comment not found")
	ErrCommentInvalid        = errors.New("comment is missing required fields")
	ErrCommentSpam           = errors.New("comment looks like spam")
	ErrParentCommentNotFound = errors.New("parent comment not found")
)

// spamKeywords 是简易的垃圾评论关键词黑名单，命中即拒绝。
var spamKeywords = []string{
	"viagra",
	"casino",
	"lottery",
	"winner",
	"click here",
	"free money",
}

// CommentService 负责评论的提交与审核。
type CommentService struct {
	db *gorm.DB
}

// NewCommentService 创建 CommentService。
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// CommentInput 描述读者提交评论时接受的字段。
type CommentInput struct {
	PostID   uint
	ParentID *uint
	Author   string
	Email    string
	Website  string
	Content  string
}

// Submit 创建一条待审核评论。回复必须指向已存在的评论，只支持一级嵌套。
func (s *CommentService) Submit(input CommentInput) (*db.Comment, error) {
	author := strings.TrimSpace(input.Author)
	text := strings.TrimSpace(input.Content)
	if input.PostID == 0 || author == "" || text == "" {
		return nil, ErrCommentInvalid
	}

	var post db.Post
	if err := s.db.Select("id").First(&post, input.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if isSpam(text) || isSpam(author) {
		return nil, ErrCommentSpam
	}

	if input.ParentID != nil {
		var parent db.Comment
		if err := s.db.Select("id").First(&parent, *input.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentCommentNotFound
			}
			return nil, err
		}
	}

	comment := db.Comment{
		PostID:   input.PostID,
		ParentID: input.ParentID,
		Author:   author,
		Email:    strings.TrimSpace(input.Email),
		Website:  strings.TrimSpace(input.Website),
		Content:  text,
		Approved: false, // 待管理员审核
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	return &comment, nil
}

// ApprovedForPost 返回文章下已通过审核的评论线：
// 顶层按时间倒序，回复按时间正序嵌套其下。
func (s *CommentService) ApprovedForPost(postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	err := s.db.
		Where("post_id = ? AND approved = ? AND parent_id IS NULL", postID, true).
		Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("approved = ?", true).Order("created_at asc")
		}).
		Order("created_at desc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// List 供后台按审核状态筛选评论，status 取 pending/approved，留空返回全部。
func (s *CommentService) List(status string) ([]db.Comment, error) {
	query := s.db.Model(&db.Comment{})
	switch status {
	case "pending":
		query = query.Where("approved = ?", false)
	case "approved":
		query = query.Where("approved = ?", true)
	}

	var comments []db.Comment
	if err := query.Order("created_at desc").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// PendingCount 返回待审核评论数量，用于后台面板。
func (s *CommentService) PendingCount() (int64, error) {
	var count int64
	err := s.db.Model(&db.Comment{}).Where("approved = ?", false).Count(&count).Error
	return count, err
}

// ApprovedCount 返回已通过评论的数量。
func (s *CommentService) ApprovedCount() (int64, error) {
	var count int64
	err := s.db.Model(&db.Comment{}).Where("approved = ?", true).Count(&count).Error
	return count, err
}

// Approve 将评论标记为已通过。
func (s *CommentService) Approve(id uint) error {
	return s.setApproved(id, true)
}

// Reject 将评论退回待审核状态。
func (s *CommentService) Reject(id uint) error {
	return s.setApproved(id, false)
}

// Delete 删除评论及其回复。
func (s *CommentService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&db.Comment{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCommentNotFound
		}
		return nil
	})
}

func (s *CommentService) setApproved(id uint, approved bool) error {
	result := s.db.Model(&db.Comment{}).Where("id = ?", id).Update("approved", approved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func isSpam(text string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range spamKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
