package db

import "gorm.io/gorm"

// Comment 定义了评论模型，默认处于待审核状态。
// ParentID 仅支持一级回复，不做多层嵌套。
type Comment struct {
	gorm.Model
	Content  string `gorm:"type:text;not null"`
	Author   string `gorm:"size:50;not null"`
	Email    string
	Website  string
	Approved bool `gorm:"default:false;index"`
	PostID   uint `gorm:"index;not null"`
	ParentID *uint
	Replies  []Comment `gorm:"foreignKey:ParentID"`
}
