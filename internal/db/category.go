package db

import "gorm.io/gorm"

// Category 定义了分类模型，一个分类下可以有多篇文章。
type Category struct {
	gorm.Model
	Name        string `gorm:"unique;not null"`
	Slug        string `gorm:"unique;not null"`
	Description string
	Posts       []Post
}
