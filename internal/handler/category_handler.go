package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

type categoryPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetCategories 返回全部分类及文章数。
func (a *API) GetCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		log.Printf("list categories: %v", err)
		respondError(c, http.StatusInternalServerError, "获取分类失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory 创建分类。
func (a *API) CreateCategory(c *gin.Context) {
	var payload categoryPayload
	if !bindJSON(c, &payload, "请求格式有误") {
		return
	}

	category, err := a.categories.Create(payload.Name, payload.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNameEmpty):
			respondError(c, http.StatusBadRequest, "分类名称为必填")
		case errors.Is(err, service.ErrCategoryNameTaken):
			respondError(c, http.StatusBadRequest, "分类名称已存在")
		default:
			log.Printf("create category: %v", err)
			respondError(c, http.StatusInternalServerError, "创建分类失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "category": category})
}

// UpdateCategory 更新分类。
func (a *API) UpdateCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的分类 ID")
		return
	}

	var payload categoryPayload
	if !bindJSON(c, &payload, "请求格式有误") {
		return
	}

	category, err := a.categories.Update(id, payload.Name, payload.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, http.StatusNotFound, "分类不存在")
		case errors.Is(err, service.ErrCategoryNameEmpty):
			respondError(c, http.StatusBadRequest, "分类名称为必填")
		case errors.Is(err, service.ErrCategoryNameTaken):
			respondError(c, http.StatusBadRequest, "分类名称已存在")
		default:
			log.Printf("update category %d: %v", id, err)
			respondError(c, http.StatusInternalServerError, "更新分类失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "category": category})
}

// DeleteCategory 删除分类，关联文章退回到无分类。
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的分类 ID")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, http.StatusNotFound, "分类不存在")
			return
		}
		log.Printf("delete category %d: %v", id, err)
		respondError(c, http.StatusInternalServerError, "删除分类失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
