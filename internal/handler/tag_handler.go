package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

type tagPayload struct {
	Name string `json:"name"`
}

// GetTags 返回全部标签及文章数。
func (a *API) GetTags(c *gin.Context) {
	tags, err := a.tags.List()
	if err != nil {
		log.Printf("list tags: %v", err)
		respondError(c, http.StatusInternalServerError, "获取标签失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// CreateTag 创建标签。
func (a *API) CreateTag(c *gin.Context) {
	var payload tagPayload
	if !bindJSON(c, &payload, "请求格式有误") {
		return
	}

	tag, err := a.tags.Create(payload.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagNameEmpty):
			respondError(c, http.StatusBadRequest, "标签名称为必填")
		case errors.Is(err, service.ErrTagNameTaken):
			respondError(c, http.StatusBadRequest, "标签名称已存在")
		default:
			log.Printf("create tag: %v", err)
			respondError(c, http.StatusInternalServerError, "创建标签失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "tag": tag})
}

// UpdateTag 更新标签。
func (a *API) UpdateTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的标签 ID")
		return
	}

	var payload tagPayload
	if !bindJSON(c, &payload, "请求格式有误") {
		return
	}

	tag, err := a.tags.Update(id, payload.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagNotFound):
			respondError(c, http.StatusNotFound, "标签不存在")
		case errors.Is(err, service.ErrTagNameEmpty):
			respondError(c, http.StatusBadRequest, "标签名称为必填")
		case errors.Is(err, service.ErrTagNameTaken):
			respondError(c, http.StatusBadRequest, "标签名称已存在")
		default:
			log.Printf("update tag %d: %v", id, err)
			respondError(c, http.StatusInternalServerError, "更新标签失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "tag": tag})
}

// DeleteTag 删除未被引用的标签。
func (a *API) DeleteTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的标签 ID")
		return
	}

	if err := a.tags.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrTagNotFound):
			respondError(c, http.StatusNotFound, "标签不存在")
		case errors.Is(err, service.ErrTagInUse):
			respondError(c, http.StatusBadRequest, "标签仍被文章使用，无法删除")
		default:
			log.Printf("delete tag %d: %v", id, err)
			respondError(c, http.StatusInternalServerError, "删除标签失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
