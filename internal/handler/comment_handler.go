package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

type commentPayload struct {
	PostID   uint   `json:"postId"`
	ParentID *uint  `json:"parentId"`
	Author   string `json:"author"`
	Email    string `json:"email"`
	Website  string `json:"website"`
	Content  string `json:"content"`
}

// GetComments 返回文章下已通过审核的评论线。
func (a *API) GetComments(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Query("postId"), 10, 32)
	if err != nil || postID == 0 {
		respondError(c, http.StatusBadRequest, "请提供文章 ID")
		return
	}

	comments, err := a.comments.ApprovedForPost(uint(postID))
	if err != nil {
		log.Printf("list comments for post %d: %v", postID, err)
		respondError(c, http.StatusInternalServerError, "获取评论失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// SubmitComment 接收读者评论，进入待审核队列。
func (a *API) SubmitComment(c *gin.Context) {
	var payload commentPayload
	if !bindJSON(c, &payload, "请求格式有误") {
		return
	}

	comment, err := a.comments.Submit(service.CommentInput{
		PostID:   payload.PostID,
		ParentID: payload.ParentID,
		Author:   payload.Author,
		Email:    payload.Email,
		Website:  payload.Website,
		Content:  payload.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentInvalid):
			respondError(c, http.StatusBadRequest, "请填写必要字段")
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "文章不存在")
		case errors.Is(err, service.ErrCommentSpam):
			respondError(c, http.StatusBadRequest, "评论包含不当内容")
		case errors.Is(err, service.ErrParentCommentNotFound):
			respondError(c, http.StatusNotFound, "回复的评论不存在")
		default:
			log.Printf("submit comment: %v", err)
			respondError(c, http.StatusInternalServerError, "提交失败，请稍后再试")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "评论已提交，等待审核",
		"comment": gin.H{
			"id":        comment.ID,
			"author":    comment.Author,
			"createdAt": comment.CreatedAt,
		},
	})
}

// ListComments 供后台按状态筛选评论。
func (a *API) ListComments(c *gin.Context) {
	comments, err := a.comments.List(c.Query("status"))
	if err != nil {
		log.Printf("list comments: %v", err)
		respondError(c, http.StatusInternalServerError, "获取评论失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// ModerateComment 审核评论，action 取 approve 或 reject。
func (a *API) ModerateComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论 ID")
		return
	}

	var payload struct {
		Action string `json:"action"`
	}
	if !bindJSON(c, &payload, "请求格式有误") {
		return
	}

	switch payload.Action {
	case "approve":
		err = a.comments.Approve(id)
	case "reject":
		err = a.comments.Reject(id)
	default:
		respondError(c, http.StatusBadRequest, "无效的操作")
		return
	}

	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			respondError(c, http.StatusNotFound, "评论不存在")
			return
		}
		log.Printf("moderate comment %d: %v", id, err)
		respondError(c, http.StatusInternalServerError, "操作失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteComment 删除评论及其回复。
func (a *API) DeleteComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论 ID")
		return
	}

	if err := a.comments.Delete(id); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			respondError(c, http.StatusNotFound, "评论不存在")
			return
		}
		log.Printf("delete comment %d: %v", id, err)
		respondError(c, http.StatusInternalServerError, "删除失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
