package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

// RecordView 记录一次文章浏览。
// 机器人与预取请求返回 counted=false；文章不存在或未发布返回 404。
func (a *API) RecordView(c *gin.Context) {
	result, err := a.views.Record(
		c.Param("slug"),
		c.GetHeader("User-Agent"),
		c.GetHeader("Purpose"),
		c.GetHeader("Sec-Purpose"),
	)
	if err != nil {
		log.Printf("record view for %s: %v", c.Param("slug"), err)
		respondError(c, http.StatusInternalServerError, "记录失败")
		return
	}

	if !result.Counted && result.Reason == service.ViewReasonNotFound {
		respondError(c, http.StatusNotFound, "文章不存在")
		return
	}

	payload := gin.H{"success": true, "counted": result.Counted}
	if result.Reason != "" {
		payload["reason"] = result.Reason
	}
	c.JSON(http.StatusOK, payload)
}
