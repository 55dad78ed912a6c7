package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PublishScheduled 由外部定时任务触发，发布所有到期的排期文章。
// 配置了 CRON_SECRET 时要求携带匹配的 Bearer 凭证，校验失败前不触碰存储。
func (a *API) PublishScheduled(c *gin.Context) {
	if a.cfg.CronSecret != "" {
		if c.GetHeader("Authorization") != "Bearer "+a.cfg.CronSecret {
			respondError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
	}

	result, err := a.posts.PublishDue(time.Now())
	if err != nil {
		log.Printf("publish scheduled sweep: %v", err)
		respondError(c, http.StatusInternalServerError, "发布排期文章失败")
		return
	}

	message := "No posts to publish"
	if result.Count > 0 {
		message = fmt.Sprintf("Published %d posts", result.Count)
		log.Printf("published %d scheduled posts: %v", result.Count, result.PublishedIDs)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      message,
		"count":        result.Count,
		"publishedIds": result.PublishedIDs,
	})
}
