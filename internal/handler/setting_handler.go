package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

type settingPayload struct {
	SiteName        string `json:"siteName"`
	SiteDescription string `json:"siteDescription"`
	SiteURL         string `json:"siteUrl"`
	SocialTwitter   string `json:"socialTwitter"`
	SocialGithub    string `json:"socialGithub"`
	SocialLinkedin  string `json:"socialLinkedin"`
	SEODefaultTitle string `json:"seoDefaultTitle"`
	SEODefaultDesc  string `json:"seoDefaultDesc"`
}

// GetSettings 返回站点设置，首次访问时返回默认值。
func (a *API) GetSettings(c *gin.Context) {
	settings, err := a.settings.Get()
	if err != nil {
		log.Printf("get settings: %v", err)
		respondError(c, http.StatusInternalServerError, "获取设置失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings 保存站点设置。
func (a *API) UpdateSettings(c *gin.Context) {
	var payload settingPayload
	if !bindJSON(c, &payload, "请求格式有误") {
		return
	}

	settings, err := a.settings.Update(service.SiteSettingInput{
		SiteName:        payload.SiteName,
		SiteDescription: payload.SiteDescription,
		SiteURL:         payload.SiteURL,
		SocialTwitter:   payload.SocialTwitter,
		SocialGithub:    payload.SocialGithub,
		SocialLinkedin:  payload.SocialLinkedin,
		SEODefaultTitle: payload.SEODefaultTitle,
		SEODefaultDesc:  payload.SEODefaultDesc,
	})
	if err != nil {
		log.Printf("update settings: %v", err)
		respondError(c, http.StatusInternalServerError, "更新设置失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}
