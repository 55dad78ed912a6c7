package service

import (
	"fmt"
	"strings"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// 站点设置缺省值。
const (
	defaultSiteName        = "Inkwell"
	defaultSiteDescription = "分享技术与生活"
)

// SettingService 提供站点设置单例的读取与更新能力。
type SettingService struct {
	db *gorm.DB
}

// NewSettingService 构造 SettingService。
func NewSettingService(gdb *gorm.DB) *SettingService {
	return &SettingService{db: gdb}
}

// SiteSettingInput 用于更新站点设置。
type SiteSettingInput struct {
	SiteName        string
	SiteDescription string
	SiteURL         string
	SocialTwitter   string
	SocialGithub    string
	SocialLinkedin  string
	SEODefaultTitle string
	SEODefaultDesc  string
}

// Get 读取站点设置，首次访问时创建带默认值的单例记录。
func (s *SettingService) Get() (db.SiteSetting, error) {
	setting := db.SiteSetting{
		ID:              db.SiteSettingID,
		SiteName:        defaultSiteName,
		SiteDescription: defaultSiteDescription,
	}

	if err := s.db.Where("id = ?", db.SiteSettingID).
		FirstOrCreate(&setting).Error; err != nil {
		return setting, fmt.Errorf("load site settings: %w", err)
	}

	if strings.TrimSpace(setting.SiteName) == "" {
		setting.SiteName = defaultSiteName
	}

	return setting, nil
}

// Update 保存站点设置，未填写站点名称时回退默认值。
func (s *SettingService) Update(input SiteSettingInput) (db.SiteSetting, error) {
	setting, err := s.Get()
	if err != nil {
		return setting, err
	}

	setting.SiteName = strings.TrimSpace(input.SiteName)
	if setting.SiteName == "" {
		setting.SiteName = defaultSiteName
	}
	setting.SiteDescription = strings.TrimSpace(input.SiteDescription)
	setting.SiteURL = strings.TrimRight(strings.TrimSpace(input.SiteURL), "/")
	setting.SocialTwitter = strings.TrimSpace(input.SocialTwitter)
	setting.SocialGithub = strings.TrimSpace(input.SocialGithub)
	setting.SocialLinkedin = strings.TrimSpace(input.SocialLinkedin)
	setting.SEODefaultTitle = strings.TrimSpace(input.SEODefaultTitle)
	setting.SEODefaultDesc = strings.TrimSpace(input.SEODefaultDesc)

	if err := s.db.Save(&setting).Error; err != nil {
		return setting, fmt.Errorf("update site settings: %w", err)
	}

	return setting, nil
}
