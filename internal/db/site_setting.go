package db

import "time"

// SiteSettingID 是站点设置单例记录的固定主键。
const SiteSettingID uint = 1

// SiteSetting 存储站点级配置，整张表只使用 ID 为 SiteSettingID 的一行。
type SiteSetting struct {
	ID              uint `gorm:"primaryKey"`
	SiteName        string
	SiteDescription string
	SiteURL         string
	SocialTwitter   string
	SocialGithub    string
	SocialLinkedin  string
	SEODefaultTitle string
	SEODefaultDesc  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName 指定自定义表名，避免自动复数化导致的歧义。
func (SiteSetting) TableName() string {
	return "site_settings"
}
