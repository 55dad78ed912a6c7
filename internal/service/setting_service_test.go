package service

import (
	"testing"

	"github.com/inkwell/internal/db"
)

func TestSettingService_GetCreatesSingletonWithDefaults(t *testing.T) {
	gdb := setupServiceTestDB(t, "setting-defaults")
	svc := NewSettingService(gdb)

	setting, err := svc.Get()
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if setting.ID != db.SiteSettingID {
		t.Fatalf("expected singleton id %d, got %d", db.SiteSettingID, setting.ID)
	}
	if setting.SiteName != "Inkwell" {
		t.Fatalf("expected default site name, got %q", setting.SiteName)
	}

	var count int64
	if err := gdb.Model(&db.SiteSetting{}).Count(&count).Error; err != nil {
		t.Fatalf("count settings: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single settings row, got %d", count)
	}

	// 再次读取不应创建新行
	if _, err := svc.Get(); err != nil {
		t.Fatalf("get settings again: %v", err)
	}
	if err := gdb.Model(&db.SiteSetting{}).Count(&count).Error; err != nil {
		t.Fatalf("count settings: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected settings row reused, got %d", count)
	}
}

func TestSettingService_UpdatePersistsFields(t *testing.T) {
	gdb := setupServiceTestDB(t, "setting-update")
	svc := NewSettingService(gdb)

	updated, err := svc.Update(SiteSettingInput{
		SiteName:        "我的博客",
		SiteDescription: "记录与分享",
		SiteURL:         "https://blog.example.com/",
		SocialGithub:    "https://github.com/example",
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if updated.SiteURL != "https://blog.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", updated.SiteURL)
	}

	reloaded, err := svc.Get()
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if reloaded.SiteName != "我的博客" || reloaded.SiteDescription != "记录与分享" {
		t.Fatalf("expected update persisted, got %+v", reloaded)
	}
	if reloaded.SocialGithub != "https://github.com/example" {
		t.Fatalf("expected social link persisted, got %q", reloaded.SocialGithub)
	}
}

func TestSettingService_UpdateEmptyNameFallsBack(t *testing.T) {
	gdb := setupServiceTestDB(t, "setting-fallback")
	svc := NewSettingService(gdb)

	updated, err := svc.Update(SiteSettingInput{SiteName: "   "})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if updated.SiteName != "Inkwell" {
		t.Fatalf("expected default name fallback, got %q", updated.SiteName)
	}
}
