package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
)

func TestShowAboutRendersSocialLinks(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	setting := db.SiteSetting{
		ID:              db.SiteSettingID,
		SiteName:        "墨水瓶",
		SiteDescription: "分享技术与生活",
		SocialGithub:    "https://github.com/inkwell",
		SocialTwitter:   "https://twitter.com/inkwell",
	}
	if err := db.DB.Create(&setting).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	engine.SetFuncMap(TemplateFuncs())
	engine.LoadHTMLGlob("../../web/template/**/*.html")
	c.Request = httptest.NewRequest(http.MethodGet, "/about", nil)

	api.ShowAbout(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "https://github.com/inkwell") {
		t.Fatalf("expected GitHub link in page, got: %s", body)
	}
	if !strings.Contains(body, "https://twitter.com/inkwell") {
		t.Fatal("expected Twitter link in page")
	}
	if strings.Contains(body, "LinkedIn") {
		t.Fatal("unset LinkedIn link must not render")
	}
	if !strings.Contains(body, "墨水瓶") {
		t.Fatal("expected site name from settings")
	}
}
