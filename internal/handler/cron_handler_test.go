package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
)

func publishScheduledRequest(t *testing.T, api *API, authorization string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/cron/publish-scheduled", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.PublishScheduled(c)
	return w
}

func TestPublishScheduledRejectsMissingSecret(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	if w := publishScheduledRequest(t, api, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without credentials, got %d", w.Code)
	}
	if w := publishScheduledRequest(t, api, "Bearer wrong-secret"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 with wrong secret, got %d", w.Code)
	}
}

func TestPublishScheduledPublishesDuePosts(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	duePost := db.Post{Title: "到期", Slug: "due", Content: "正文", ScheduledAt: &past}
	futurePost := db.Post{Title: "未到期", Slug: "future", Content: "正文", ScheduledAt: &future}
	if err := db.DB.Create(&duePost).Error; err != nil {
		t.Fatalf("failed to seed due post: %v", err)
	}
	if err := db.DB.Create(&futurePost).Error; err != nil {
		t.Fatalf("failed to seed future post: %v", err)
	}

	w := publishScheduledRequest(t, api, "Bearer "+testCronSecret)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		Success      bool   `json:"success"`
		Message      string `json:"message"`
		Count        int    `json:"count"`
		PublishedIDs []uint `json:"publishedIds"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Success || body.Count != 1 {
		t.Fatalf("expected one published post, got %+v", body)
	}
	if len(body.PublishedIDs) != 1 || body.PublishedIDs[0] != duePost.ID {
		t.Fatalf("unexpected published ids %v", body.PublishedIDs)
	}

	var reloaded db.Post
	if err := db.DB.First(&reloaded, duePost.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if !reloaded.Published || reloaded.ScheduledAt != nil {
		t.Fatalf("expected due post published, got %+v", reloaded)
	}

	var untouched db.Post
	if err := db.DB.First(&untouched, futurePost.ID).Error; err != nil {
		t.Fatalf("reload future post: %v", err)
	}
	if untouched.Published {
		t.Fatal("future post must stay unpublished")
	}
}

func TestPublishScheduledSecondRunIsEmpty(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	past := time.Now().Add(-time.Hour)
	post := db.Post{Title: "到期", Slug: "due", Content: "正文", ScheduledAt: &past}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}

	if w := publishScheduledRequest(t, api, "Bearer "+testCronSecret); w.Code != http.StatusOK {
		t.Fatalf("first run failed with status %d", w.Code)
	}

	w := publishScheduledRequest(t, api, "Bearer "+testCronSecret)
	if w.Code != http.StatusOK {
		t.Fatalf("second run failed with status %d", w.Code)
	}

	var body struct {
		Message string `json:"message"`
		Count   int    `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Count != 0 || body.Message != "No posts to publish" {
		t.Fatalf("expected empty second run, got %+v", body)
	}
}
