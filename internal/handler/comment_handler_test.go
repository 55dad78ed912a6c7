package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
)

func submitCommentRequest(t *testing.T, api *API, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/comments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.SubmitComment(c)
	return w
}

func TestSubmitCommentCreatesPending(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	post := db.Post{Title: "文章", Slug: "hello", Content: "正文", Published: true}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}

	w := submitCommentRequest(t, api, map[string]any{
		"postId":  post.ID,
		"author":  "读者",
		"content": "写得不错",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var stored db.Comment
	if err := db.DB.Where("post_id = ?", post.ID).First(&stored).Error; err != nil {
		t.Fatalf("load comment: %v", err)
	}
	if stored.Approved {
		t.Fatal("expected comment to start pending")
	}
}

func TestSubmitCommentRejectsSpam(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	post := db.Post{Title: "文章", Slug: "hello", Content: "正文", Published: true}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}

	w := submitCommentRequest(t, api, map[string]any{
		"postId":  post.ID,
		"author":  "读者",
		"content": "free money, click here",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestSubmitCommentMissingPostReturns404(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := submitCommentRequest(t, api, map[string]any{
		"postId":  9999,
		"author":  "读者",
		"content": "评论",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestModerateCommentApprove(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	post := db.Post{Title: "文章", Slug: "hello", Content: "正文", Published: true}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	comment := db.Comment{PostID: post.ID, Author: "读者", Content: "评论"}
	if err := db.DB.Create(&comment).Error; err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}

	body, _ := json.Marshal(map[string]any{"action": "approve"})
	req := httptest.NewRequest(http.MethodPost, "/admin/api/comments/1/moderate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: "1"}}

	api.ModerateComment(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var reloaded db.Comment
	if err := db.DB.First(&reloaded, comment.ID).Error; err != nil {
		t.Fatalf("reload comment: %v", err)
	}
	if !reloaded.Approved {
		t.Fatal("expected comment approved")
	}
}
