package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
)

func createTagRequest(t *testing.T, api *API, name string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/tags", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.CreateTag(c)
	return w
}

func TestCreateTagDerivesSlug(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := createTagRequest(t, api, "Web 开发")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Success bool   `json:"success"`
		Tag     db.Tag `json:"tag"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Success || body.Tag.Slug != "web-开发" {
		t.Fatalf("unexpected tag %+v", body.Tag)
	}
}

func TestCreateTagRejectsDuplicateName(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	if w := createTagRequest(t, api, "Go"); w.Code != http.StatusOK {
		t.Fatalf("first create failed with status %d", w.Code)
	}

	w := createTagRequest(t, api, "Go")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for duplicate, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "标签名称已存在") {
		t.Fatalf("unexpected error body: %s", w.Body.String())
	}
}

func TestCreateTagRejectsEmptyName(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := createTagRequest(t, api, "   ")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty name, got %d", w.Code)
	}
}

func TestDeleteTagInUseReturnsBadRequest(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	tag := db.Tag{Name: "Go", Slug: "go"}
	if err := db.DB.Create(&tag).Error; err != nil {
		t.Fatalf("failed to seed tag: %v", err)
	}
	post := db.Post{Title: "文章", Slug: "post", Content: "正文", Tags: []db.Tag{tag}}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/tags/1", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	api.DeleteTag(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for tag in use, got %d", w.Code)
	}
}
