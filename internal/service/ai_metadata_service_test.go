package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func newMetadataTestService(t *testing.T) (*AIMetadataService, *CategoryService, *TagService) {
	t.Helper()
	gdb := setupServiceTestDB(t, "ai-metadata")
	categories := NewCategoryService(gdb)
	tags := NewTagService(gdb)
	return NewAIMetadataService("sk-test", "https://openai.test/v1", categories, tags), categories, tags
}

func TestAIMetadataServiceGenerate(t *testing.T) {
	svc, categories, tags := newMetadataTestService(t)

	tech, err := categories.Create("技术", "")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	goTag, err := tags.Create("Go")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	svc.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}

		var payload chatCompletionRequest
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("failed to read request body: %v", err)
		}
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if payload.ResponseFormat == nil || payload.ResponseFormat.Type != "json_object" {
			t.Fatalf("expected json response format, got %+v", payload.ResponseFormat)
		}
		if !strings.Contains(payload.Messages[0].Content, "技术") {
			t.Fatalf("system prompt must list existing categories: %q", payload.Messages[0].Content)
		}
		if !strings.Contains(payload.Messages[0].Content, "Go") {
			t.Fatalf("system prompt must list existing tags: %q", payload.Messages[0].Content)
		}

		metadata := map[string]any{
			"excerpt":       "一篇关于 Go 的文章",
			"categoryId":    tech.ID,
			"tagIds":        []uint{goTag.ID},
			"suggestedTags": []string{"并发"},
		}
		buf, _ := json.Marshal(metadata)
		return chatCompletionHTTPResponse(t, string(buf), 10, 20), nil
	}})

	result, err := svc.Generate(context.Background(), MetadataInput{Title: "Go 并发", Content: "goroutine 与 channel"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Excerpt != "一篇关于 Go 的文章" {
		t.Fatalf("unexpected excerpt %q", result.Excerpt)
	}
	if result.CategoryID == nil || *result.CategoryID != tech.ID {
		t.Fatalf("unexpected category id %v", result.CategoryID)
	}
	if len(result.TagIDs) != 1 || result.TagIDs[0] != goTag.ID {
		t.Fatalf("unexpected tag ids %v", result.TagIDs)
	}
	if len(result.SuggestedTags) != 1 || result.SuggestedTags[0] != "并发" {
		t.Fatalf("unexpected suggested tags %v", result.SuggestedTags)
	}
}

func TestAIMetadataServiceRequiresTitleAndContent(t *testing.T) {
	svc, _, _ := newMetadataTestService(t)

	if _, err := svc.Generate(context.Background(), MetadataInput{Title: "", Content: "正文"}); err == nil {
		t.Fatal("expected error for missing title")
	}
	if _, err := svc.Generate(context.Background(), MetadataInput{Title: "标题", Content: " "}); err == nil {
		t.Fatal("expected error for missing content")
	}
}

func TestAIMetadataServiceRejectsMalformedJSON(t *testing.T) {
	svc, _, _ := newMetadataTestService(t)
	svc.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		return chatCompletionHTTPResponse(t, "这不是 JSON", 1, 1), nil
	}})

	if _, err := svc.Generate(context.Background(), MetadataInput{Title: "标题", Content: "正文"}); err == nil {
		t.Fatal("expected parse error for malformed payload")
	}
}

func TestAIImageServiceGenerateCover(t *testing.T) {
	svc := NewAIImageService("sk-test", "https://openai.test/v1")
	svc.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/v1/images/generations" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}

		var payload imageGenerationRequest
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("failed to read request body: %v", err)
		}
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if payload.Model != "dall-e-3" {
			t.Fatalf("unexpected model %s", payload.Model)
		}
		if payload.Size != "1792x1024" {
			t.Fatalf("unexpected size %s", payload.Size)
		}
		if !strings.Contains(payload.Prompt, "Go 并发") {
			t.Fatalf("prompt must mention the title: %q", payload.Prompt)
		}
		if !strings.Contains(payload.Prompt, "minimalist") {
			t.Fatalf("expected minimal style fallback, got %q", payload.Prompt)
		}

		response := imageGenerationResponse{}
		response.Data = []struct {
			URL string `json:"url"`
		}{{URL: "https://images.test/cover.png"}}
		buf, _ := json.Marshal(response)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(buf)),
			Header:     make(http.Header),
		}, nil
	}})

	url, err := svc.GenerateCover(context.Background(), CoverImageInput{Title: "Go 并发", Content: "# goroutine"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://images.test/cover.png" {
		t.Fatalf("unexpected url %s", url)
	}
}

func TestAIImageServiceRequiresTitle(t *testing.T) {
	svc := NewAIImageService("sk-test", "")

	if _, err := svc.GenerateCover(context.Background(), CoverImageInput{Title: "  "}); err == nil {
		t.Fatal("expected error for missing title")
	}
}
