package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	defaultImageModel = "dall-e-3"
	// 宽版比例适合博客封面
	defaultImageSize = "1792x1024"
)

// 不同封面风格对应的提示词片段。
var imageStylePrompts = map[string]string{
	"realistic":    "photorealistic, high quality photograph, professional photography",
	"illustration": "digital illustration, artistic, colorful, modern illustration style",
	"abstract":     "abstract art, geometric shapes, modern design, artistic",
	"minimal":      "minimalist design, clean, simple, modern, subtle colors, professional blog header",
}

var imageMarkupPattern = regexp.MustCompile("[#*`\\[\\]]")

// CoverImageInput 描述生成封面图所需的上下文。
type CoverImageInput struct {
	Title   string
	Content string
	Style   string
}

// CoverImageGenerator 定义封面图生成能力。
type CoverImageGenerator interface {
	GenerateCover(ctx context.Context, input CoverImageInput) (string, error)
}

// AIImageService 调用图片生成接口为文章绘制封面。
type AIImageService struct {
	client *aiChatClient
}

// NewAIImageService 构造默认的 AIImageService。
func NewAIImageService(apiKey, baseURL string) *AIImageService {
	return &AIImageService{
		client: newAIChatClient(apiKey, baseURL, defaultImageModel),
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *AIImageService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetBaseURL 覆盖默认的 API 地址。
func (s *AIImageService) SetBaseURL(base string) {
	s.client.SetBaseURL(base)
}

// GenerateCover 生成封面图并返回临时图片 URL。
// 返回的 URL 有效期有限，调用方应尽快转存。
func (s *AIImageService) GenerateCover(ctx context.Context, input CoverImageInput) (string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", errors.New("title is required")
	}

	style, ok := imageStylePrompts[strings.TrimSpace(input.Style)]
	if !ok {
		style = imageStylePrompts["minimal"]
	}

	summary := ""
	if body := strings.TrimSpace(input.Content); body != "" {
		summary = imageMarkupPattern.ReplaceAllString(truncateRunes(body, 200), "")
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Create a blog cover image for an article titled %q. ", title)
	if summary != "" {
		fmt.Fprintf(&prompt, "The article is about: %s ", summary)
	}
	fmt.Fprintf(&prompt, "Style: %s. ", style)
	prompt.WriteString("The image should be suitable as a blog header/cover image, visually appealing, and relevant to the topic. No text in the image.")

	return s.client.generateImage(ctx, defaultImageModel, prompt.String(), defaultImageSize)
}
