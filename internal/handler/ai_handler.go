package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkwell/internal/service"
)

const aiRequestTimeout = 90 * time.Second

// maxAIImageBytes 限制下载的 AI 生成图片体积。
const maxAIImageBytes = 10 << 20

type rewritePayload struct {
	Content      string `json:"content" binding:"required"`
	Title        string `json:"title"`
	ContentType  string `json:"contentType"`
	CustomPrompt string `json:"customPrompt"`
	ImproveFlow  bool   `json:"improveFlow"`
	SEOOptimize  bool   `json:"seoOptimize"`
	Shorten      bool   `json:"shorten"`
	Expand       bool   `json:"expand"`
}

// RewriteContent 调用大模型对整篇文章进行改写优化。
func (a *API) RewriteContent(c *gin.Context) {
	var payload rewritePayload
	if !bindJSON(c, &payload, "请求参数无效") {
		return
	}
	if strings.TrimSpace(payload.Content) == "" {
		respondError(c, http.StatusBadRequest, "正文不能为空")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), aiRequestTimeout)
	defer cancel()

	result, err := a.rewriter.Rewrite(ctx, service.RewriteInput{
		Content:      payload.Content,
		Title:        payload.Title,
		ContentType:  payload.ContentType,
		CustomPrompt: payload.CustomPrompt,
		Options: service.RewriteOptions{
			ImproveFlow: payload.ImproveFlow,
			SEOOptimize: payload.SEOOptimize,
			Shorten:     payload.Shorten,
			Expand:      payload.Expand,
		},
	})
	if err != nil {
		respondAIError(c, err, "改写失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content": result.Content,
		"usage": gin.H{
			"promptTokens":     result.PromptTokens,
			"completionTokens": result.CompletionTokens,
		},
	})
}

type metadataPayload struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
}

// GenerateMetadata 为文章生成摘要及分类、标签建议。
func (a *API) GenerateMetadata(c *gin.Context) {
	var payload metadataPayload
	if !bindJSON(c, &payload, "请求参数无效") {
		return
	}
	if strings.TrimSpace(payload.Content) == "" {
		respondError(c, http.StatusBadRequest, "正文不能为空")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), aiRequestTimeout)
	defer cancel()

	metadata, err := a.metadata.Generate(ctx, service.MetadataInput{
		Title:   payload.Title,
		Content: payload.Content,
	})
	if err != nil {
		respondAIError(c, err, "生成元数据失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{"metadata": metadata})
}

type coverImagePayload struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	Style   string `json:"style"`
}

// GenerateCoverImage 为文章生成封面图，返回模型侧的临时地址。
func (a *API) GenerateCoverImage(c *gin.Context) {
	var payload coverImagePayload
	if !bindJSON(c, &payload, "请求参数无效") {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), aiRequestTimeout)
	defer cancel()

	imageURL, err := a.covers.GenerateCover(ctx, service.CoverImageInput{
		Title:   payload.Title,
		Content: payload.Content,
		Style:   payload.Style,
	})
	if err != nil {
		respondAIError(c, err, "生成封面失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": imageURL})
}

type saveAIImagePayload struct {
	ImageURL string `json:"imageUrl" binding:"required"`
}

// SaveAIImage 把模型返回的临时图片地址落盘到本地上传目录。
// 模型侧的地址通常只有一小时有效期，保存后返回站内可长期引用的 URL。
func (a *API) SaveAIImage(c *gin.Context) {
	var payload saveAIImagePayload
	if !bindJSON(c, &payload, "请求参数无效") {
		return
	}
	if !strings.HasPrefix(payload.ImageURL, "http://") && !strings.HasPrefix(payload.ImageURL, "https://") {
		respondError(c, http.StatusBadRequest, "图片地址无效")
		return
	}

	localURL, err := a.downloadAIImage(c.Request.Context(), payload.ImageURL)
	if err != nil {
		respondError(c, http.StatusBadGateway, "保存图片失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": localURL})
}

func (a *API) downloadAIImage(ctx context.Context, imageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("下载图片返回状态码 %d", resp.StatusCode)
	}

	if err := os.MkdirAll(a.cfg.UploadDir, 0755); err != nil {
		return "", err
	}

	ext := ".png"
	if strings.Contains(resp.Header.Get("Content-Type"), "jpeg") {
		ext = ".jpg"
	}
	filename := fmt.Sprintf("%s-ai-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.cfg.UploadDir, filename)

	out, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(resp.Body, maxAIImageBytes)); err != nil {
		os.Remove(filePath)
		return "", err
	}

	return strings.TrimRight(a.cfg.UploadURLPath, "/") + "/" + filename, nil
}

// respondAIError 把 AI 层的错误映射为对调用方友好的响应。
func respondAIError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrAIAPIKeyMissing) {
		respondError(c, http.StatusServiceUnavailable, "尚未配置 AI 接口密钥")
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		respondError(c, http.StatusGatewayTimeout, "AI 接口响应超时")
		return
	}
	c.Error(err)
	respondError(c, http.StatusBadGateway, fallback)
}
