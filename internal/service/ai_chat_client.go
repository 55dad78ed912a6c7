package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrAIAPIKeyMissing 表示未配置 OpenAI API Key。
var ErrAIAPIKeyMissing = errors.New("openai api key is required")

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	Temperature    float64             `json:"temperature,omitempty"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type imageGenerationRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality,omitempty"`
}

type imageGenerationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type aiChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
	// JSONResponse 为 true 时要求模型以 JSON 对象格式输出。
	JSONResponse bool
}

type aiChatResponse struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// aiChatClient 封装 OpenAI 兼容接口的调用，API Key 与地址来自进程配置。
type aiChatClient struct {
	http    httpDoer
	apiKey  string
	baseURL string
	model   string
}

func newAIChatClient(apiKey, baseURL, model string) *aiChatClient {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = "https://api.openai.com/v1"
	}

	return &aiChatClient{
		http:    &http.Client{Timeout: 180 * time.Second},
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: base,
		model:   strings.TrimSpace(model),
	}
}

func (c *aiChatClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 20 * time.Second}
		return
	}
	c.http = client
}

func (c *aiChatClient) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

func (c *aiChatClient) SetModel(model string) {
	model = strings.TrimSpace(model)
	if model == "" {
		return
	}
	c.model = model
}

func (c *aiChatClient) call(ctx context.Context, req aiChatRequest) (aiChatResponse, error) {
	if c.apiKey == "" {
		return aiChatResponse{}, ErrAIAPIKeyMissing
	}

	maxTokens := req.MaxTokens
	if maxTokens < 0 {
		maxTokens = 0
	}

	payload := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: strings.TrimSpace(req.SystemPrompt)},
			{Role: "user", Content: req.UserPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}
	if req.JSONResponse {
		payload.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return aiChatResponse{}, fmt.Errorf("构造请求失败: %w", err)
	}

	respBody, status, err := c.post(ctx, "/chat/completions", body)
	if err != nil {
		return aiChatResponse{}, err
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return aiChatResponse{}, fmt.Errorf("解析 OpenAI 响应失败: %w", err)
	}

	if status >= http.StatusBadRequest {
		return aiChatResponse{}, apiError(completion.Error.Message, respBody, status)
	}

	if len(completion.Choices) == 0 {
		return aiChatResponse{}, errors.New("OpenAI 接口未返回结果")
	}

	return aiChatResponse{
		Content:          strings.TrimSpace(completion.Choices[0].Message.Content),
		PromptTokens:     completion.Usage.PromptTokens,
		CompletionTokens: completion.Usage.CompletionTokens,
	}, nil
}

func (c *aiChatClient) generateImage(ctx context.Context, model, prompt, size string) (string, error) {
	if c.apiKey == "" {
		return "", ErrAIAPIKeyMissing
	}

	payload := imageGenerationRequest{
		Model:   model,
		Prompt:  prompt,
		N:       1,
		Size:    size,
		Quality: "standard",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("构造请求失败: %w", err)
	}

	respBody, status, err := c.post(ctx, "/images/generations", body)
	if err != nil {
		return "", err
	}

	var generation imageGenerationResponse
	if err := json.Unmarshal(respBody, &generation); err != nil {
		return "", fmt.Errorf("解析 OpenAI 响应失败: %w", err)
	}

	if status >= http.StatusBadRequest {
		return "", apiError(generation.Error.Message, respBody, status)
	}

	if len(generation.Data) == 0 || strings.TrimSpace(generation.Data[0].URL) == "" {
		return "", errors.New("OpenAI 未能生成图片")
	}

	return generation.Data[0].URL, nil
}

func (c *aiChatClient) post(ctx context.Context, path string, body []byte) ([]byte, int, error) {
	endpoint := c.baseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("创建 OpenAI 请求失败: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "inkwell-ai/1.0")

	client := c.http
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("请求 OpenAI 接口失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("读取 OpenAI 响应失败: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

func apiError(message string, respBody []byte, status int) error {
	errMsg := strings.TrimSpace(message)
	if errMsg == "" {
		errMsg = strings.TrimSpace(string(respBody))
	}
	if errMsg == "" {
		errMsg = http.StatusText(status)
	}
	return fmt.Errorf("OpenAI 接口返回错误：%s", errMsg)
}

// truncateRunes 按字符数截断文本，避免超长正文撑爆 Prompt。
func truncateRunes(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
