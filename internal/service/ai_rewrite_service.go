package service

import (
	"context"
	"errors"
	"strings"
)

const (
	defaultRewriteModel        = "gpt-4o-mini"
	defaultRewriteMaxTokens    = 4096
	defaultRewriteTemperature  = 0.35
	maxRewriteContentRuneCount = 16000
)

// ErrRewriteEmpty 表示模型未返回可用内容。
var ErrRewriteEmpty = errors.New("ai rewrite returned empty content")

// RewriteOptions 描述改写的优化方向，可多选。
type RewriteOptions struct {
	ImproveFlow bool
	SEOOptimize bool
	Shorten     bool
	Expand      bool
}

// RewriteInput 描述调用全文改写所需的上下文。
type RewriteInput struct {
	Content      string
	Title        string
	ContentType  string
	Options      RewriteOptions
	CustomPrompt string
	MaxTokens    int
}

// RewriteResult 返回改写后的正文及用量信息。
type RewriteResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// ContentRewriter 定义全文改写的能力，便于在业务层注入不同实现。
type ContentRewriter interface {
	Rewrite(ctx context.Context, input RewriteInput) (RewriteResult, error)
}

// AIRewriteService 基于大模型接口对文章进行全文改写优化。
type AIRewriteService struct {
	client *aiChatClient
}

// NewAIRewriteService 构造默认的 AIRewriteService。
func NewAIRewriteService(apiKey, baseURL string) *AIRewriteService {
	return &AIRewriteService{
		client: newAIChatClient(apiKey, baseURL, defaultRewriteModel),
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *AIRewriteService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetBaseURL 覆盖默认的 API 地址。
func (s *AIRewriteService) SetBaseURL(base string) {
	s.client.SetBaseURL(base)
}

// SetModel 指定改写所使用的模型名称。
func (s *AIRewriteService) SetModel(model string) {
	s.client.SetModel(model)
}

// Rewrite 调用大模型按所选方向改写文章正文。
func (s *AIRewriteService) Rewrite(ctx context.Context, input RewriteInput) (RewriteResult, error) {
	body := strings.TrimSpace(input.Content)
	if body == "" {
		return RewriteResult{}, errors.New("content is required")
	}

	maxTokens := input.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultRewriteMaxTokens
	}

	instructions := buildRewriteInstructions(input.Options, input.CustomPrompt)
	format := "Markdown"
	if input.ContentType == "html" {
		format = "HTML"
	}

	var prompt strings.Builder
	if title := strings.TrimSpace(input.Title); title != "" {
		prompt.WriteString("文章标题：")
		prompt.WriteString(title)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("文章正文（")
	prompt.WriteString(format)
	prompt.WriteString("）：\n")
	prompt.WriteString(truncateRunes(body, maxRewriteContentRuneCount))

	systemPrompt := "你是一名资深博客主编，请根据要求改写和优化文章内容。规则：\n" +
		"1. 保持原文的核心意思和主题不变。\n" +
		"2. 保留并优化 " + format + " 结构，确保标题、列表、代码块、引用格式正确。\n" +
		"3. 保留原有示例、数据、链接、图片链接与代码，不要添加额外解释。\n" +
		"4. 输出仅包含改写后的正文，不要附加任何说明。\n" +
		"优化要求：\n" + instructions

	logAIExchange("rewrite", "request", prompt.String())

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   prompt.String(),
		MaxTokens:    maxTokens,
		Temperature:  defaultRewriteTemperature,
	})
	if err != nil {
		return RewriteResult{}, err
	}

	rewritten := strings.TrimSpace(result.Content)
	if rewritten == "" {
		return RewriteResult{}, ErrRewriteEmpty
	}

	logAIExchange("rewrite", "response", rewritten)

	return RewriteResult{
		Content:          rewritten,
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
	}, nil
}

func buildRewriteInstructions(options RewriteOptions, customPrompt string) string {
	instructions := make([]string, 0, 5)

	if options.ImproveFlow {
		instructions = append(instructions, "改善文章的流畅度和可读性，让句子更通顺、段落衔接更自然")
	}
	if options.SEOOptimize {
		instructions = append(instructions, "优化 SEO：适当加入关键词、优化标题结构（H2、H3）")
	}
	if options.Shorten {
		instructions = append(instructions, "精简内容：移除冗词赘字，保留重点信息，让文章更简洁有力")
	}
	if options.Expand {
		instructions = append(instructions, "扩充内容：补充更多细节、范例或说明，让内容更完整丰富")
	}
	if custom := strings.TrimSpace(customPrompt); custom != "" {
		instructions = append(instructions, "额外要求："+custom)
	}

	// 没有选择任何方向时做全面优化
	if len(instructions) == 0 {
		instructions = append(instructions, "全面优化文章：改善流畅度、优化结构、让内容更专业易读")
	}

	var builder strings.Builder
	for i, instruction := range instructions {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("- ")
		builder.WriteString(instruction)
	}
	return builder.String()
}
