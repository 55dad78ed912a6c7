package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	defaultMetadataModel       = "gpt-4o-mini"
	defaultMetadataMaxTokens   = 1024
	defaultMetadataTemperature = 0.5
	maxMetadataContentRunes    = 2000
)

// ErrMetadataEmpty 表示模型未返回可解析的元数据。
var ErrMetadataEmpty = errors.New("ai metadata returned empty content")

// MetadataInput 描述生成文章元数据所需的上下文。
type MetadataInput struct {
	Title   string
	Content string
}

// PostMetadata 是模型为文章建议的元数据。
// CategoryID/TagIDs 指向现有记录，Suggested 字段给出新建建议。
type PostMetadata struct {
	Excerpt           string `json:"excerpt"`
	CategoryID        *uint  `json:"categoryId"`
	SuggestedCategory string `json:"suggestedCategory"`
	TagIDs            []uint `json:"tagIds"`
	SuggestedTags     []string `json:"suggestedTags"`
}

// MetadataGenerator 定义元数据生成能力，便于在业务层注入不同实现。
type MetadataGenerator interface {
	Generate(ctx context.Context, input MetadataInput) (PostMetadata, error)
}

// AIMetadataService 基于大模型接口为文章生成摘要与分类、标签建议。
type AIMetadataService struct {
	client     *aiChatClient
	categories *CategoryService
	tags       *TagService
}

// NewAIMetadataService 构造默认的 AIMetadataService。
func NewAIMetadataService(apiKey, baseURL string, categories *CategoryService, tags *TagService) *AIMetadataService {
	return &AIMetadataService{
		client:     newAIChatClient(apiKey, baseURL, defaultMetadataModel),
		categories: categories,
		tags:       tags,
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *AIMetadataService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetBaseURL 覆盖默认的 API 地址。
func (s *AIMetadataService) SetBaseURL(base string) {
	s.client.SetBaseURL(base)
}

// SetModel 指定元数据生成所使用的模型名称。
func (s *AIMetadataService) SetModel(model string) {
	s.client.SetModel(model)
}

// Generate 根据标题与正文生成摘要，并从现有分类、标签中挑选最合适的。
func (s *AIMetadataService) Generate(ctx context.Context, input MetadataInput) (PostMetadata, error) {
	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Content)
	if title == "" || body == "" {
		return PostMetadata{}, errors.New("title and content are required")
	}

	categoryList, tagList, err := s.describeTaxonomy()
	if err != nil {
		return PostMetadata{}, err
	}

	systemPrompt := `你是一位专业的博客 SEO 专家。根据文章标题和内容生成元数据，以 JSON 对象回复，包含：
1. excerpt: 100-150 字的文章摘要，吸引读者点击阅读
2. categoryId: 从现有分类中选择最合适的分类 ID 数字（没有合适的则为 null）
3. suggestedCategory: 现有分类都不合适时建议的新分类名称（否则为 null）
4. tagIds: 从现有标签中选择 1-3 个最相关的标签 ID 数字数组
5. suggestedTags: 建议 1-3 个新标签名称的数组（现有标签足够时为空数组）

现有分类：` + categoryList + `
现有标签：` + tagList

	userPrompt := fmt.Sprintf("文章标题：%s\n\n文章内容：\n%s",
		title, truncateRunes(body, maxMetadataContentRunes))

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    defaultMetadataMaxTokens,
		Temperature:  defaultMetadataTemperature,
		JSONResponse: true,
	})
	if err != nil {
		return PostMetadata{}, err
	}

	if result.Content == "" {
		return PostMetadata{}, ErrMetadataEmpty
	}

	logAIExchange("metadata", "response", result.Content)

	var metadata PostMetadata
	if err := json.Unmarshal([]byte(result.Content), &metadata); err != nil {
		return PostMetadata{}, fmt.Errorf("解析元数据失败: %w", err)
	}

	metadata.Excerpt = strings.TrimSpace(metadata.Excerpt)
	return metadata, nil
}

func (s *AIMetadataService) describeTaxonomy() (string, string, error) {
	categories, err := s.categories.List()
	if err != nil {
		return "", "", err
	}
	tags, err := s.tags.List()
	if err != nil {
		return "", "", err
	}

	categoryList := describeNamedRecords(len(categories), func(i int) (string, uint) {
		return categories[i].Name, categories[i].ID
	})
	tagList := describeNamedRecords(len(tags), func(i int) (string, uint) {
		return tags[i].Name, tags[i].ID
	})

	return categoryList, tagList, nil
}

func describeNamedRecords(count int, at func(int) (string, uint)) string {
	if count == 0 {
		return "（无）"
	}

	parts := make([]string, 0, count)
	for i := 0; i < count; i++ {
		name, id := at(i)
		parts = append(parts, fmt.Sprintf("%s (ID: %d)", name, id))
	}
	return strings.Join(parts, ", ")
}
