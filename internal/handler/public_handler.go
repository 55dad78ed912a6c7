package handler

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/content"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
)

const postsPerPage = 6

// minHeadingsForTOC 是展示文章目录的最小标题数。
const minHeadingsForTOC = 3

// postCardView 是列表页单篇文章的展示模型。
type postCardView struct {
	Post    db.Post
	Excerpt string
}

func buildPostCards(posts []db.Post) []postCardView {
	cards := make([]postCardView, 0, len(posts))
	for i := range posts {
		cards = append(cards, postCardView{
			Post:    posts[i],
			Excerpt: service.DisplayExcerpt(&posts[i]),
		})
	}
	return cards
}

// ShowHome renders the public home page with filters and pagination.
func (a *API) ShowHome(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)

	filter := service.PostFilter{
		Search:       search,
		Status:       "published",
		CategorySlug: strings.TrimSpace(c.Query("category")),
		TagSlug:      strings.TrimSpace(c.Query("tag")),
		Page:         page,
		PerPage:      postsPerPage,
	}

	result, err := a.posts.List(filter)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "home.html", gin.H{
			"title": "首页",
			"error": "获取文章失败",
			"year":  time.Now().Year(),
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"title":       "首页",
		"search":      search,
		"category":    filter.CategorySlug,
		"tag":         filter.TagSlug,
		"posts":       buildPostCards(result.Posts),
		"page":        result.Page,
		"totalPages":  result.TotalPages,
		"hasMore":     result.Page < result.TotalPages,
		"queryParams": buildQueryParams(search, filter.CategorySlug, filter.TagSlug),
		"year":        time.Now().Year(),
	})
}

// ShowPosts 渲染全部文章的归档列表页。
func (a *API) ShowPosts(c *gin.Context) {
	a.showFilteredPosts(c, "posts.html", gin.H{"title": "全部文章"}, service.PostFilter{
		Status:       "published",
		Search:       strings.TrimSpace(c.Query("search")),
		CategorySlug: strings.TrimSpace(c.Query("category")),
		TagSlug:      strings.TrimSpace(c.Query("tag")),
	})
}

// ShowPost 渲染文章详情页，支持预览令牌访问未发布文章。
func (a *API) ShowPost(c *gin.Context) {
	slug := c.Param("slug")
	token := c.Query("token")

	post, err := a.posts.VisibleBySlug(slug, token)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.renderHTML(c, http.StatusNotFound, "404.html", gin.H{"title": "文章不存在"})
			return
		}
		a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
			"title": "出错了",
			"error": "获取文章失败",
		})
		return
	}

	rendered := content.RenderContent(post.Content, post.ContentType)
	headings := content.Headings(post.Content, post.ContentType)

	comments, err := a.comments.ApprovedForPost(post.ID)
	if err != nil {
		c.Error(err)
	}

	related, err := a.posts.Related(post, 3)
	if err != nil {
		c.Error(err)
	}

	a.renderHTML(c, http.StatusOK, "post.html", gin.H{
		"title":     post.Title,
		"post":      post,
		"content":   template.HTML(rendered), // 已经过白名单净化
		"headings":  headings,
		"showTOC":   len(headings) >= minHeadingsForTOC,
		"comments":  comments,
		"related":   buildPostCards(related),
		"isPreview": !post.Published,
		"year":      time.Now().Year(),
	})
}

// ShowAbout 渲染关于页，简介与社交链接都来自站点设置。
func (a *API) ShowAbout(c *gin.Context) {
	settings, err := a.settings.Get()
	if err != nil {
		c.Error(err)
	}

	a.renderHTML(c, http.StatusOK, "about.html", gin.H{
		"title": "关于",
		"social": gin.H{
			"twitter":  settings.SocialTwitter,
			"github":   settings.SocialGithub,
			"linkedin": settings.SocialLinkedin,
		},
		"year": time.Now().Year(),
	})
}

// ShowCategories 渲染分类索引页。
func (a *API) ShowCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "categories.html", gin.H{
			"title": "分类",
			"error": "获取分类失败",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "categories.html", gin.H{
		"title":      "分类",
		"categories": categories,
		"year":       time.Now().Year(),
	})
}

// ShowTags 渲染标签索引页。
func (a *API) ShowTags(c *gin.Context) {
	tags, err := a.tags.List()
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "tags.html", gin.H{
			"title": "标签",
			"error": "获取标签失败",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "tags.html", gin.H{
		"title": "标签",
		"tags":  tags,
		"year":  time.Now().Year(),
	})
}

// ShowCategory 渲染某个分类下的文章列表。
func (a *API) ShowCategory(c *gin.Context) {
	slug := c.Param("slug")
	category, err := a.categories.GetBySlug(slug)
	if err != nil {
		a.renderHTML(c, http.StatusNotFound, "404.html", gin.H{"title": "分类不存在"})
		return
	}

	a.showFilteredPosts(c, "category.html", gin.H{"category": category}, service.PostFilter{
		Status:       "published",
		CategorySlug: slug,
	})
}

// ShowTag 渲染某个标签下的文章列表。
func (a *API) ShowTag(c *gin.Context) {
	slug := c.Param("slug")
	tag, err := a.tags.GetBySlug(slug)
	if err != nil {
		a.renderHTML(c, http.StatusNotFound, "404.html", gin.H{"title": "标签不存在"})
		return
	}

	a.showFilteredPosts(c, "tag.html", gin.H{"tag": tag}, service.PostFilter{
		Status:  "published",
		TagSlug: slug,
	})
}

// ShowSearch 渲染搜索结果页。
func (a *API) ShowSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		a.renderHTML(c, http.StatusOK, "search.html", gin.H{
			"title": "搜索",
			"query": "",
			"posts": []postCardView{},
			"year":  time.Now().Year(),
		})
		return
	}

	a.showFilteredPosts(c, "search.html", gin.H{"query": query}, service.PostFilter{
		Status: "published",
		Search: query,
	})
}

func (a *API) showFilteredPosts(c *gin.Context, tmpl string, extra gin.H, filter service.PostFilter) {
	filter.Page = parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	filter.PerPage = postsPerPage

	result, err := a.posts.List(filter)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, tmpl, gin.H{
			"title": "出错了",
			"error": "获取文章失败",
		})
		return
	}

	data := gin.H{
		"posts":      buildPostCards(result.Posts),
		"page":       result.Page,
		"totalPages": result.TotalPages,
		"hasMore":    result.Page < result.TotalPages,
		"year":       time.Now().Year(),
	}
	for key, value := range extra {
		data[key] = value
	}

	a.renderHTML(c, http.StatusOK, tmpl, data)
}

func buildQueryParams(search, category, tag string) string {
	values := url.Values{}
	if search != "" {
		values.Set("search", search)
	}
	if category != "" {
		values.Set("category", category)
	}
	if tag != "" {
		values.Set("tag", tag)
	}
	if encoded := values.Encode(); encoded != "" {
		return "&" + encoded
	}
	return ""
}
