package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(text string) string {
	return xmlEscaper.Replace(text)
}

// siteBaseURL 优先使用站点设置里的地址，其次回退到配置。
func (a *API) siteBaseURL() string {
	settings, err := a.settings.Get()
	if err == nil && settings.SiteURL != "" {
		return strings.TrimRight(settings.SiteURL, "/")
	}
	return strings.TrimRight(a.cfg.SiteBaseURL, "/")
}

// Feed 输出 RSS 2.0 订阅源，包含最近 20 篇已发布文章。
func (a *API) Feed(c *gin.Context) {
	posts, err := a.posts.Recent(20)
	if err != nil {
		c.String(http.StatusInternalServerError, "获取文章失败")
		return
	}

	settings, err := a.settings.Get()
	if err != nil {
		c.String(http.StatusInternalServerError, "获取站点设置失败")
		return
	}

	base := a.siteBaseURL()
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">` + "\n")
	b.WriteString("  <channel>\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", escapeXML(settings.SiteName))
	fmt.Fprintf(&b, "    <link>%s</link>\n", escapeXML(base))
	fmt.Fprintf(&b, "    <description>%s</description>\n", escapeXML(settings.SiteDescription))
	b.WriteString("    <language>zh-cn</language>\n")
	fmt.Fprintf(&b, "    <lastBuildDate>%s</lastBuildDate>\n", time.Now().UTC().Format(http.TimeFormat))
	fmt.Fprintf(&b, `    <atom:link href="%s/feed.xml" rel="self" type="application/rss+xml"/>`+"\n", escapeXML(base))

	for i := range posts {
		post := &posts[i]
		link := base + "/posts/" + post.Slug
		pubDate := post.CreatedAt
		if post.PublishedAt != nil {
			pubDate = *post.PublishedAt
		}

		b.WriteString("    <item>\n")
		fmt.Fprintf(&b, "      <title>%s</title>\n", escapeXML(post.Title))
		fmt.Fprintf(&b, "      <link>%s</link>\n", escapeXML(link))
		fmt.Fprintf(&b, `      <guid isPermaLink="true">%s</guid>`+"\n", escapeXML(link))
		fmt.Fprintf(&b, "      <pubDate>%s</pubDate>\n", pubDate.UTC().Format(http.TimeFormat))
		fmt.Fprintf(&b, "      <description>%s</description>\n", escapeXML(service.DisplayExcerpt(post)))
		if post.Category != nil {
			fmt.Fprintf(&b, "      <category>%s</category>\n", escapeXML(post.Category.Name))
		}
		b.WriteString("    </item>\n")
	}

	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(b.String()))
}

type sitemapEntry struct {
	path       string
	lastMod    string
	changeFreq string
	priority   string
}

// Sitemap 输出站点地图，覆盖静态页面、文章、分类和标签。
func (a *API) Sitemap(c *gin.Context) {
	base := a.siteBaseURL()
	today := time.Now().UTC().Format("2006-01-02")

	entries := []sitemapEntry{
		{path: "", lastMod: today, changeFreq: "daily", priority: "1.0"},
		{path: "/posts", lastMod: today, changeFreq: "daily", priority: "0.9"},
		{path: "/categories", lastMod: today, changeFreq: "weekly", priority: "0.8"},
		{path: "/tags", lastMod: today, changeFreq: "weekly", priority: "0.8"},
		{path: "/search", lastMod: today, changeFreq: "weekly", priority: "0.6"},
		{path: "/about", lastMod: today, changeFreq: "monthly", priority: "0.5"},
	}

	posts, err := a.posts.AllPublished()
	if err != nil {
		c.String(http.StatusInternalServerError, "获取文章失败")
		return
	}
	for i := range posts {
		post := &posts[i]
		lastMod := post.UpdatedAt
		if post.PublishedAt != nil && post.PublishedAt.After(lastMod) {
			lastMod = *post.PublishedAt
		}
		entries = append(entries, sitemapEntry{
			path:       "/posts/" + post.Slug,
			lastMod:    lastMod.UTC().Format("2006-01-02"),
			changeFreq: "weekly",
			priority:   "0.8",
		})
	}

	categories, err := a.categories.List()
	if err != nil {
		c.String(http.StatusInternalServerError, "获取分类失败")
		return
	}
	for _, category := range categories {
		entries = append(entries, sitemapEntry{
			path:       "/categories/" + category.Slug,
			lastMod:    today,
			changeFreq: "weekly",
			priority:   "0.7",
		})
	}

	tags, err := a.tags.List()
	if err != nil {
		c.String(http.StatusInternalServerError, "获取标签失败")
		return
	}
	for _, tag := range tags {
		entries = append(entries, sitemapEntry{
			path:       "/tags/" + tag.Slug,
			lastMod:    today,
			changeFreq: "weekly",
			priority:   "0.6",
		})
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, entry := range entries {
		b.WriteString("  <url>\n")
		fmt.Fprintf(&b, "    <loc>%s</loc>\n", escapeXML(base+entry.path))
		fmt.Fprintf(&b, "    <lastmod>%s</lastmod>\n", entry.lastMod)
		fmt.Fprintf(&b, "    <changefreq>%s</changefreq>\n", entry.changeFreq)
		fmt.Fprintf(&b, "    <priority>%s</priority>\n", entry.priority)
		b.WriteString("  </url>\n")
	}
	b.WriteString("</urlset>\n")

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(b.String()))
}

// Robots 输出 robots.txt，屏蔽后台与接口路径。
func (a *API) Robots(c *gin.Context) {
	base := a.siteBaseURL()
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /admin\n")
	b.WriteString("Disallow: /api\n")
	b.WriteString("\n")
	b.WriteString("Sitemap: " + base + "/sitemap.xml\n")

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(b.String()))
}
