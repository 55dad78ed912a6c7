package main

import (
	"fmt"
	"log"
	"time"

	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/content"
	"github.com/inkwell/internal/db"
	"golang.org/x/crypto/bcrypt"
)

// 演示数据生成器
func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")

	createAdminUser()
	categories := createCategories()
	tags := createTags()
	createPosts(categories, tags)
	createSiteSettings()

	fmt.Println("演示数据生成完成！")
	fmt.Println("用户: admin (密码: admin123)")
}

// 创建管理员用户
func createAdminUser() {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := db.User{
		Username: "admin",
		Password: string(hashedPassword),
	}
	db.DB.Create(&admin)

	fmt.Println("✅ 管理员用户创建完成")
}

// 创建演示分类
func createCategories() map[string]db.Category {
	result := map[string]db.Category{}

	seeds := []struct {
		name        string
		slug        string
		description string
	}{
		{"技术", "technology", "编程、架构与工程实践"},
		{"生活", "life", "日常随笔与生活记录"},
		{"随想", "thoughts", "读书笔记与碎片思考"},
	}

	for _, seed := range seeds {
		var category db.Category
		if err := db.DB.Where("slug = ?", seed.slug).First(&category).Error; err == nil {
			result[seed.slug] = category
			continue
		}
		category = db.Category{
			Name:        seed.name,
			Slug:        seed.slug,
			Description: seed.description,
		}
		db.DB.Create(&category)
		result[seed.slug] = category
	}

	fmt.Println("✅ 演示分类创建完成")
	return result
}

// 创建演示标签
func createTags() map[string]db.Tag {
	result := map[string]db.Tag{}

	names := []string{"Go", "Web开发", "数据库", "写作", "效率"}
	for _, name := range names {
		slug := content.Slugify(name)
		var tag db.Tag
		if err := db.DB.Where("slug = ?", slug).First(&tag).Error; err == nil {
			result[slug] = tag
			continue
		}
		tag = db.Tag{Name: name, Slug: slug}
		db.DB.Create(&tag)
		result[slug] = tag
	}

	fmt.Println("✅ 演示标签创建完成")
	return result
}

// 创建演示文章
func createPosts(categories map[string]db.Category, tags map[string]db.Tag) {
	var count int64
	db.DB.Model(&db.Post{}).Count(&count)
	if count > 0 {
		fmt.Println("文章已存在，跳过创建")
		return
	}

	now := time.Now()
	publishedAt := now.Add(-48 * time.Hour)
	scheduledAt := now.Add(48 * time.Hour)

	techID := categories["technology"].ID
	lifeID := categories["life"].ID

	posts := []db.Post{
		{
			Title:       "用 Go 搭建个人博客",
			Slug:        "build-a-blog-with-go",
			Content:     "# 为什么选择 Go\n\nGo 的标准库和生态让一个人也能维护一整套博客系统。\n\n## 渲染流水线\n\nMarkdown 先渲染成 HTML，再经过白名单净化后入库展示。\n\n## 部署\n\n单个二进制加一个 SQLite 文件就能跑起来。",
			ContentType: db.ContentTypeMarkdown,
			Published:   true,
			Featured:    true,
			PublishedAt: &publishedAt,
			CategoryID:  &techID,
			Tags:        []db.Tag{tags["go"], tags["web开发"]},
		},
		{
			Title:       "周末的咖啡馆",
			Slug:        "weekend-coffee",
			Content:     "坐在窗边写了一下午字，阳光很好。\n\n记录生活本身就是一种整理。",
			ContentType: db.ContentTypeMarkdown,
			Published:   true,
			PublishedAt: &now,
			CategoryID:  &lifeID,
			Tags:        []db.Tag{tags["写作"]},
		},
		{
			Title:       "定时发布的草稿",
			Slug:        "scheduled-draft",
			Content:     "# 还没到发布时间\n\n这篇文章会在预定时间由定时任务自动发布。",
			ContentType: db.ContentTypeMarkdown,
			Published:   false,
			ScheduledAt: &scheduledAt,
			CategoryID:  &techID,
			Tags:        []db.Tag{tags["go"]},
		},
	}

	for i := range posts {
		posts[i].Excerpt = content.ExtractExcerpt(posts[i].Content, content.DefaultExcerptLength)
		db.DB.Create(&posts[i])
	}

	fmt.Println("✅ 演示文章创建完成")
}

// 创建站点设置
func createSiteSettings() {
	var count int64
	db.DB.Model(&db.SiteSetting{}).Count(&count)
	if count > 0 {
		fmt.Println("站点设置已存在，跳过创建")
		return
	}

	db.DB.Create(&db.SiteSetting{
		ID:              db.SiteSettingID,
		SiteName:        "Inkwell",
		SiteDescription: "分享技术与生活",
		SiteURL:         "http://localhost:8080",
	})

	fmt.Println("✅ 站点设置创建完成")
}
