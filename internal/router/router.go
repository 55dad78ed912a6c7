package router

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("inkwell_session", store))

	// 加载模板并添加自定义函数
	r.SetFuncMap(handler.TemplateFuncs())
	r.LoadHTMLGlob("web/template/**/*.html")

	// 静态文件服务
	r.Static("/static", "./web/static")
	// 上传目录默认就在 /static 下，只有放到别处时才需要单独挂载
	if !strings.HasPrefix(cfg.UploadURLPath, "/static/") {
		r.Static(cfg.UploadURLPath, cfg.UploadDir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 公开页面
	r.GET("/", api.ShowHome)
	r.GET("/posts", api.ShowPosts)
	r.GET("/posts/:slug", api.ShowPost)
	r.GET("/categories", api.ShowCategories)
	r.GET("/categories/:slug", api.ShowCategory)
	r.GET("/tags", api.ShowTags)
	r.GET("/tags/:slug", api.ShowTag)
	r.GET("/search", api.ShowSearch)
	r.GET("/about", api.ShowAbout)

	// 订阅与搜索引擎
	r.GET("/feed.xml", api.Feed)
	r.GET("/sitemap.xml", api.Sitemap)
	r.GET("/robots.txt", api.Robots)

	// 公开接口
	publicAPI := r.Group("/api")
	{
		publicAPI.POST("/views/:slug", api.RecordView)
		publicAPI.GET("/comments", api.GetComments)
		publicAPI.POST("/comments", api.SubmitComment)
		// 外部调度器有的只会发 GET，两种方法都接受
		publicAPI.GET("/cron/publish-scheduled", api.PublishScheduled)
		publicAPI.POST("/cron/publish-scheduled", api.PublishScheduled)
	}

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.GET("/login", api.ShowLoginPage)
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/dashboard", api.ShowDashboard)
			auth.GET("/posts", api.ShowPostList)
			auth.GET("/posts/new", api.ShowPostEdit)
			auth.GET("/posts/:id/edit", api.ShowPostEdit)
			auth.GET("/categories", api.ShowCategoryList)
			auth.GET("/tags", api.ShowTagList)
			auth.GET("/comments", api.ShowCommentList)
			auth.GET("/settings", api.ShowSettingsPage)

			// API路由
			adminAPI := auth.Group("/api")
			{
				adminAPI.GET("/posts", api.GetPosts)
				adminAPI.GET("/posts/:id", api.GetPost)
				adminAPI.POST("/posts", api.CreatePost)
				adminAPI.PUT("/posts/:id", api.UpdatePost)
				adminAPI.DELETE("/posts/:id", api.DeletePost)
				adminAPI.POST("/posts/:id/publish", api.TogglePublish)
				adminAPI.POST("/posts/:id/schedule", api.SchedulePost)
				adminAPI.POST("/posts/:id/preview-token", api.CreatePreviewToken)

				adminAPI.GET("/categories", api.GetCategories)
				adminAPI.POST("/categories", api.CreateCategory)
				adminAPI.PUT("/categories/:id", api.UpdateCategory)
				adminAPI.DELETE("/categories/:id", api.DeleteCategory)

				adminAPI.GET("/tags", api.GetTags)
				adminAPI.POST("/tags", api.CreateTag)
				adminAPI.PUT("/tags/:id", api.UpdateTag)
				adminAPI.DELETE("/tags/:id", api.DeleteTag)

				adminAPI.GET("/comments", api.ListComments)
				adminAPI.POST("/comments/:id/moderate", api.ModerateComment)
				adminAPI.DELETE("/comments/:id", api.DeleteComment)

				adminAPI.GET("/settings", api.GetSettings)
				adminAPI.PUT("/settings", api.UpdateSettings)

				adminAPI.POST("/upload", api.UploadImage)

				adminAPI.POST("/ai/rewrite", api.RewriteContent)
				adminAPI.POST("/ai/metadata", api.GenerateMetadata)
				adminAPI.POST("/ai/cover", api.GenerateCoverImage)
				adminAPI.POST("/ai/save-image", api.SaveAIImage)
			}
		}
	}

	return r
}
