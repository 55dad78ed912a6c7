package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
	"golang.org/x/crypto/bcrypt"
)

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "管理员登录",
	})
}

// Login 处理用户登录请求
func (a *API) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	var user db.User
	if err := a.db.Where("username = ?", username).First(&user).Error; err != nil {
		c.HTML(http.StatusUnauthorized, "login_error.html", gin.H{"error": "用户名或密码错误"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		c.HTML(http.StatusUnauthorized, "login_error.html", gin.H{"error": "用户名或密码错误"})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		c.HTML(http.StatusInternalServerError, "login_error.html", gin.H{"error": "会话保存失败"})
		return
	}

	c.Redirect(http.StatusFound, "/admin/dashboard")
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/admin/login")
}

// AuthRequired 是一个简单的认证中间件
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")
		if userID == nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ShowDashboard 渲染后台主面板
func (a *API) ShowDashboard(c *gin.Context) {
	session := sessions.Default(c)
	username := session.Get("username")

	var postCount, categoryCount, tagCount int64
	a.db.Model(&db.Post{}).Count(&postCount)
	a.db.Model(&db.Category{}).Count(&categoryCount)
	a.db.Model(&db.Tag{}).Count(&tagCount)

	pendingComments, err := a.comments.PendingCount()
	if err != nil {
		c.Error(err)
	}
	approvedComments, err := a.comments.ApprovedCount()
	if err != nil {
		c.Error(err)
	}
	totalViews, err := a.posts.TotalViews()
	if err != nil {
		c.Error(err)
	}
	topPosts, err := a.posts.TopByViews(10)
	if err != nil {
		c.Error(err)
	}

	a.renderHTML(c, http.StatusOK, "dashboard.html", gin.H{
		"title":            "管理面板",
		"username":         username,
		"postCount":        postCount,
		"categoryCount":    categoryCount,
		"tagCount":         tagCount,
		"pendingComments":  pendingComments,
		"approvedComments": approvedComments,
		"totalViews":       totalViews,
		"topPosts":         topPosts,
	})
}

// ShowPostList 渲染后台文章列表页
func (a *API) ShowPostList(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "post_list.html", gin.H{"title": "文章管理"})
}

// ShowPostEdit 渲染文章编辑页，新建与编辑共用
func (a *API) ShowPostEdit(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "post_edit.html", gin.H{
		"title": "编辑文章",
		"id":    c.Param("id"),
	})
}

// ShowCategoryList 渲染分类管理页
func (a *API) ShowCategoryList(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "category_list.html", gin.H{"title": "分类管理"})
}

// ShowTagList 渲染标签管理页
func (a *API) ShowTagList(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "tag_list.html", gin.H{"title": "标签管理"})
}

// ShowCommentList 渲染评论审核页
func (a *API) ShowCommentList(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "comment_list.html", gin.H{"title": "评论审核"})
}

// ShowSettingsPage 渲染站点设置页
func (a *API) ShowSettingsPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "settings.html", gin.H{"title": "站点设置"})
}
