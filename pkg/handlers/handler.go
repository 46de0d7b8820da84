package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"cms-console/pkg/middleware"
	"cms-console/pkg/models"
	"cms-console/pkg/services"

	"github.com/gin-gonic/gin"
)

// Handler serves the console's pages and JSON API for the signed-in admin.
type Handler struct {
	client    *services.Client
	gw        *services.Gateway
	articles  *services.ArticleService
	questions *services.QuestionService
	dashboard *services.DashboardService
	registry  *models.ConsoleConfig
	perPage   int
	logger    *slog.Logger
	nav       []NavItem
}

// NavItem is one link in the page header.
type NavItem struct {
	Label string
	URL   string
}

// Detail is one label/value row on a confirmation page.
type Detail struct {
	Label string
	Value string
}

func New(client *services.Client, registry *models.ConsoleConfig, perPage int, logger *slog.Logger) *Handler {
	gw := services.NewGateway(client, registry)
	h := &Handler{
		client:    client,
		gw:        gw,
		articles:  services.NewArticleService(gw),
		questions: services.NewQuestionService(gw),
		dashboard: services.NewDashboardService(gw, logger),
		registry:  registry,
		perPage:   perPage,
		logger:    logger,
	}
	for _, res := range registry.Resources {
		if res.Supports(models.OpList) {
			h.nav = append(h.nav, NavItem{Label: res.DisplayLabel(), URL: "/admin/" + res.Name})
		}
	}
	return h
}

// Register mounts every console route on r.
func (h *Handler) Register(r *gin.Engine) {
	health := NewHealthHandler(h.client)
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/live", health.Live)

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/admin/dashboard") })
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	r.POST("/logout", h.Logout)
	r.GET("/auth/session", h.AuthRequired, h.SessionInfo)

	admin := r.Group("/admin", h.AuthRequired)
	{
		admin.GET("", func(c *gin.Context) { c.Redirect(http.StatusFound, "/admin/dashboard") })
		admin.GET("/dashboard", h.Dashboard)

		admin.GET("/articles", h.ArticleList)
		admin.POST("/articles", h.ArticleCreate)
		admin.GET("/articles/new", h.ArticleNew)
		admin.GET("/articles/:id", h.ArticleDetail)
		admin.GET("/articles/:id/edit", h.ArticleEdit)
		admin.POST("/articles/:id/edit", h.ArticleUpdate)
		admin.GET("/articles/:id/delete", h.ArticleDeleteConfirm)
		admin.POST("/articles/:id/delete", h.ArticleDelete)
		admin.GET("/articles/:id/export", h.ArticleExport)

		admin.GET("/publications", h.PublicationList)
		admin.GET("/publications/new", h.PublicationNew)

		admin.GET("/questions", h.QuestionList)
		admin.POST("/questions", h.QuestionCreate)
		admin.GET("/questions/new", h.QuestionNew)
		admin.GET("/questions/export", h.QuestionExport)
		admin.GET("/questions/:id", h.QuestionDetail)
		admin.GET("/questions/:id/edit", h.QuestionEdit)
		admin.POST("/questions/:id/edit", h.QuestionUpdate)
		admin.GET("/questions/:id/active", h.QuestionActiveConfirm)
		admin.POST("/questions/:id/active", h.QuestionSetActive)
		admin.GET("/questions/:id/delete", h.QuestionDeleteConfirm)
		admin.POST("/questions/:id/delete", h.QuestionDelete)
		admin.GET("/answers/:id/delete", h.AnswerDeleteConfirm)
		admin.POST("/answers/:id/delete", h.AnswerDelete)

		for _, res := range h.registry.Resources {
			if !isRecordResource(res.Name) {
				continue
			}
			h.registerRecords(admin, res)
		}
	}

	api := r.Group("/api", h.AuthRequired)
	{
		api.GET("/:resource", h.APIList)
		api.POST("/:resource", h.APICreate)
		api.GET("/:resource/:id", h.APIGet)
		api.PUT("/:resource/:id", h.APIUpdate)
		api.DELETE("/:resource/:id", h.APIDelete)
		api.PUT("/:resource/:id/active", h.APISetActive)
	}
}

func (h *Handler) log(c *gin.Context) *slog.Logger {
	return h.logger.With(slog.String("request_id", middleware.GetRequestID(c)))
}

// render fills the layout data and writes page name.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Admin"] = sessionAdmin(c)
	data["Nav"] = h.nav
	data["Notices"] = takeNotices(c)
	h.saveSession(c)
	c.HTML(status, name, data)
}

func (h *Handler) redirect(c *gin.Context, location string) {
	h.saveSession(c)
	c.Redirect(http.StatusFound, location)
}

// expire drops a session the backend no longer accepts.
func (h *Handler) expire(c *gin.Context) {
	clearSession(c)
	addNotice(c, models.NoticeWarning, "Session expired", "Please sign in again.")
	h.redirect(c, "/login")
}

// pageError renders a failed page load. A rejected token ends the session.
func (h *Handler) pageError(c *gin.Context, err error, action, backURL string) {
	if services.IsUnauthorized(err) {
		h.expire(c)
		return
	}
	if services.IsNotFound(err) {
		h.render(c, http.StatusNotFound, "error.html", gin.H{
			"Title":   "Not found",
			"Message": "The requested item does not exist.",
			"BackURL": backURL,
		})
		return
	}
	h.log(c).Error("backend call failed", "action", action, "error", err)
	h.render(c, http.StatusBadGateway, "error.html", gin.H{
		"Title":   "Something went wrong",
		"Message": fmt.Sprintf("Failed to %s. %s", action, failureText(err)),
		"BackURL": backURL,
	})
}

// failNotice queues an error notice for a failed mutation. It returns false
// when the backend rejected the token and the session was expired instead,
// in which case the response has already been written.
func (h *Handler) failNotice(c *gin.Context, err error, title string) bool {
	if services.IsUnauthorized(err) {
		h.expire(c)
		return false
	}
	h.log(c).Error(title, "error", err)
	addNotice(c, models.NoticeError, title, failureText(err))
	return true
}

func failureText(err error) string {
	if status := services.StatusOf(err); status > 0 {
		return fmt.Sprintf("Request failed with status %d.", status)
	}
	return "The backend could not be reached."
}

func isRecordResource(name string) bool {
	switch name {
	case services.ResourceArticles, services.ResourcePublications, services.ResourceQuestions, services.ResourceAnswers:
		return false
	}
	return true
}
