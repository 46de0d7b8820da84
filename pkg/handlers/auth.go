package handlers

import (
	"errors"
	"net/http"
	"strings"

	"cms-console/pkg/models"
	"cms-console/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type loginForm struct {
	Identifier string `form:"identifier" binding:"required,email"`
	Password   string `form:"password" binding:"required"`
}

var loginLabels = map[string]string{
	"Identifier": "Email",
	"Password":   "Password",
}

// AuthRequired lets requests through only when the session holds a token.
func (h *Handler) AuthRequired(c *gin.Context) {
	if sessionToken(c) == "" {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		} else {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		}
		return
	}
	c.Next()
}

func (h *Handler) LoginPage(c *gin.Context) {
	if sessionToken(c) != "" {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Sign in", "Identifier": ""})
}

func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusUnprocessableEntity, "login.html", gin.H{
			"Title":      "Sign in",
			"Identifier": form.Identifier,
			"Errors":     bindingErrors(err),
		})
		return
	}

	admin, err := h.client.Login(c.Request.Context(), form.Identifier, form.Password)
	if err != nil {
		h.log(c).Warn("login failed", "error", err)
		text := "Check your credentials and try again."
		if services.StatusOf(err) == 0 && !errors.Is(err, services.ErrInvalidLogin) {
			text = failureText(err)
		}
		addNotice(c, models.NoticeError, "Login failed", text)
		h.render(c, http.StatusUnauthorized, "login.html", gin.H{
			"Title":      "Sign in",
			"Identifier": form.Identifier,
		})
		return
	}

	startSession(c, admin)
	addNotice(c, models.NoticeSuccess, "Welcome back", admin.Username)
	h.log(c).Info("admin signed in", "admin", admin.Username)
	h.redirect(c, "/admin/dashboard")
}

func (h *Handler) Logout(c *gin.Context) {
	clearSession(c)
	addNotice(c, models.NoticeInfo, "Signed out", "")
	h.redirect(c, "/login")
}

// SessionInfo reports who is signed in. The token itself is never exposed.
func (h *Handler) SessionInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"adminName":     sessionAdmin(c),
	})
}

func bindingErrors(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string]string{"form": "Invalid form submission."}
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		label := loginLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = label + " is required."
		case "email":
			out[fe.Field()] = label + " must be a valid email address."
		default:
			out[fe.Field()] = label + " is invalid."
		}
	}
	return out
}
