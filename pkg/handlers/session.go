package handlers

import (
	"encoding/gob"

	"cms-console/pkg/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionTokenKey   = "authToken"
	sessionAdminKey   = "adminName"
	sessionNoticesKey = "notices"
)

func init() {
	gob.Register(models.Notice{})
}

func sessionToken(c *gin.Context) string {
	token, _ := sessions.Default(c).Get(sessionTokenKey).(string)
	return token
}

func sessionAdmin(c *gin.Context) string {
	name, _ := sessions.Default(c).Get(sessionAdminKey).(string)
	return name
}

func startSession(c *gin.Context, admin models.Admin) {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionTokenKey, admin.Token)
	session.Set(sessionAdminKey, admin.Username)
}

func clearSession(c *gin.Context) {
	sessions.Default(c).Clear()
}

func (h *Handler) saveSession(c *gin.Context) {
	if err := sessions.Default(c).Save(); err != nil {
		h.log(c).Error("save session", "error", err)
	}
}

// addNotice queues a notice for the next rendered page.
func addNotice(c *gin.Context, kind, title, text string) {
	sessions.Default(c).AddFlash(models.Notice{Kind: kind, Title: title, Text: text}, sessionNoticesKey)
}

// takeNotices returns and forgets the queued notices.
func takeNotices(c *gin.Context) []models.Notice {
	flashes := sessions.Default(c).Flashes(sessionNoticesKey)
	notices := make([]models.Notice, 0, len(flashes))
	for _, f := range flashes {
		if n, ok := f.(models.Notice); ok {
			notices = append(notices, n)
		}
	}
	return notices
}
