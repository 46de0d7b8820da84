package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Dashboard(c *gin.Context) {
	tiles, err := h.dashboard.Tiles(c.Request.Context(), sessionToken(c), h.registry.Resources)
	if err != nil {
		h.pageError(c, err, "load the dashboard", "/admin/dashboard")
		return
	}
	h.render(c, http.StatusOK, "dashboard.html", gin.H{
		"Title": "Dashboard",
		"Tiles": tiles,
	})
}
