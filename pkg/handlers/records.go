package handlers

import (
	"fmt"
	"net/http"

	"cms-console/pkg/models"
	"cms-console/pkg/services"

	"github.com/gin-gonic/gin"
)

// registerRecords mounts the generic screens for a registry resource, one
// route per operation the resource supports.
func (h *Handler) registerRecords(g *gin.RouterGroup, res models.Resource) {
	base := "/" + res.Name
	if res.Supports(models.OpList) {
		g.GET(base, h.recordList(res))
	}
	if res.Supports(models.OpGet) {
		g.GET(base+"/:id", h.recordDetail(res))
	}
	if res.Supports(models.OpDelete) {
		g.GET(base+"/:id/delete", h.recordDeleteConfirm(res))
		g.POST(base+"/:id/delete", h.recordDelete(res))
	}
}

func (h *Handler) recordList(res models.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := h.gw.ListRecords(c.Request.Context(), sessionToken(c), res.Name)
		if err != nil {
			h.pageError(c, err, "load "+res.DisplayLabel(), "/admin/dashboard")
			return
		}
		h.renderRecords(c, http.StatusOK, res, records)
	}
}

func (h *Handler) renderRecords(c *gin.Context, status int, res models.Resource, records []models.Record) {
	h.render(c, status, "records.html", gin.H{
		"Title":     res.DisplayLabel(),
		"BaseURL":   "/admin/" + res.Name,
		"Fields":    res.Fields,
		"Records":   records,
		"CanGet":    res.Supports(models.OpGet),
		"CanDelete": res.Supports(models.OpDelete),
	})
}

func (h *Handler) recordDetail(res models.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := h.gw.GetRecord(c.Request.Context(), sessionToken(c), res.Name, models.ID(c.Param("id")))
		if err != nil {
			h.pageError(c, err, "load the record", "/admin/"+res.Name)
			return
		}
		h.render(c, http.StatusOK, "record_detail.html", gin.H{
			"Title":     res.DisplayLabel(),
			"BaseURL":   "/admin/" + res.Name,
			"Record":    record,
			"CanDelete": res.Supports(models.OpDelete),
		})
	}
}

func (h *Handler) recordDeleteConfirm(res models.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := models.ID(c.Param("id"))
		details := []Detail{{Label: "ID", Value: id.String()}}
		if res.Supports(models.OpGet) {
			record, err := h.gw.GetRecord(c.Request.Context(), sessionToken(c), res.Name, id)
			if err != nil {
				h.pageError(c, err, "load the record", "/admin/"+res.Name)
				return
			}
			for _, f := range res.Fields {
				details = append(details, Detail{Label: f.Label, Value: record.Field(f.Name)})
			}
		}
		h.render(c, http.StatusOK, "confirm.html", gin.H{
			"Title":        fmt.Sprintf("Delete from %s?", res.DisplayLabel()),
			"Message":      "This cannot be undone.",
			"Details":      details,
			"Action":       fmt.Sprintf("/admin/%s/%s/delete", res.Name, id),
			"ConfirmLabel": "Delete",
			"CancelURL":    "/admin/" + res.Name,
		})
	}
}

func (h *Handler) recordDelete(res models.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := models.ID(c.Param("id"))
		if c.PostForm("confirmed") != "1" {
			h.redirect(c, fmt.Sprintf("/admin/%s/%s/delete", res.Name, id))
			return
		}

		ctx, token := c.Request.Context(), sessionToken(c)
		records, err := h.gw.ListRecords(ctx, token, res.Name)
		if err != nil {
			h.pageError(c, err, "load "+res.DisplayLabel(), "/admin/"+res.Name)
			return
		}
		remaining, err := services.RemoveAfter(records, id, func() error {
			_, err := h.gw.Remove(ctx, token, res.Name, id)
			return err
		})
		if err != nil {
			if h.failNotice(c, err, "Failed to delete") {
				h.renderRecords(c, http.StatusBadGateway, res, remaining)
			}
			return
		}
		addNotice(c, models.NoticeSuccess, "Deleted", "")
		h.renderRecords(c, http.StatusOK, res, remaining)
	}
}
