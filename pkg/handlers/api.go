package handlers

import (
	"errors"
	"net/http"

	"cms-console/pkg/models"
	"cms-console/pkg/services"

	"github.com/gin-gonic/gin"
)

type activeRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *Handler) APIList(c *gin.Context) {
	env, err := h.gw.List(c.Request.Context(), sessionToken(c), c.Param("resource"))
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": env.Data})
}

func (h *Handler) APIGet(c *gin.Context) {
	env, err := h.gw.Get(c.Request.Context(), sessionToken(c), c.Param("resource"), models.ID(c.Param("id")))
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": env.Data})
}

// APICreate validates articles and questions the same way their screens do
// before anything reaches the backend. Other resources pass through.
func (h *Handler) APICreate(c *gin.Context) {
	ctx, token := c.Request.Context(), sessionToken(c)
	var (
		env *services.Envelope
		err error
	)
	switch resource := c.Param("resource"); resource {
	case services.ResourceArticles, services.ResourcePublications:
		form, bindErr := articleFormFrom(c)
		if bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if resource == services.ResourcePublications {
			form.Type = models.TypePublication
		}
		env, err = h.articles.Create(ctx, token, form)
	case services.ResourceQuestions:
		var form services.QuestionForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		env, err = h.questions.Create(ctx, token, form)
	default:
		payload, bindErr := requestPayload(c)
		if bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		env, err = h.gw.Create(ctx, token, resource, payload)
	}
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": env.Data, "message": env.Text()})
}

func (h *Handler) APIUpdate(c *gin.Context) {
	ctx, token := c.Request.Context(), sessionToken(c)
	id := models.ID(c.Param("id"))
	var (
		env *services.Envelope
		err error
	)
	switch resource := c.Param("resource"); resource {
	case services.ResourceArticles, services.ResourcePublications:
		var form services.ArticleUpdate
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		env, err = h.articles.Update(ctx, token, id, form)
	case services.ResourceQuestions:
		var form services.QuestionForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		env, err = h.questions.Update(ctx, token, id, form)
	default:
		payload, bindErr := requestPayload(c)
		if bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		env, err = h.gw.Update(ctx, token, resource, id, payload)
	}
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": env.Data, "message": env.Text()})
}

func (h *Handler) APIDelete(c *gin.Context) {
	if _, err := h.gw.Remove(c.Request.Context(), sessionToken(c), c.Param("resource"), models.ID(c.Param("id"))); err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// APISetActive toggles a question. The response always carries the
// questions as they stand after the attempt.
func (h *Handler) APISetActive(c *gin.Context) {
	if c.Param("resource") != services.ResourceQuestions {
		c.JSON(http.StatusNotFound, gin.H{"error": "Only questions can be activated"})
		return
	}
	var req activeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body must be {\"active\": true|false}"})
		return
	}

	ctx, token := c.Request.Context(), sessionToken(c)
	questions, err := h.questions.List(ctx, token)
	if err != nil {
		h.apiError(c, err)
		return
	}
	updated, err := h.questions.SetActive(ctx, token, questions, models.ID(c.Param("id")), *req.Active)
	if err != nil {
		if services.IsUnauthorized(err) {
			h.apiError(c, err)
			return
		}
		h.log(c).Error("set question active", "error", err)
		c.JSON(apiStatus(err), gin.H{"error": err.Error(), "data": updated})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func (h *Handler) apiError(c *gin.Context, err error) {
	if fields, _ := services.FieldErrors(err); fields != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "fields": fields})
		return
	}
	switch {
	case errors.Is(err, services.ErrUnknownResource):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrUnsupportedOperation):
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": err.Error()})
	case services.IsUnauthorized(err):
		clearSession(c)
		h.saveSession(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	default:
		h.log(c).Error("backend call failed", "error", err)
		c.JSON(apiStatus(err), gin.H{"error": err.Error(), "status": services.StatusOf(err)})
	}
}

// apiStatus passes backend client errors through and reports everything
// else as a bad gateway.
func apiStatus(err error) int {
	if status := services.StatusOf(err); status >= 400 && status < 500 {
		return status
	}
	return http.StatusBadGateway
}
