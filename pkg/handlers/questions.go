package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"cms-console/pkg/models"
	"cms-console/pkg/services"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) QuestionList(c *gin.Context) {
	questions, err := h.questions.List(c.Request.Context(), sessionToken(c))
	if err != nil {
		h.pageError(c, err, "load questions", "/admin/dashboard")
		return
	}
	h.renderQuestions(c, http.StatusOK, questions)
}

func (h *Handler) renderQuestions(c *gin.Context, status int, questions []models.Question) {
	h.render(c, status, "questions.html", gin.H{
		"Title":     "Questions",
		"Questions": questions,
		"Stats":     services.CountQuestions(questions),
	})
}

func (h *Handler) QuestionDetail(c *gin.Context) {
	q, err := h.questions.Get(c.Request.Context(), sessionToken(c), models.ID(c.Param("id")))
	if err != nil {
		h.pageError(c, err, "load the question", "/admin/questions")
		return
	}
	h.renderQuestion(c, http.StatusOK, q)
}

func (h *Handler) renderQuestion(c *gin.Context, status int, q *models.Question) {
	h.render(c, status, "question_detail.html", gin.H{
		"Title":    "Question",
		"Question": q,
	})
}

func (h *Handler) QuestionNew(c *gin.Context) {
	h.renderQuestionForm(c, http.StatusOK, "New question", "/admin/questions", services.QuestionForm{}, nil)
}

func (h *Handler) renderQuestionForm(c *gin.Context, status int, title, action string, form services.QuestionForm, errs map[string]string) {
	h.render(c, status, "question_form.html", gin.H{
		"Title":  title,
		"Action": action,
		"Form":   form,
		"Errors": errs,
	})
}

func (h *Handler) QuestionCreate(c *gin.Context) {
	form := services.QuestionForm{Question: c.PostForm("question")}
	if _, err := h.questions.Create(c.Request.Context(), sessionToken(c), form); err != nil {
		if fields, _ := services.FieldErrors(err); fields != nil {
			h.renderQuestionForm(c, http.StatusUnprocessableEntity, "New question", "/admin/questions", form, fields)
			return
		}
		if h.failNotice(c, err, "Failed to create question") {
			h.renderQuestionForm(c, http.StatusBadGateway, "New question", "/admin/questions", form, nil)
		}
		return
	}
	addNotice(c, models.NoticeSuccess, "Question created", "")
	h.redirect(c, "/admin/questions")
}

func (h *Handler) QuestionEdit(c *gin.Context) {
	id := models.ID(c.Param("id"))
	q, err := h.questions.Get(c.Request.Context(), sessionToken(c), id)
	if err != nil {
		h.pageError(c, err, "load the question", "/admin/questions")
		return
	}
	action := fmt.Sprintf("/admin/questions/%s/edit", id)
	h.renderQuestionForm(c, http.StatusOK, "Edit question", action, services.QuestionForm{Question: q.Question}, nil)
}

func (h *Handler) QuestionUpdate(c *gin.Context) {
	id := models.ID(c.Param("id"))
	action := fmt.Sprintf("/admin/questions/%s/edit", id)
	form := services.QuestionForm{Question: c.PostForm("question")}
	if _, err := h.questions.Update(c.Request.Context(), sessionToken(c), id, form); err != nil {
		if fields, _ := services.FieldErrors(err); fields != nil {
			h.renderQuestionForm(c, http.StatusUnprocessableEntity, "Edit question", action, form, fields)
			return
		}
		if h.failNotice(c, err, "Failed to update question") {
			h.renderQuestionForm(c, http.StatusBadGateway, "Edit question", action, form, nil)
		}
		return
	}
	addNotice(c, models.NoticeSuccess, "Question updated", "")
	h.redirect(c, fmt.Sprintf("/admin/questions/%s", id))
}

func (h *Handler) QuestionActiveConfirm(c *gin.Context) {
	id := models.ID(c.Param("id"))
	active := c.DefaultQuery("active", "true") == "true"
	q, err := h.questions.Get(c.Request.Context(), sessionToken(c), id)
	if err != nil {
		h.pageError(c, err, "load the question", "/admin/questions")
		return
	}

	title, message, label := "Deactivate question?", "The question will no longer be shown.", "Deactivate"
	if active {
		title, message, label = "Activate question?", "Every other active question will be deactivated.", "Activate"
	}
	h.render(c, http.StatusOK, "confirm.html", gin.H{
		"Title":        title,
		"Message":      message,
		"Details":      []Detail{{Label: "Question", Value: q.Question}},
		"Action":       fmt.Sprintf("/admin/questions/%s/active", id),
		"Hidden":       map[string]string{"active": fmt.Sprint(active)},
		"ConfirmLabel": label,
		"CancelURL":    "/admin/questions",
	})
}

// QuestionSetActive applies the single-active rule and renders the list as
// it stands afterwards, including after a partial failure.
func (h *Handler) QuestionSetActive(c *gin.Context) {
	id := models.ID(c.Param("id"))
	active := c.PostForm("active") == "true"
	if c.PostForm("confirmed") != "1" {
		h.redirect(c, fmt.Sprintf("/admin/questions/%s/active?active=%t", id, active))
		return
	}
	token := sessionToken(c)

	questions, err := h.questions.List(c.Request.Context(), token)
	if err != nil {
		h.pageError(c, err, "load questions", "/admin/questions")
		return
	}

	updated, err := h.questions.SetActive(c.Request.Context(), token, questions, id, active)
	if err != nil {
		if h.failNotice(c, err, "Failed to change question status") {
			h.renderQuestions(c, http.StatusBadGateway, updated)
		}
		return
	}
	if active {
		addNotice(c, models.NoticeSuccess, "Question activated", "")
	} else {
		addNotice(c, models.NoticeSuccess, "Question deactivated", "")
	}
	h.renderQuestions(c, http.StatusOK, updated)
}

func (h *Handler) QuestionDeleteConfirm(c *gin.Context) {
	id := models.ID(c.Param("id"))
	q, err := h.questions.Get(c.Request.Context(), sessionToken(c), id)
	if err != nil {
		h.pageError(c, err, "load the question", "/admin/questions")
		return
	}
	h.render(c, http.StatusOK, "confirm.html", gin.H{
		"Title":   "Delete question?",
		"Message": "The question and its answers will be removed.",
		"Details": []Detail{
			{Label: "Question", Value: q.Question},
			{Label: "Answers", Value: fmt.Sprint(len(q.Answers))},
		},
		"Action":       fmt.Sprintf("/admin/questions/%s/delete", id),
		"ConfirmLabel": "Delete",
		"CancelURL":    "/admin/questions",
	})
}

func (h *Handler) QuestionDelete(c *gin.Context) {
	id := models.ID(c.Param("id"))
	if c.PostForm("confirmed") != "1" {
		h.redirect(c, fmt.Sprintf("/admin/questions/%s/delete", id))
		return
	}

	token := sessionToken(c)
	questions, err := h.questions.List(c.Request.Context(), token)
	if err != nil {
		h.pageError(c, err, "load questions", "/admin/questions")
		return
	}
	remaining, err := h.questions.DeleteFrom(c.Request.Context(), token, questions, id)
	if err != nil {
		if h.failNotice(c, err, "Failed to delete question") {
			h.renderQuestions(c, http.StatusBadGateway, remaining)
		}
		return
	}
	addNotice(c, models.NoticeSuccess, "Question deleted", "")
	h.renderQuestions(c, http.StatusOK, remaining)
}

// AnswerDeleteConfirm asks before an answer is removed. The owning question
// travels in the query so the POST can re-render it.
func (h *Handler) AnswerDeleteConfirm(c *gin.Context) {
	answerID := models.ID(c.Param("id"))
	questionID := models.ID(c.Query("question_id"))
	if questionID == "" {
		h.missingQuestion(c)
		return
	}
	q, err := h.questions.Get(c.Request.Context(), sessionToken(c), questionID)
	if err != nil {
		h.pageError(c, err, "load the question", "/admin/questions")
		return
	}
	backURL := fmt.Sprintf("/admin/questions/%s", questionID)
	answer, ok := q.FindAnswer(answerID)
	if !ok {
		h.render(c, http.StatusNotFound, "error.html", gin.H{
			"Title":   "Not found",
			"Message": "The answer does not exist.",
			"BackURL": backURL,
		})
		return
	}
	h.render(c, http.StatusOK, "confirm.html", gin.H{
		"Title":   "Delete answer?",
		"Message": "This answer will be deleted permanently.",
		"Details": []Detail{
			{Label: "Question", Value: q.Question},
			{Label: "Answer", Value: answer.Answer},
		},
		"Action":       fmt.Sprintf("/admin/answers/%s/delete", answerID),
		"Hidden":       map[string]string{"question_id": questionID.String()},
		"ConfirmLabel": "Delete",
		"CancelURL":    backURL,
	})
}

// AnswerDelete removes one answer and renders its question without it.
func (h *Handler) AnswerDelete(c *gin.Context) {
	answerID := models.ID(c.Param("id"))
	questionID := models.ID(c.PostForm("question_id"))
	if questionID == "" {
		h.missingQuestion(c)
		return
	}
	if c.PostForm("confirmed") != "1" {
		h.redirect(c, fmt.Sprintf("/admin/answers/%s/delete?question_id=%s", answerID, url.QueryEscape(questionID.String())))
		return
	}
	token := sessionToken(c)

	q, err := h.questions.Get(c.Request.Context(), token, questionID)
	if err != nil {
		h.pageError(c, err, "load the question", "/admin/questions")
		return
	}
	if err := h.questions.DeleteAnswer(c.Request.Context(), token, q, answerID); err != nil {
		if h.failNotice(c, err, "Failed to delete answer") {
			h.renderQuestion(c, http.StatusBadGateway, q)
		}
		return
	}
	addNotice(c, models.NoticeSuccess, "Answer deleted", "")
	h.renderQuestion(c, http.StatusOK, q)
}

func (h *Handler) missingQuestion(c *gin.Context) {
	h.render(c, http.StatusBadRequest, "error.html", gin.H{
		"Title":   "Missing question",
		"Message": "The answer's question was not given.",
		"BackURL": "/admin/questions",
	})
}

// QuestionExport downloads every question with its answers as a workbook.
func (h *Handler) QuestionExport(c *gin.Context) {
	questions, err := h.questions.List(c.Request.Context(), sessionToken(c))
	if err != nil {
		h.pageError(c, err, "load questions", "/admin/questions")
		return
	}

	var buf bytes.Buffer
	if err := services.WriteQuestionsWorkbook(&buf, questions); err != nil {
		h.log(c).Error("export questions", "error", err)
		h.render(c, http.StatusInternalServerError, "error.html", gin.H{
			"Title":   "Export failed",
			"Message": "The workbook could not be generated.",
			"BackURL": "/admin/questions",
		})
		return
	}

	filename := services.QuestionsExportFilename(time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
