package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"cms-console/pkg/models"
	"cms-console/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const createdAtLayout = "Jan 2, 2006 3:04 PM"

var exportTypes = map[string]string{
	"yaml": "text/markdown; charset=utf-8",
	"toml": "text/markdown; charset=utf-8",
	"json": "application/json",
}

func (h *Handler) ArticleList(c *gin.Context) {
	h.listArticles(c, services.ResourceArticles)
}

func (h *Handler) PublicationList(c *gin.Context) {
	h.listArticles(c, services.ResourcePublications)
}

func (h *Handler) listArticles(c *gin.Context, resource string) {
	token := sessionToken(c)
	var (
		items []models.Article
		err   error
	)
	if resource == services.ResourcePublications {
		items, err = h.articles.ListPublications(c.Request.Context(), token)
	} else {
		items, err = h.articles.List(c.Request.Context(), token)
	}
	if err != nil {
		h.pageError(c, err, "load "+resource, "/admin/dashboard")
		return
	}
	h.renderArticles(c, http.StatusOK, resource, items)
}

func (h *Handler) renderArticles(c *gin.Context, status int, resource string, items []models.Article) {
	query := c.Query("q")
	order := c.DefaultQuery("sort", services.SortDefault)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	filtered := services.SortArticles(services.FilterArticles(items, query), order)

	title := resource
	if res, err := h.gw.Resource(resource); err == nil {
		title = res.DisplayLabel()
	}
	h.render(c, status, "articles.html", gin.H{
		"Title":   title,
		"BaseURL": "/admin/" + resource,
		"NewURL":  "/admin/" + resource + "/new",
		"Query":   query,
		"Sort":    order,
		"Page":    services.Paginate(filtered, page, h.perPage),
	})
}

func (h *Handler) ArticleDetail(c *gin.Context) {
	article, err := h.articles.Get(c.Request.Context(), sessionToken(c), models.ID(c.Param("id")))
	if err != nil {
		h.pageError(c, err, "load the article", "/admin/articles")
		return
	}
	h.render(c, http.StatusOK, "article_detail.html", gin.H{
		"Title":   article.Title,
		"Article": article,
	})
}

func (h *Handler) ArticleNew(c *gin.Context) {
	h.renderArticleForm(c, http.StatusOK, services.ArticleForm{}, false, nil)
}

// PublicationNew is the new-article form with the type fixed to publication.
func (h *Handler) PublicationNew(c *gin.Context) {
	h.renderArticleForm(c, http.StatusOK, services.ArticleForm{Type: models.TypePublication}, true, nil)
}

func (h *Handler) renderArticleForm(c *gin.Context, status int, form services.ArticleForm, lockType bool, errs map[string]string) {
	title, cancel := "New article", "/admin/articles"
	if lockType {
		title, cancel = "New publication", "/admin/publications"
	}
	h.render(c, status, "article_form.html", gin.H{
		"Title":     title,
		"Form":      form,
		"LockType":  lockType,
		"CancelURL": cancel,
		"Errors":    errs,
	})
}

// articleRequest is the JSON shape of a new article. Images can only be
// uploaded as multipart.
type articleRequest struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Body         string `json:"body"`
	Type         string `json:"type"`
	LinkDownload string `json:"linkDownload"`
	PublishedOn  string `json:"createdAt"`
}

// articleFormFrom reads a new article from a JSON body or a form post,
// keeping any uploaded images and thumbnail.
func articleFormFrom(c *gin.Context) (services.ArticleForm, error) {
	if c.ContentType() == binding.MIMEJSON {
		var req articleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return services.ArticleForm{}, err
		}
		return services.ArticleForm{
			Title:        req.Title,
			Subtitle:     req.Subtitle,
			Body:         req.Body,
			Type:         req.Type,
			LinkDownload: req.LinkDownload,
			PublishedOn:  req.PublishedOn,
		}, nil
	}

	form := services.ArticleForm{
		Title:        c.PostForm("title"),
		Subtitle:     c.PostForm("subtitle"),
		Body:         c.PostForm("body"),
		Type:         c.PostForm("type"),
		LinkDownload: c.PostForm("linkDownload"),
		PublishedOn:  c.PostForm("createdAt"),
	}
	if mf, err := c.MultipartForm(); err == nil {
		form.Images = fileFields("image", mf.File["image"])
		if thumbs := fileFields("thumbnail", mf.File["thumbnail"]); len(thumbs) > 0 {
			form.Thumbnail = &thumbs[0]
		}
	}
	return form, nil
}

func (h *Handler) ArticleCreate(c *gin.Context) {
	lockType := c.PostForm("origin") == services.ResourcePublications
	form, _ := articleFormFrom(c)
	if lockType {
		form.Type = models.TypePublication
	}

	env, err := h.articles.Create(c.Request.Context(), sessionToken(c), form)
	if err != nil {
		if fields, _ := services.FieldErrors(err); fields != nil {
			h.renderArticleForm(c, http.StatusUnprocessableEntity, form, lockType, fields)
			return
		}
		if h.failNotice(c, err, "Failed to create article") {
			h.renderArticleForm(c, http.StatusBadGateway, form, lockType, nil)
		}
		return
	}

	addNotice(c, models.NoticeSuccess, "Article created", env.Text())
	if form.Type == models.TypePublication {
		h.redirect(c, "/admin/publications")
		return
	}
	h.redirect(c, "/admin/articles")
}

func (h *Handler) ArticleEdit(c *gin.Context) {
	id := models.ID(c.Param("id"))
	article, err := h.articles.Get(c.Request.Context(), sessionToken(c), id)
	if err != nil {
		h.pageError(c, err, "load the article", "/admin/articles")
		return
	}
	h.renderArticleEdit(c, http.StatusOK, id, services.NewArticleUpdate(*article), nil)
}

func (h *Handler) renderArticleEdit(c *gin.Context, status int, id models.ID, form services.ArticleUpdate, errs map[string]string) {
	h.render(c, status, "article_edit.html", gin.H{
		"Title":  "Edit article",
		"ID":     id,
		"Form":   form,
		"Errors": errs,
	})
}

// ArticleUpdate asks for confirmation first and issues the PUT only when
// the confirmed form comes back.
func (h *Handler) ArticleUpdate(c *gin.Context) {
	id := models.ID(c.Param("id"))
	form := services.ArticleUpdate{
		Title:        c.PostForm("title"),
		Picture:      c.PostForm("picture"),
		Content:      c.PostForm("content"),
		Category:     c.PostForm("category"),
		LinkDownload: c.PostForm("linkDownload"),
	}
	if err := form.Validate(); err != nil {
		fields, _ := services.FieldErrors(err)
		h.renderArticleEdit(c, http.StatusUnprocessableEntity, id, form, fields)
		return
	}

	if c.PostForm("confirmed") != "1" {
		h.render(c, http.StatusOK, "confirm.html", gin.H{
			"Title":   "Save changes?",
			"Message": "The article will be updated with these values.",
			"Details": []Detail{
				{Label: "Title", Value: form.Title},
				{Label: "Category", Value: form.Category},
				{Label: "Picture", Value: form.Picture},
			},
			"Action": fmt.Sprintf("/admin/articles/%s/edit", id),
			"Hidden": map[string]string{
				"title":        form.Title,
				"picture":      form.Picture,
				"content":      form.Content,
				"category":     form.Category,
				"linkDownload": form.LinkDownload,
			},
			"ConfirmLabel": "Save",
			"CancelURL":    fmt.Sprintf("/admin/articles/%s/edit", id),
		})
		return
	}

	if _, err := h.articles.Update(c.Request.Context(), sessionToken(c), id, form); err != nil {
		if h.failNotice(c, err, "Failed to update article") {
			h.renderArticleEdit(c, http.StatusBadGateway, id, form, nil)
		}
		return
	}
	addNotice(c, models.NoticeSuccess, "Article updated", "")
	h.redirect(c, fmt.Sprintf("/admin/articles/%s", id))
}

func (h *Handler) ArticleDeleteConfirm(c *gin.Context) {
	id := models.ID(c.Param("id"))
	article, err := h.articles.Get(c.Request.Context(), sessionToken(c), id)
	if err != nil {
		h.pageError(c, err, "load the article", "/admin/articles")
		return
	}
	if article.IsDeleted {
		addNotice(c, models.NoticeWarning, "Already deleted", "This article has already been deleted.")
		h.redirect(c, fmt.Sprintf("/admin/articles/%s", id))
		return
	}
	h.render(c, http.StatusOK, "confirm.html", gin.H{
		"Title":   "Delete article?",
		"Message": "This cannot be undone.",
		"Details": []Detail{
			{Label: "ID", Value: article.ID.String()},
			{Label: "Title", Value: article.Title},
			{Label: "Created", Value: article.CreatedAt.Format(createdAtLayout)},
		},
		"Action":       fmt.Sprintf("/admin/articles/%s/delete", id),
		"ConfirmLabel": "Delete",
		"CancelURL":    "/admin/articles",
	})
}

// ArticleDelete deletes the article and renders the list without it. On
// failure the list is rendered unchanged.
func (h *Handler) ArticleDelete(c *gin.Context) {
	id := models.ID(c.Param("id"))
	if c.PostForm("confirmed") != "1" {
		h.redirect(c, fmt.Sprintf("/admin/articles/%s/delete", id))
		return
	}

	token := sessionToken(c)
	items, err := h.articles.List(c.Request.Context(), token)
	if err != nil {
		h.pageError(c, err, "load articles", "/admin/articles")
		return
	}

	remaining, err := h.articles.DeleteFrom(c.Request.Context(), token, items, id)
	if err != nil {
		if h.failNotice(c, err, "Failed to delete article") {
			h.renderArticles(c, http.StatusBadGateway, services.ResourceArticles, remaining)
		}
		return
	}
	addNotice(c, models.NoticeSuccess, "Article deleted", "")
	h.renderArticles(c, http.StatusOK, services.ResourceArticles, remaining)
}

// ArticleExport downloads the article as a Markdown file with front matter.
func (h *Handler) ArticleExport(c *gin.Context) {
	format := c.DefaultQuery("format", "yaml")
	contentType, ok := exportTypes[format]
	if !ok {
		h.render(c, http.StatusBadRequest, "error.html", gin.H{
			"Title":   "Unsupported format",
			"Message": "Export as yaml, toml or json.",
			"BackURL": "/admin/articles",
		})
		return
	}

	article, err := h.articles.Get(c.Request.Context(), sessionToken(c), models.ID(c.Param("id")))
	if err != nil {
		h.pageError(c, err, "load the article", "/admin/articles")
		return
	}
	content, filename, err := services.ExportArticle(*article, format)
	if err != nil {
		h.pageError(c, err, "export the article", "/admin/articles")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, content)
}
