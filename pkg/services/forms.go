package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"cms-console/pkg/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	MaxTitleLength    = 140
	MaxSubtitleLength = 255

	dateLayout = "2006-01-02"
)

var articleTypes = func() []interface{} {
	out := make([]interface{}, len(models.ArticleTypes))
	for i, t := range models.ArticleTypes {
		out[i] = t
	}
	return out
}()

// ArticleForm is the new-content form. PublishedOn is a yyyy-mm-dd date and
// only applies to publications.
type ArticleForm struct {
	Title        string      `json:"title"`
	Subtitle     string      `json:"subtitle"`
	Body         string      `json:"body"`
	Type         string      `json:"type"`
	LinkDownload string      `json:"linkDownload"`
	PublishedOn  string      `json:"createdAt"`
	Images       []FileField `json:"images"`
	Thumbnail    *FileField  `json:"thumbnail"`
}

func (f ArticleForm) Validate() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Body = strings.TrimSpace(f.Body)
	isPublication := f.Type == models.TypePublication
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title,
			validation.Required.Error("Title is required."),
			validation.RuneLength(0, MaxTitleLength).Error("Title cannot exceed 140 characters."),
		),
		validation.Field(&f.Subtitle,
			validation.RuneLength(0, MaxSubtitleLength).Error("Subtitle cannot exceed 255 characters."),
		),
		validation.Field(&f.Type,
			validation.Required.Error("Type is required."),
			validation.In(articleTypes...).Error("Type must be kegiatan or publication."),
		),
		validation.Field(&f.Images,
			validation.Required.Error("At least one image is required."),
		),
		validation.Field(&f.Body,
			validation.When(!isPublication, validation.Required.Error("Body is required.")),
		),
		validation.Field(&f.PublishedOn,
			validation.When(isPublication,
				validation.Required.Error("Please select a publication date."),
				validation.Date(dateLayout).Error("Publication date must be a valid date."),
			),
		),
		validation.Field(&f.LinkDownload,
			is.URL.Error("Download link must be a URL."),
		),
	)
}

// Payload builds the multipart body for the create call. Validate first.
func (f ArticleForm) Payload() Payload {
	fields := map[string]any{
		"title":    strings.TrimSpace(f.Title),
		"subtitle": f.Subtitle,
		"type":     f.Type,
	}
	if f.LinkDownload != "" {
		fields["linkDownload"] = f.LinkDownload
	}
	if f.Type == models.TypePublication {
		if d, err := time.Parse(dateLayout, f.PublishedOn); err == nil {
			fields["createdAt"] = d.UTC().Format(time.RFC3339)
		}
	} else {
		fields["body"] = BodyToHTML(f.Body)
	}

	files := make([]FileField, 0, len(f.Images)+1)
	for _, img := range f.Images {
		img.Field = "image"
		files = append(files, img)
	}
	if f.Thumbnail != nil {
		thumb := *f.Thumbnail
		thumb.Field = "thumbnail"
		files = append(files, thumb)
	}
	return Payload{Fields: fields, Files: files}
}

// ArticleUpdate is the edit form.
type ArticleUpdate struct {
	Title        string `json:"title"`
	Picture      string `json:"picture"`
	Content      string `json:"content"`
	Category     string `json:"category"`
	LinkDownload string `json:"linkDownload"`
}

// NewArticleUpdate seeds the edit form from the stored article.
func NewArticleUpdate(a models.Article) ArticleUpdate {
	return ArticleUpdate{
		Title:        a.Title,
		Picture:      a.Picture(),
		Content:      a.Body,
		Category:     a.Type,
		LinkDownload: a.LinkDownload,
	}
}

func (u ArticleUpdate) Validate() error {
	u.Title = strings.TrimSpace(u.Title)
	return validation.ValidateStruct(&u,
		validation.Field(&u.Title,
			validation.Required.Error("Title is required."),
			validation.RuneLength(0, MaxTitleLength).Error("Title cannot exceed 140 characters."),
		),
		validation.Field(&u.Category,
			validation.When(u.Category != "", validation.In(articleTypes...).Error("Category must be kegiatan or publication.")),
		),
		validation.Field(&u.LinkDownload,
			is.URL.Error("Download link must be a URL."),
		),
	)
}

func (u ArticleUpdate) Payload() Payload {
	return Payload{Fields: map[string]any{
		"title":        strings.TrimSpace(u.Title),
		"picture":      u.Picture,
		"content":      u.Content,
		"category":     u.Category,
		"linkDownload": u.LinkDownload,
	}}
}

// QuestionForm is the new/edit question form.
type QuestionForm struct {
	Question string `json:"question"`
}

// Validate checks the text as it will be sent, so blank input is rejected.
func (f QuestionForm) Validate() error {
	f.Question = strings.TrimSpace(f.Question)
	return validation.ValidateStruct(&f,
		validation.Field(&f.Question,
			validation.Required.Error("Question text is required."),
		),
	)
}

func (f QuestionForm) Payload() Payload {
	return Payload{Fields: map[string]any{"question": strings.TrimSpace(f.Question)}}
}

// BodyToHTML converts textarea newlines into the <br /> markup the backend stores.
func BodyToHTML(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	return strings.ReplaceAll(body, "\n", "<br />")
}

// HTMLToBody reverses BodyToHTML for editing and export.
func HTMLToBody(body string) string {
	body = strings.ReplaceAll(body, "<br />", "\n")
	return strings.ReplaceAll(body, "<br>", "\n")
}

// FieldErrors flattens validation errors into field → message, with the
// field names in order for rendering.
func FieldErrors(err error) (map[string]string, []string) {
	var ve validation.Errors
	if !errors.As(err, &ve) {
		return nil, nil
	}
	out := make(map[string]string, len(ve))
	keys := make([]string, 0, len(ve))
	for field, fieldErr := range ve {
		if fieldErr == nil {
			continue
		}
		out[field] = fieldErr.Error()
		keys = append(keys, field)
	}
	sort.Strings(keys)
	return out, keys
}
