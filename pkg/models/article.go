package models

import "encoding/json"

const (
	TypeKegiatan    = "kegiatan"
	TypePublication = "publication"
)

// ArticleTypes lists the content types the backend accepts.
var ArticleTypes = []string{TypeKegiatan, TypePublication}

// Article is a content record as served by the backend.
type Article struct {
	ID           ID        `json:"id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle,omitempty"`
	Body         string    `json:"body,omitempty"`
	Type         string    `json:"type,omitempty"`
	Images       []string  `json:"images,omitempty"`
	Image        string    `json:"image,omitempty"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	LinkDownload string    `json:"linkDownload,omitempty"`
	IsDeleted    bool      `json:"isDeleted"`
	IsVisible    *bool     `json:"isVisible,omitempty"`
	CreatedAt    Timestamp `json:"createdAt"`
	UpdatedAt    Timestamp `json:"updatedAt"`
}

// UnmarshalJSON also accepts the snake_case timestamps and the single
// "image" field some endpoints still return.
func (a *Article) UnmarshalJSON(b []byte) error {
	type alias Article
	aux := struct {
		*alias
		CreatedAtSnake Timestamp `json:"created_at"`
		UpdatedAtSnake Timestamp `json:"updated_at"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = aux.CreatedAtSnake
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = aux.UpdatedAtSnake
	}
	if len(a.Images) == 0 && a.Image != "" {
		a.Images = []string{a.Image}
	}
	return nil
}

func (a Article) Identifier() ID { return a.ID }

// Picture returns the lead image, if any.
func (a Article) Picture() string {
	if len(a.Images) > 0 {
		return a.Images[0]
	}
	return a.Image
}

func (a Article) IsPublication() bool { return a.Type == TypePublication }

// Visible treats a missing flag as visible.
func (a Article) Visible() bool { return a.IsVisible == nil || *a.IsVisible }
