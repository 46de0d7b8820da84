package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"cms-console/pkg/models"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// ExportArticle renders a as a Markdown document with front matter in
// format ("yaml", "toml" or "json") and suggests a file name for it.
func ExportArticle(a models.Article, format string) ([]byte, string, error) {
	content, err := renderDocument(articleFrontMatter(a), HTMLToBody(a.Body), format)
	if err != nil {
		return nil, "", err
	}
	ext := ".md"
	if format == "json" {
		ext = ".json"
	}
	return content, Slugify(a.Title, a.ID.String()) + ext, nil
}

func articleFrontMatter(a models.Article) map[string]interface{} {
	fm := map[string]interface{}{
		"id":    a.ID.String(),
		"title": a.Title,
		"draft": a.IsDeleted || !a.Visible(),
	}
	if a.Subtitle != "" {
		fm["subtitle"] = a.Subtitle
	}
	if a.Type != "" {
		fm["type"] = a.Type
	}
	if !a.CreatedAt.IsZero() {
		fm["date"] = a.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !a.UpdatedAt.IsZero() {
		fm["lastmod"] = a.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if len(a.Images) > 0 {
		fm["images"] = a.Images
	}
	if a.Thumbnail != "" {
		fm["thumbnail"] = a.Thumbnail
	}
	if a.LinkDownload != "" {
		fm["linkDownload"] = a.LinkDownload
	}
	return fm
}

// Slugify turns a title into a file-name-safe slug, using fallback when the
// title has no usable characters.
func Slugify(title, fallback string) string {
	slug := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = "article-" + fallback
	}
	if len(slug) > 80 {
		slug = strings.Trim(slug[:80], "-")
	}
	return slug
}

// renderDocument writes fm as a front matter block followed by body. JSON
// documents carry the body as a field instead.
func renderDocument(fm map[string]interface{}, body string, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "yaml":
		buf.WriteString("---\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(fm); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
	case "toml":
		buf.WriteString("+++\n")
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(fm); err != nil {
			return nil, err
		}
		buf.WriteString("+++\n")
	case "json":
		if body != "" {
			fm["body"] = body
		}
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(fm); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}
