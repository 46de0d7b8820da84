package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesParse(t *testing.T) {
	tmpl := Templates()
	for _, name := range []string{
		"login.html", "dashboard.html", "articles.html", "article_detail.html",
		"article_form.html", "article_edit.html", "confirm.html", "questions.html",
		"question_detail.html", "question_form.html", "records.html",
		"record_detail.html", "error.html",
	} {
		require.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Lines("a<br />b<br>c"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", Truncate("héllo", 5))
	assert.Equal(t, "hé…", Truncate("héllo", 2))
}
