package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// questionStore is an in-memory questions endpoint.
type questionStore struct {
	mu     sync.Mutex
	active map[string]bool
	order  []string
	failOn string
}

func newQuestionStore(active map[string]bool) *questionStore {
	return &questionStore{active: active}
}

func (s *questionStore) handle(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/questions":
			items := make([]string, 0, len(s.active))
			for _, id := range []string{"1", "2", "3"} {
				items = append(items, fmt.Sprintf(`{"id":%s,"question":"Q%s","isActive":%t}`, id, id, s.active[id]))
			}
			writeJSON(w, http.StatusOK, `{"data":[`+strings.Join(items, ",")+`]}`)
		case r.Method == http.MethodPut:
			id := strings.TrimPrefix(r.URL.Path, "/api/v1/questions/")
			if id == s.failOn {
				writeJSON(w, http.StatusInternalServerError, `{"message":"boom"}`)
				return
			}
			var body struct {
				IsActive bool `json:"isActive"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			s.active[id] = body.IsActive
			s.order = append(s.order, fmt.Sprintf("%s=%t", id, body.IsActive))
			writeJSON(w, http.StatusOK, `{"statusCode":200}`)
		default:
			t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
		}
	}
}

func TestQuestionSetActive_LeavesOnlyTargetActive(t *testing.T) {
	store := newQuestionStore(map[string]bool{"1": true, "2": true, "3": false})
	app := newTestApp(t, store.handle(t))
	app.signIn()

	w := app.postForm("/admin/questions/3/active", url.Values{"active": {"true"}, "confirmed": {"1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Question activated")
	assert.Contains(t, w.Body.String(), "Active 1")

	assert.Equal(t, []string{"1=false", "2=false", "3=true"}, store.order)
	assert.Equal(t, map[string]bool{"1": false, "2": false, "3": true}, store.active)
}

func TestQuestionSetActive_PartialFailure(t *testing.T) {
	store := newQuestionStore(map[string]bool{"1": true, "2": true, "3": false})
	store.failOn = "2"
	app := newTestApp(t, store.handle(t))
	app.signIn()

	w := app.postForm("/admin/questions/3/active", url.Values{"active": {"true"}, "confirmed": {"1"}})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to change question status")
	// question 1 stayed deactivated, question 2 is still active
	assert.Contains(t, w.Body.String(), "Active 1")
	assert.Equal(t, []string{"1=false"}, store.order)
}

func TestQuestionSetActive_Deactivate(t *testing.T) {
	store := newQuestionStore(map[string]bool{"1": true, "2": false, "3": false})
	app := newTestApp(t, store.handle(t))
	app.signIn()

	w := app.postForm("/admin/questions/1/active", url.Values{"active": {"false"}, "confirmed": {"1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"1=false"}, store.order)
}

func TestQuestionSetActive_RequiresConfirmation(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
	})
	app.signIn()

	w := app.postForm("/admin/questions/3/active", url.Values{"active": {"true"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/questions/3/active?active=true", w.Header().Get("Location"))
}

func TestAPISetActive(t *testing.T) {
	store := newQuestionStore(map[string]bool{"1": true, "2": false, "3": false})
	app := newTestApp(t, store.handle(t))
	app.signIn()

	req := jsonRequest(http.MethodPut, "/api/questions/2/active", `{"active":true}`)
	w := app.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			ID       string `json:"id"`
			IsActive *bool  `json:"isActive"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 3)
	assert.False(t, *body.Data[0].IsActive)
	assert.True(t, *body.Data[1].IsActive)

	w = app.do(jsonRequest(http.MethodPut, "/api/articles/2/active", `{"active":true}`))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(jsonRequest(http.MethodPut, "/api/questions/2/active", `{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuestionCreate_RequiresText(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
	})
	app.signIn()

	for _, text := range []string{"", "   "} {
		w := app.postForm("/admin/questions", url.Values{"question": {text}})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Question text is required.")
	}
	assert.Empty(t, app.backend.Calls())
}

func answerBackend(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/questions/5":
			writeJSON(w, http.StatusOK, `{"data":{"id":5,"question":"Why?","answers":[{"id":10,"answer":"Because"},{"id":11,"answer":"Why not"}]}}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/answers/10":
			writeJSON(w, http.StatusOK, `{"statusCode":200}`)
		default:
			t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
		}
	}
}

func TestAnswerDelete(t *testing.T) {
	app := newTestApp(t, answerBackend(t))
	app.signIn()

	w := app.postForm("/admin/answers/10/delete", url.Values{"question_id": {"5"}, "confirmed": {"1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Answer deleted")
	assert.NotContains(t, w.Body.String(), "Because")
	assert.Contains(t, w.Body.String(), "Why not")
	assert.Equal(t, []string{"GET /questions/5 Bearer tok", "DELETE /answers/10 Bearer tok"}, app.backend.Calls())
}

func TestAnswerDelete_RequiresConfirmation(t *testing.T) {
	app := newTestApp(t, answerBackend(t))
	app.signIn()

	w := app.postForm("/admin/answers/10/delete", url.Values{"question_id": {"5"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/answers/10/delete?question_id=5", w.Header().Get("Location"))
	assert.Empty(t, app.backend.Calls())
}

func TestAnswerDeleteConfirm(t *testing.T) {
	app := newTestApp(t, answerBackend(t))
	app.signIn()

	w := app.get("/admin/answers/10/delete?question_id=5")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "This answer will be deleted permanently.")
	assert.Contains(t, body, "Because")
	assert.Contains(t, body, `name="question_id" value="5"`)
	assert.Contains(t, body, `name="confirmed" value="1"`)
	assert.Equal(t, []string{"GET /questions/5 Bearer tok"}, app.backend.Calls())

	w = app.get("/admin/answers/99/delete?question_id=5")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.get("/admin/answers/10/delete")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuestionExport(t *testing.T) {
	store := newQuestionStore(map[string]bool{"1": true})
	app := newTestApp(t, store.handle(t))
	app.signIn()

	w := app.get("/admin/questions/export")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Questions_Export_")
	assert.NotZero(t, w.Body.Len())
}
