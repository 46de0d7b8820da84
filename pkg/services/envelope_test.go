package services

import (
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"statusCode envelope", `{"statusCode":200,"message":"ok","data":[{"id":1},{"id":2}]}`},
		{"status envelope", `{"status":"Articles retrieved successfully","data":[{"id":1},{"id":2}]}`},
		{"bare array", `[{"id":1},{"id":2}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := parseEnvelope(http.StatusOK, []byte(tt.body))
			require.NoError(t, err)

			var items []map[string]any
			require.NoError(t, env.Decode(&items))
			assert.Len(t, items, 2)
		})
	}
}

func TestParseEnvelope_ObjectWithoutData(t *testing.T) {
	env, err := parseEnvelope(http.StatusCreated, []byte(`{"id":7,"question":"Why?"}`))
	require.NoError(t, err)

	var q struct {
		ID int `json:"id"`
	}
	require.NoError(t, env.Decode(&q))
	assert.Equal(t, 7, q.ID)
	assert.Equal(t, http.StatusCreated, env.StatusCode)
}

func TestParseEnvelope_StatusCodeInBody(t *testing.T) {
	_, err := parseEnvelope(http.StatusOK, []byte(`{"statusCode":404,"message":"Content not found"}`))
	require.Error(t, err)

	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Content not found")
}

func TestParseEnvelope_NumericStatus(t *testing.T) {
	_, err := parseEnvelope(http.StatusOK, []byte(`{"status":500,"error":"boom"}`))
	require.Error(t, err)
	assert.Equal(t, 500, StatusOf(err))
}

func TestParseEnvelope_HTTPErrorWithPlainBody(t *testing.T) {
	_, err := parseEnvelope(http.StatusBadGateway, []byte("<html>bad gateway</html>"))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
}

func TestParseEnvelope_LongPlainBodyKeepsRunes(t *testing.T) {
	body := strings.Repeat("a", 199) + strings.Repeat("é", 10)
	_, err := parseEnvelope(http.StatusBadGateway, []byte(body))
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, utf8.ValidString(apiErr.Message))
	assert.Equal(t, strings.Repeat("a", 199), apiErr.Message)
}

func TestParseEnvelope_InvalidJSONOnSuccess(t *testing.T) {
	_, err := parseEnvelope(http.StatusOK, []byte("not json"))
	require.Error(t, err)
	assert.Equal(t, 0, StatusOf(err))
}

func TestParseEnvelope_EmptyBody(t *testing.T) {
	env, err := parseEnvelope(http.StatusNoContent, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, env.Decode(&struct{}{}), ErrNoData)

	items, err := DecodeList[map[string]any](env)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&APIError{StatusCode: http.StatusUnauthorized}))
	assert.False(t, IsUnauthorized(&APIError{StatusCode: http.StatusForbidden}))
	assert.False(t, IsUnauthorized(assert.AnError))
}
