package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cms-console/pkg/config"
	"cms-console/pkg/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/v1", 5*time.Second, testLogger())
}

// bytesFile wraps in-memory content as a FileField.
func bytesFile(field, filename string, content []byte) FileField {
	return FileField{
		Field:    field,
		Filename: filename,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

func testRegistry(t *testing.T) *models.ConsoleConfig {
	t.Helper()
	reg, err := config.LoadResources("")
	require.NoError(t, err)
	return reg
}

type mockBackend struct {
	mock.Mock
}

func envelopeResult(args mock.Arguments) (*Envelope, error) {
	env, _ := args.Get(0).(*Envelope)
	return env, args.Error(1)
}

func (m *mockBackend) List(ctx context.Context, token, endpoint string) (*Envelope, error) {
	return envelopeResult(m.Called(ctx, token, endpoint))
}

func (m *mockBackend) Get(ctx context.Context, token, endpoint string, id models.ID) (*Envelope, error) {
	return envelopeResult(m.Called(ctx, token, endpoint, id))
}

func (m *mockBackend) Create(ctx context.Context, token, endpoint string, payload Payload) (*Envelope, error) {
	return envelopeResult(m.Called(ctx, token, endpoint, payload))
}

func (m *mockBackend) Update(ctx context.Context, token, endpoint string, id models.ID, payload Payload) (*Envelope, error) {
	return envelopeResult(m.Called(ctx, token, endpoint, id, payload))
}

func (m *mockBackend) Remove(ctx context.Context, token, endpoint string, id models.ID) (*Envelope, error) {
	return envelopeResult(m.Called(ctx, token, endpoint, id))
}
