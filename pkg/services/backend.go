package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"cms-console/pkg/metrics"
	"cms-console/pkg/models"

	"golang.org/x/oauth2"
)

var ErrInvalidLogin = errors.New("login response is missing token or username")

// FileField is one file part of a multipart payload.
type FileField struct {
	Field    string
	Filename string
	Open     func() (io.ReadCloser, error)
}

// Payload is the body of a create or update call. It is sent as multipart
// when it carries files and as JSON otherwise.
type Payload struct {
	Fields map[string]any
	Files  []FileField
}

func (p Payload) HasFiles() bool { return len(p.Files) > 0 }

// Client talks to the content backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.With("component", "backend"),
	}
}

func (c *Client) List(ctx context.Context, token, endpoint string) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, c.url(endpoint, ""), token, nil, "")
}

func (c *Client) Get(ctx context.Context, token, endpoint string, id models.ID) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, c.url(endpoint, id), token, nil, "")
}

func (c *Client) Create(ctx context.Context, token, endpoint string, payload Payload) (*Envelope, error) {
	body, contentType, err := encodePayload(payload)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, c.url(endpoint, ""), token, body, contentType)
}

func (c *Client) Update(ctx context.Context, token, endpoint string, id models.ID, payload Payload) (*Envelope, error) {
	body, contentType, err := encodePayload(payload)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPut, c.url(endpoint, id), token, body, contentType)
}

func (c *Client) Remove(ctx context.Context, token, endpoint string, id models.ID) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, c.url(endpoint, id), token, nil, "")
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, identifier, password string) (models.Admin, error) {
	payload := Payload{Fields: map[string]any{
		"userIdentifier": identifier,
		"password":       password,
	}}
	env, err := c.Create(ctx, "", "users/login", payload)
	if err != nil {
		return models.Admin{}, err
	}

	var data struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := env.Decode(&data); err != nil {
		return models.Admin{}, fmt.Errorf("%w: %v", ErrInvalidLogin, err)
	}
	if data.Token == "" || data.User.Username == "" {
		return models.Admin{}, ErrInvalidLogin
	}
	return models.Admin{Token: data.Token, Username: data.User.Username}, nil
}

// Ping checks that the backend answers on sys/ping. Any 2xx is healthy,
// whatever the body.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("sys/ping", ""), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) url(endpoint string, id models.ID) string {
	u := c.baseURL + "/" + strings.Trim(endpoint, "/")
	if id != "" {
		u += "/" + url.PathEscape(id.String())
	}
	return u
}

func (c *Client) do(ctx context.Context, method, target, token string, body io.Reader, contentType string) (*Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.BackendCallDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendCallsTotal.WithLabelValues(method, "transport").Inc()
		c.logger.ErrorContext(ctx, "backend call failed", "method", method, "url", target, "error", err)
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.BackendCallsTotal.WithLabelValues(method, "transport").Inc()
		return nil, fmt.Errorf("read response: %w", err)
	}

	env, err := parseEnvelope(resp.StatusCode, raw)
	if err != nil {
		metrics.BackendCallsTotal.WithLabelValues(method, "error").Inc()
		c.logger.WarnContext(ctx, "backend call rejected",
			"method", method,
			"url", target,
			"status", resp.StatusCode,
			"error", err,
		)
		return nil, err
	}

	metrics.BackendCallsTotal.WithLabelValues(method, "ok").Inc()
	c.logger.DebugContext(ctx, "backend call",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return env, nil
}

func encodePayload(p Payload) (io.Reader, string, error) {
	if !p.HasFiles() {
		fields := p.Fields
		if fields == nil {
			fields = map[string]any{}
		}
		b, err := json.Marshal(fields)
		if err != nil {
			return nil, "", fmt.Errorf("encode payload: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(p.Fields))
	for k := range p.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := p.Fields[k].(type) {
		case nil:
			continue
		case []string:
			for _, s := range v {
				if err := w.WriteField(k, s); err != nil {
					return nil, "", fmt.Errorf("encode field %s: %w", k, err)
				}
			}
		default:
			if err := w.WriteField(k, fmt.Sprint(v)); err != nil {
				return nil, "", fmt.Errorf("encode field %s: %w", k, err)
			}
		}
	}

	for _, f := range p.Files {
		if err := writeFilePart(w, f); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encode payload: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, f FileField) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Filename, err)
	}
	defer src.Close()

	part, err := w.CreateFormFile(f.Field, f.Filename)
	if err != nil {
		return fmt.Errorf("encode file %s: %w", f.Filename, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("encode file %s: %w", f.Filename, err)
	}
	return nil
}
