package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

var (
	ErrNoData = errors.New("response carries no data")

	// ErrUnauthenticated means there is no stored token to call with.
	ErrUnauthenticated = errors.New("not signed in")
)

// APIError is a failed backend call. Only the raw HTTP status and the
// backend's message are kept.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a backend 401 or a missing session.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthenticated) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Envelope is a normalized backend response. Endpoints answer with
// {statusCode, data, message}, {status, data}, or a bare document.
type Envelope struct {
	StatusCode int
	Status     string
	Message    string
	Data       json.RawMessage
}

// Text is the backend's human-readable message, if it sent one.
func (e *Envelope) Text() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Status
}

// Decode unmarshals the envelope data into v.
func (e *Envelope) Decode(v any) error {
	if e == nil || len(e.Data) == 0 || string(e.Data) == "null" {
		return ErrNoData
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// DecodeList is Decode for collections: a missing data payload is an empty list.
func DecodeList[T any](e *Envelope) ([]T, error) {
	var items []T
	if err := e.Decode(&items); err != nil {
		if errors.Is(err, ErrNoData) {
			return []T{}, nil
		}
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// parseEnvelope normalizes body and turns failures into *APIError.
func parseEnvelope(httpStatus int, body []byte) (*Envelope, error) {
	env := &Envelope{StatusCode: httpStatus}
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) > 0 {
		if !json.Valid(trimmed) {
			if httpStatus >= http.StatusBadRequest {
				return nil, &APIError{StatusCode: httpStatus, Message: truncate(string(trimmed), 200)}
			}
			return nil, fmt.Errorf("decode response: invalid JSON")
		}
		if trimmed[0] == '{' {
			if err := env.fillFromObject(trimmed); err != nil {
				return nil, err
			}
		} else {
			env.Data = json.RawMessage(trimmed)
		}
	}

	if httpStatus >= http.StatusBadRequest {
		return nil, &APIError{StatusCode: httpStatus, Message: env.Text()}
	}
	if env.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{StatusCode: env.StatusCode, Message: env.Text()}
	}
	return env, nil
}

func (e *Envelope) fillFromObject(doc []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if raw, ok := fields["statusCode"]; ok {
		var code int
		if err := json.Unmarshal(raw, &code); err == nil && code != 0 {
			e.StatusCode = code
		}
	}
	if raw, ok := fields["status"]; ok {
		var s string
		var code int
		if err := json.Unmarshal(raw, &s); err == nil {
			e.Status = s
		} else if err := json.Unmarshal(raw, &code); err == nil && code != 0 {
			if _, has := fields["statusCode"]; !has {
				e.StatusCode = code
			}
		}
	}
	for _, key := range []string{"message", "error"} {
		if raw, ok := fields[key]; ok {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				e.Message = s
				break
			}
		}
	}

	if raw, ok := fields["data"]; ok {
		e.Data = raw
	} else {
		e.Data = json.RawMessage(doc)
	}
	return nil
}

// truncate keeps at most n bytes of s without splitting a rune.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
