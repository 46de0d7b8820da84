package services

import (
	"context"

	"cms-console/pkg/models"
)

// Backend is the endpoint-level contract of the content API. *Client
// implements it; the token is read from the caller's session per call.
type Backend interface {
	List(ctx context.Context, token, endpoint string) (*Envelope, error)
	Get(ctx context.Context, token, endpoint string, id models.ID) (*Envelope, error)
	Create(ctx context.Context, token, endpoint string, payload Payload) (*Envelope, error)
	Update(ctx context.Context, token, endpoint string, id models.ID, payload Payload) (*Envelope, error)
	Remove(ctx context.Context, token, endpoint string, id models.ID) (*Envelope, error)
}
