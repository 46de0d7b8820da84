package services

import (
	"context"
	"errors"
	"fmt"

	"cms-console/pkg/models"
)

var ErrUnknownResource = errors.New("unknown resource")

// Gateway resolves resource names through the registry and calls the
// backend with the endpoint configured for each operation.
type Gateway struct {
	backend  Backend
	registry *models.ConsoleConfig
}

func NewGateway(backend Backend, registry *models.ConsoleConfig) *Gateway {
	return &Gateway{backend: backend, registry: registry}
}

func (g *Gateway) Resource(name string) (models.Resource, error) {
	res, ok := g.registry.Lookup(name)
	if !ok {
		return models.Resource{}, fmt.Errorf("%w: %s", ErrUnknownResource, name)
	}
	return res, nil
}

// endpoint resolves the backend path for op. Calls without a token never
// leave the console.
func (g *Gateway) endpoint(token, resource, op string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}
	res, err := g.Resource(resource)
	if err != nil {
		return "", err
	}
	ep, err := res.Endpoint(op)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", op, resource, err)
	}
	return ep, nil
}

func (g *Gateway) List(ctx context.Context, token, resource string) (*Envelope, error) {
	ep, err := g.endpoint(token, resource, models.OpList)
	if err != nil {
		return nil, err
	}
	return g.backend.List(ctx, token, ep)
}

func (g *Gateway) Get(ctx context.Context, token, resource string, id models.ID) (*Envelope, error) {
	ep, err := g.endpoint(token, resource, models.OpGet)
	if err != nil {
		return nil, err
	}
	return g.backend.Get(ctx, token, ep, id)
}

func (g *Gateway) Create(ctx context.Context, token, resource string, payload Payload) (*Envelope, error) {
	ep, err := g.endpoint(token, resource, models.OpCreate)
	if err != nil {
		return nil, err
	}
	return g.backend.Create(ctx, token, ep, payload)
}

func (g *Gateway) Update(ctx context.Context, token, resource string, id models.ID, payload Payload) (*Envelope, error) {
	ep, err := g.endpoint(token, resource, models.OpUpdate)
	if err != nil {
		return nil, err
	}
	return g.backend.Update(ctx, token, ep, id, payload)
}

func (g *Gateway) Remove(ctx context.Context, token, resource string, id models.ID) (*Envelope, error) {
	ep, err := g.endpoint(token, resource, models.OpDelete)
	if err != nil {
		return nil, err
	}
	return g.backend.Remove(ctx, token, ep, id)
}

// ListRecords fetches a resource as generic records.
func (g *Gateway) ListRecords(ctx context.Context, token, resource string) ([]models.Record, error) {
	env, err := g.List(ctx, token, resource)
	if err != nil {
		return nil, err
	}
	return DecodeList[models.Record](env)
}

// GetRecord fetches one generic record.
func (g *Gateway) GetRecord(ctx context.Context, token, resource string, id models.ID) (models.Record, error) {
	env, err := g.Get(ctx, token, resource, id)
	if err != nil {
		return nil, err
	}
	var rec models.Record
	if err := env.Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}
