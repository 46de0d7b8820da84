package services

import (
	"context"
	"testing"

	"cms-console/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGateway_UnknownResource(t *testing.T) {
	gw := NewGateway(new(mockBackend), testRegistry(t))

	_, err := gw.List(context.Background(), "tok", "widgets")
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestGateway_WithoutTokenMakesNoCall(t *testing.T) {
	backend := new(mockBackend)
	gw := NewGateway(backend, testRegistry(t))

	_, err := gw.List(context.Background(), "", "articles")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.True(t, IsUnauthorized(err))

	_, err = gw.Remove(context.Background(), "", "questions", "1")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	backend.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	backend.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGateway_UnsupportedOperation(t *testing.T) {
	backend := new(mockBackend)
	gw := NewGateway(backend, testRegistry(t))

	_, err := gw.Create(context.Background(), "tok", "inbox", Payload{})
	assert.ErrorIs(t, err, models.ErrUnsupportedOperation)
	backend.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGateway_RecordsUseConfiguredEndpoint(t *testing.T) {
	backend := new(mockBackend)
	gw := NewGateway(backend, testRegistry(t))
	ctx := context.Background()

	backend.On("List", ctx, "tok", "messages").
		Return(&Envelope{Data: []byte(`[{"id":"m1","subject":"Hi"}]`)}, nil).Once()
	backend.On("Get", ctx, "tok", "users", models.ID("7")).
		Return(&Envelope{Data: []byte(`{"id":7,"username":"root"}`)}, nil).Once()

	recs, err := gw.ListRecords(ctx, "tok", "inbox")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.ID("m1"), recs[0].Identifier())

	rec, err := gw.GetRecord(ctx, "tok", "accounts", "7")
	require.NoError(t, err)
	assert.Equal(t, models.ID("7"), rec.Identifier())
	assert.Equal(t, "root", rec.Field("username"))
}
