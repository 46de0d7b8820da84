package services

import (
	"errors"
	"testing"
	"time"

	"cms-console/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day int) models.Timestamp {
	return models.Timestamp{Time: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)}
}

func sampleArticles() []models.Article {
	return []models.Article{
		{ID: "1", Title: "Go Basics", CreatedAt: at(2)},
		{ID: "2", Title: "Advanced go", CreatedAt: at(3)},
		{ID: "3", Title: "Rust", CreatedAt: at(1)},
	}
}

func ids(items []models.Article) []models.ID {
	out := make([]models.ID, len(items))
	for i, a := range items {
		out[i] = a.ID
	}
	return out
}

func TestFilterArticles(t *testing.T) {
	assert.Equal(t, []models.ID{"1", "2"}, ids(FilterArticles(sampleArticles(), "  GO ")))
	assert.Len(t, FilterArticles(sampleArticles(), ""), 3)
	assert.Empty(t, FilterArticles(sampleArticles(), "python"))
}

func TestSortArticles(t *testing.T) {
	items := sampleArticles()
	assert.Equal(t, []models.ID{"2", "1", "3"}, ids(SortArticles(items, SortNewest)))
	assert.Equal(t, []models.ID{"3", "1", "2"}, ids(SortArticles(items, SortOldest)))
	assert.Equal(t, []models.ID{"1", "2", "3"}, ids(SortArticles(items, SortDefault)))
	assert.Equal(t, []models.ID{"1", "2", "3"}, ids(items))
}

func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	p := Paginate(items, 1, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, p.Items, 10)
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	p = Paginate(items, 3, 10)
	assert.Equal(t, []int{20, 21, 22, 23, 24}, p.Items)
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())

	p = Paginate(items, 99, 10)
	assert.Equal(t, 3, p.Number)

	p = Paginate([]int{}, 2, 10)
	assert.Equal(t, 1, p.Number)
	assert.Empty(t, p.Items)
	assert.False(t, p.HasNext())
}

func TestRemoveAfter(t *testing.T) {
	items := sampleArticles()

	got, err := RemoveAfter(items, "2", func() error { return errors.New("delete failed") })
	require.Error(t, err)
	assert.Equal(t, ids(items), ids(got))

	got, err = RemoveAfter(items, "2", func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, []models.ID{"1", "3"}, ids(got))
	assert.Len(t, items, 3)
}
