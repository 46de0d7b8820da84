package services

import (
	"slices"
	"strings"

	"cms-console/pkg/models"
)

const (
	SortDefault = "default"
	SortNewest  = "newest"
	SortOldest  = "oldest"
)

// Page is one slice of a list screen.
type Page[T any] struct {
	Items      []T
	Number     int
	TotalPages int
	Total      int
}

func (p Page[T]) HasPrev() bool { return p.TotalPages > 1 && p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.TotalPages > 1 && p.Number < p.TotalPages }
func (p Page[T]) Prev() int     { return p.Number - 1 }
func (p Page[T]) Next() int     { return p.Number + 1 }

// Paginate returns page number n (1-based) of items, clamped into range.
func Paginate[T any](items []T, n, perPage int) Page[T] {
	if perPage < 1 {
		perPage = 10
	}
	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if n > totalPages {
		n = totalPages
	}
	if n < 1 {
		n = 1
	}

	start := (n - 1) * perPage
	end := min(start+perPage, total)
	var window []T
	if start < end {
		window = items[start:end]
	}
	return Page[T]{Items: window, Number: n, TotalPages: totalPages, Total: total}
}

// FilterArticles keeps articles whose title contains query, ignoring case.
func FilterArticles(items []models.Article, query string) []models.Article {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	out := make([]models.Article, 0, len(items))
	for _, a := range items {
		if strings.Contains(strings.ToLower(a.Title), query) {
			out = append(out, a)
		}
	}
	return out
}

// SortArticles returns a copy ordered by creation time. Unknown orders keep
// the backend's order.
func SortArticles(items []models.Article, order string) []models.Article {
	sorted := slices.Clone(items)
	switch order {
	case SortNewest:
		slices.SortStableFunc(sorted, func(a, b models.Article) int {
			return b.CreatedAt.Compare(a.CreatedAt.Time)
		})
	case SortOldest:
		slices.SortStableFunc(sorted, func(a, b models.Article) int {
			return a.CreatedAt.Compare(b.CreatedAt.Time)
		})
	}
	return sorted
}

// RemoveAfter calls remove and, only if it succeeds, returns items without
// the one identified by id. On failure items is returned untouched.
func RemoveAfter[T models.Identifiable](items []T, id models.ID, remove func() error) ([]T, error) {
	if err := remove(); err != nil {
		return items, err
	}
	return slices.DeleteFunc(slices.Clone(items), func(item T) bool {
		return item.Identifier() == id
	}), nil
}
