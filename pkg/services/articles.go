package services

import (
	"context"
	"fmt"

	"cms-console/pkg/models"
)

const (
	ResourceArticles     = "articles"
	ResourcePublications = "publications"
	ResourceQuestions    = "questions"
	ResourceAnswers      = "answers"
)

type ArticleService struct {
	gw *Gateway
}

func NewArticleService(gw *Gateway) *ArticleService {
	return &ArticleService{gw: gw}
}

func (s *ArticleService) List(ctx context.Context, token string) ([]models.Article, error) {
	return s.list(ctx, token, ResourceArticles)
}

func (s *ArticleService) ListPublications(ctx context.Context, token string) ([]models.Article, error) {
	return s.list(ctx, token, ResourcePublications)
}

func (s *ArticleService) list(ctx context.Context, token, resource string) ([]models.Article, error) {
	env, err := s.gw.List(ctx, token, resource)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", resource, err)
	}
	return DecodeList[models.Article](env)
}

func (s *ArticleService) Get(ctx context.Context, token string, id models.ID) (*models.Article, error) {
	env, err := s.gw.Get(ctx, token, ResourceArticles, id)
	if err != nil {
		return nil, fmt.Errorf("get article %s: %w", id, err)
	}
	var a models.Article
	if err := env.Decode(&a); err != nil {
		return nil, fmt.Errorf("get article %s: %w", id, err)
	}
	return &a, nil
}

// Create validates form and, only if it passes, posts it. Validation
// failures are returned as ozzo validation.Errors.
func (s *ArticleService) Create(ctx context.Context, token string, form ArticleForm) (*Envelope, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	env, err := s.gw.Create(ctx, token, ResourceArticles, form.Payload())
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return env, nil
}

func (s *ArticleService) Update(ctx context.Context, token string, id models.ID, form ArticleUpdate) (*Envelope, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	env, err := s.gw.Update(ctx, token, ResourceArticles, id, form.Payload())
	if err != nil {
		return nil, fmt.Errorf("update article %s: %w", id, err)
	}
	return env, nil
}

func (s *ArticleService) Delete(ctx context.Context, token string, id models.ID) error {
	if _, err := s.gw.Remove(ctx, token, ResourceArticles, id); err != nil {
		return fmt.Errorf("delete article %s: %w", id, err)
	}
	return nil
}

// DeleteFrom deletes id and drops it from items once the backend confirms.
func (s *ArticleService) DeleteFrom(ctx context.Context, token string, items []models.Article, id models.ID) ([]models.Article, error) {
	return RemoveAfter(items, id, func() error {
		return s.Delete(ctx, token, id)
	})
}
