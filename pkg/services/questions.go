package services

import (
	"context"
	"fmt"
	"slices"

	"cms-console/pkg/models"
)

type QuestionService struct {
	gw *Gateway
}

func NewQuestionService(gw *Gateway) *QuestionService {
	return &QuestionService{gw: gw}
}

func (s *QuestionService) List(ctx context.Context, token string) ([]models.Question, error) {
	env, err := s.gw.List(ctx, token, ResourceQuestions)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return DecodeList[models.Question](env)
}

func (s *QuestionService) Get(ctx context.Context, token string, id models.ID) (*models.Question, error) {
	env, err := s.gw.Get(ctx, token, ResourceQuestions, id)
	if err != nil {
		return nil, fmt.Errorf("get question %s: %w", id, err)
	}
	var q models.Question
	if err := env.Decode(&q); err != nil {
		return nil, fmt.Errorf("get question %s: %w", id, err)
	}
	return &q, nil
}

// Create validates form and posts it only when it passes.
func (s *QuestionService) Create(ctx context.Context, token string, form QuestionForm) (*Envelope, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	env, err := s.gw.Create(ctx, token, ResourceQuestions, form.Payload())
	if err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return env, nil
}

func (s *QuestionService) Update(ctx context.Context, token string, id models.ID, form QuestionForm) (*Envelope, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	env, err := s.gw.Update(ctx, token, ResourceQuestions, id, form.Payload())
	if err != nil {
		return nil, fmt.Errorf("update question %s: %w", id, err)
	}
	return env, nil
}

func (s *QuestionService) Delete(ctx context.Context, token string, id models.ID) error {
	if _, err := s.gw.Remove(ctx, token, ResourceQuestions, id); err != nil {
		return fmt.Errorf("delete question %s: %w", id, err)
	}
	return nil
}

// DeleteFrom deletes id and drops it from questions once the backend confirms.
func (s *QuestionService) DeleteFrom(ctx context.Context, token string, questions []models.Question, id models.ID) ([]models.Question, error) {
	return RemoveAfter(questions, id, func() error {
		return s.Delete(ctx, token, id)
	})
}

func (s *QuestionService) putActive(ctx context.Context, token string, id models.ID, active bool) error {
	payload := Payload{Fields: map[string]any{"isActive": active}}
	if _, err := s.gw.Update(ctx, token, ResourceQuestions, id, payload); err != nil {
		return fmt.Errorf("set question %s active=%t: %w", id, active, err)
	}
	return nil
}

// SetActive changes the active flag of question id within questions and
// returns the updated copy.
//
// Only one question may be active. Activating therefore first deactivates
// every other active question, one PUT at a time, and then activates the
// target. The calls are not atomic: on failure the returned list reflects
// the calls that did succeed, which can leave zero or several questions
// active, and the error is returned alongside it.
func (s *QuestionService) SetActive(ctx context.Context, token string, questions []models.Question, id models.ID, active bool) ([]models.Question, error) {
	updated := slices.Clone(questions)

	if active {
		for i := range updated {
			if updated[i].ID == id || !updated[i].Active() {
				continue
			}
			if err := s.putActive(ctx, token, updated[i].ID, false); err != nil {
				return updated, err
			}
			updated[i].SetActive(false)
		}
	}

	if err := s.putActive(ctx, token, id, active); err != nil {
		return updated, err
	}
	for i := range updated {
		if updated[i].ID == id {
			updated[i].SetActive(active)
		}
	}
	return updated, nil
}

// DeleteAnswer deletes an answer and drops it from q once confirmed.
func (s *QuestionService) DeleteAnswer(ctx context.Context, token string, q *models.Question, answerID models.ID) error {
	answers, err := RemoveAfter(q.Answers, answerID, func() error {
		if _, err := s.gw.Remove(ctx, token, ResourceAnswers, answerID); err != nil {
			return fmt.Errorf("delete answer %s: %w", answerID, err)
		}
		return nil
	})
	q.Answers = answers
	return err
}

// QuestionStats are the totals shown above the question table.
type QuestionStats struct {
	Total    int
	Active   int
	Inactive int
}

func CountQuestions(questions []models.Question) QuestionStats {
	stats := QuestionStats{Total: len(questions)}
	for _, q := range questions {
		if q.Active() {
			stats.Active++
		} else {
			stats.Inactive++
		}
	}
	return stats
}
