package models

type Question struct {
	ID        ID        `json:"id"`
	Question  string    `json:"question"`
	IsActive  *bool     `json:"isActive,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
	Answers   []Answer  `json:"answers,omitempty"`
}

type Answer struct {
	ID        ID        `json:"id"`
	Answer    string    `json:"answer"`
	CreatedAt Timestamp `json:"createdAt"`
}

func (q Question) Identifier() ID { return q.ID }

// Active reports the question's flag; the backend omits it for active ones.
func (q Question) Active() bool { return q.IsActive == nil || *q.IsActive }

func (q *Question) SetActive(active bool) { q.IsActive = &active }

// FindAnswer looks up one of the question's answers by id.
func (q Question) FindAnswer(id ID) (Answer, bool) {
	for _, a := range q.Answers {
		if a.ID == id {
			return a, true
		}
	}
	return Answer{}, false
}

func (a Answer) Identifier() ID { return a.ID }
