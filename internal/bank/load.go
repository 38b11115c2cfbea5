package bank

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/adaptquiz/internal/quiz"
	"github.com/abhisek/adaptquiz/internal/store"
)

// Counts reports how many records an import wrote.
type Counts struct {
	Quizzes   int
	Passages  int
	Questions int
}

// Load upserts every quiz, passage and question in b. Questions without
// an ID get a new UUID. Loading stops at the first storage error.
func Load(ctx context.Context, repo store.QuizRepository, b *Bank) (Counts, error) {
	var c Counts
	if b == nil {
		return c, nil
	}

	for _, d := range b.Quizzes {
		err := repo.SaveQuiz(ctx, quiz.Quiz{
			ID:           d.ID,
			Title:        d.Title,
			Grade:        d.Grade,
			Subject:      d.Subject,
			TimerSeconds: d.TimerSeconds,
		})
		if err != nil {
			return c, fmt.Errorf("load quiz %q: %w", d.ID, err)
		}
		c.Quizzes++

		for _, p := range d.Passages {
			err := repo.SavePassage(ctx, quiz.Passage{ID: p.ID, QuizID: d.ID, Title: p.Title, Body: p.Body})
			if err != nil {
				return c, fmt.Errorf("load passage %q: %w", p.ID, err)
			}
			c.Passages++
		}

		for _, q := range d.questions() {
			if q.ID == "" {
				q.ID = uuid.New().String()
			}
			if err := repo.SaveQuestion(ctx, q); err != nil {
				return c, fmt.Errorf("load question %q: %w", q.ID, err)
			}
			c.Questions++
		}
	}
	return c, nil
}
