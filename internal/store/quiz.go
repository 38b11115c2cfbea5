package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/adaptquiz/internal/quiz"
)

func (s *Store) SaveQuiz(ctx context.Context, q quiz.Quiz) error {
	query, args := s.builder().Insert("quizzes").
		Columns("id", "title", "grade", "subject", "timer_seconds").
		Values(q.ID, q.Title, q.Grade, q.Subject, q.TimerSeconds).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz %q: %w", q.ID, err)
	}
	return nil
}

func (s *Store) SavePassage(ctx context.Context, p quiz.Passage) error {
	query, args := s.builder().Insert("passages").
		Columns("id", "quiz_id", "title", "body").
		Values(p.ID, p.QuizID, p.Title, p.Body).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save passage %q: %w", p.ID, err)
	}
	return nil
}

func (s *Store) GetQuiz(ctx context.Context, id string) (quiz.Quiz, error) {
	b := s.builder()
	query, args := b.Select("id", "title", "grade", "subject", "timer_seconds").
		From(b.Table("quizzes")).
		Where(entsql.EQ("id", id)).
		Query()

	var q quiz.Quiz
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&q.ID, &q.Title, &q.Grade, &q.Subject, &q.TimerSeconds)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Quiz{}, fmt.Errorf("quiz %q: %w", id, ErrNotFound)
		}
		return quiz.Quiz{}, fmt.Errorf("get quiz %q: %w", id, err)
	}
	return q, nil
}
