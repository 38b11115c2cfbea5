package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/adaptquiz/internal/quiz"
)

var roundColumns = []string{"id", "student_id", "kind", "question_ids", "created_at"}

func (s *Store) SaveRound(ctx context.Context, r quiz.Round) error {
	if r.ID == "" || r.StudentID == "" {
		return fmt.Errorf("save round: id and student are required")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	ids := r.QuestionIDs
	if ids == nil {
		ids = []string{}
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal question ids: %w", err)
	}

	query, args := s.builder().Insert("rounds").
		Columns(roundColumns...).
		Values(r.ID, r.StudentID, string(r.Kind), string(idsJSON), r.CreatedAt.UnixMilli()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save round %q: %w", r.ID, err)
	}
	return nil
}

func (s *Store) GetRound(ctx context.Context, id string) (quiz.Round, error) {
	b := s.builder()
	query, args := b.Select(roundColumns...).
		From(b.Table("rounds")).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		r         quiz.Round
		kind      string
		idsJSON   string
		createdMs int64
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&r.ID, &r.StudentID, &kind, &idsJSON, &createdMs)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Round{}, fmt.Errorf("round %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return quiz.Round{}, fmt.Errorf("get round %q: %w", id, err)
	}

	if err := json.Unmarshal([]byte(idsJSON), &r.QuestionIDs); err != nil {
		return quiz.Round{}, fmt.Errorf("unmarshal question ids of %q: %w", id, err)
	}
	if len(r.QuestionIDs) == 0 {
		r.QuestionIDs = nil
	}
	r.Kind = quiz.RoundKind(kind)
	r.CreatedAt = time.UnixMilli(createdMs).UTC()
	return r, nil
}
