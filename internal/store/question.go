package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/adaptquiz/internal/quiz"
)

var questionColumns = []string{
	"id", "text", "type", "choices", "answer_key", "difficulty",
	"subject", "grade", "quiz_id", "passage_id",
}

func (s *Store) FindQuestions(ctx context.Context, f QuestionFilter) ([]quiz.Question, error) {
	b := s.builder()
	sel := b.Select(questionColumns...).From(b.Table("questions"))

	if f.Grade != "" {
		sel.Where(entsql.EQ("grade", f.Grade))
	}
	if f.Subject != "" {
		sel.Where(entsql.EQ("subject", f.Subject))
	}
	if f.QuizID != "" {
		sel.Where(entsql.EQ("quiz_id", f.QuizID))
	}
	if f.PassageID != "" {
		sel.Where(entsql.EQ("passage_id", f.PassageID))
	}
	if f.Difficulty != "" {
		sel.Where(entsql.EQ("difficulty", string(f.Difficulty)))
	}
	if len(f.IDs) > 0 {
		sel.Where(entsql.In("id", toAny(f.IDs)...))
	}
	sel.OrderBy("id")

	query, args := sel.Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []quiz.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}

func (s *Store) GetQuestion(ctx context.Context, id string) (quiz.Question, error) {
	b := s.builder()
	query, args := b.Select(questionColumns...).
		From(b.Table("questions")).
		Where(entsql.EQ("id", id)).
		Query()

	q, err := scanQuestion(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Question{}, fmt.Errorf("question %q: %w", id, ErrNotFound)
	}
	return q, err
}

func (s *Store) SaveQuestion(ctx context.Context, q quiz.Question) error {
	choices := q.Choices
	if choices == nil {
		choices = []string{}
	}
	choicesJSON, err := json.Marshal(choices)
	if err != nil {
		return fmt.Errorf("marshal choices: %w", err)
	}

	query, args := s.builder().Insert("questions").
		Columns(questionColumns...).
		Values(q.ID, q.Text, string(q.Type), string(choicesJSON), q.AnswerKey, string(q.Difficulty),
			q.Subject, q.Grade, q.QuizID, q.PassageID).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save question %q: %w", q.ID, err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(r rowScanner) (quiz.Question, error) {
	var (
		q           quiz.Question
		typ, diff   string
		choicesJSON string
	)
	err := r.Scan(&q.ID, &q.Text, &typ, &choicesJSON, &q.AnswerKey, &diff,
		&q.Subject, &q.Grade, &q.QuizID, &q.PassageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Question{}, err
		}
		return quiz.Question{}, fmt.Errorf("scan question: %w", err)
	}
	q.Type = quiz.QuestionType(typ)
	q.Difficulty = quiz.Difficulty(diff)

	if choicesJSON != "" {
		if err := json.Unmarshal([]byte(choicesJSON), &q.Choices); err != nil {
			return quiz.Question{}, fmt.Errorf("unmarshal choices of %q: %w", q.ID, err)
		}
	}
	if len(q.Choices) == 0 {
		q.Choices = nil
	}
	return q, nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
