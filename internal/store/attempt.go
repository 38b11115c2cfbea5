package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/adaptquiz/internal/quiz"
)

var attemptColumns = []string{
	"id", "sequence", "student_id", "question_id", "quiz_id", "session_id",
	"submitted_answer", "correct", "time_taken_secs", "created_at",
}

// SaveAttempt appends an attempt. A missing ID is filled with a new UUID
// and a zero CreatedAt with the current time.
func (s *Store) SaveAttempt(ctx context.Context, a quiz.Attempt) (quiz.Attempt, error) {
	if a.StudentID == "" || a.QuestionID == "" {
		return quiz.Attempt{}, fmt.Errorf("save attempt: student and question are required")
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.CreatedAt = time.UnixMilli(a.CreatedAt.UnixMilli()).UTC()

	seq, err := s.seq.Next(ctx)
	if err != nil {
		return quiz.Attempt{}, err
	}

	var timeTaken any
	if a.TimeTakenSecs != nil {
		timeTaken = int64(*a.TimeTakenSecs)
	}

	query, args := s.builder().Insert("attempts").
		Columns(attemptColumns...).
		Values(a.ID, seq, a.StudentID, a.QuestionID, a.QuizID, a.SessionID,
			a.SubmittedAnswer, a.Correct, timeTaken, a.CreatedAt.UnixMilli()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return quiz.Attempt{}, fmt.Errorf("save attempt: %w", err)
	}
	return a, nil
}

func (s *Store) QueryAttempts(ctx context.Context, f AttemptFilter) ([]quiz.Attempt, error) {
	b := s.builder()
	sel := b.Select(attemptColumns...).From(b.Table("attempts"))

	if f.StudentID != "" {
		sel.Where(entsql.EQ("student_id", f.StudentID))
	}
	if f.QuizID != "" {
		sel.Where(entsql.EQ("quiz_id", f.QuizID))
	}
	if f.SessionID != "" {
		sel.Where(entsql.EQ("session_id", f.SessionID))
	}
	if len(f.QuestionIDs) > 0 {
		sel.Where(entsql.In("question_id", toAny(f.QuestionIDs)...))
	}
	if f.Newest {
		sel.OrderBy(entsql.Desc("sequence"))
	} else {
		sel.OrderBy("sequence")
	}
	if f.Limit > 0 {
		sel.Limit(f.Limit)
	}

	query, args := sel.Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []quiz.Attempt
	for rows.Next() {
		var (
			a         quiz.Attempt
			seq       int64
			timeTaken sql.NullInt64
			createdMs int64
		)
		if err := rows.Scan(&a.ID, &seq, &a.StudentID, &a.QuestionID, &a.QuizID, &a.SessionID,
			&a.SubmittedAnswer, &a.Correct, &timeTaken, &createdMs); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if timeTaken.Valid {
			secs := int(timeTaken.Int64)
			a.TimeTakenSecs = &secs
		}
		a.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return out, nil
}

// DeleteAllAttempts removes every attempt and restarts the sequence.
// This is the bulk reset operation; the engine never deletes attempts.
func (s *Store) DeleteAllAttempts(ctx context.Context) (int64, error) {
	query, args := s.builder().Delete("attempts").Query()
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete attempts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete attempts: %w", err)
	}
	if err := s.seq.Reset(ctx); err != nil {
		return n, err
	}
	return n, nil
}
