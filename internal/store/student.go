package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/adaptquiz/internal/level"
	"github.com/abhisek/adaptquiz/internal/quiz"
)

var studentColumns = []string{"id", "name", "level", "grade", "class_section", "gender", "created_at"}

func (s *Store) CreateStudent(ctx context.Context, st quiz.Student) (quiz.Student, error) {
	if st.ID == "" {
		return quiz.Student{}, fmt.Errorf("create student: empty id")
	}
	st.Level = level.Unknown
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}

	query, args := s.builder().Insert("students").
		Columns(studentColumns...).
		Values(st.ID, st.Name, string(st.Level), st.Grade, st.ClassSection, st.Gender, st.CreatedAt.UnixMilli()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return quiz.Student{}, fmt.Errorf("create student %q: %w", st.ID, err)
	}
	st.CreatedAt = time.UnixMilli(st.CreatedAt.UnixMilli()).UTC()
	return st, nil
}

func (s *Store) GetStudent(ctx context.Context, id string) (quiz.Student, error) {
	b := s.builder()
	query, args := b.Select(studentColumns...).
		From(b.Table("students")).
		Where(entsql.EQ("id", id)).
		Query()

	st, err := scanStudent(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Student{}, fmt.Errorf("student %q: %w", id, ErrNotFound)
	}
	return st, err
}

func (s *Store) SetLevel(ctx context.Context, id string, l level.Level) error {
	query, args := s.builder().Update("students").
		Set("level", string(l)).
		Where(entsql.EQ("id", id)).
		Query()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set level of %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set level of %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("student %q: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) ListStudents(ctx context.Context, f StudentFilter) ([]quiz.Student, error) {
	b := s.builder()
	sel := b.Select(studentColumns...).From(b.Table("students"))
	if f.Grade != "" {
		sel.Where(entsql.EQ("grade", f.Grade))
	}
	if f.ClassSection != "" {
		sel.Where(entsql.EQ("class_section", f.ClassSection))
	}
	if len(f.IDs) > 0 {
		sel.Where(entsql.In("id", toAny(f.IDs)...))
	}
	sel.OrderBy("grade", "class_section", "id")

	query, args := sel.Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	var out []quiz.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return out, nil
}

func scanStudent(r rowScanner) (quiz.Student, error) {
	var (
		st        quiz.Student
		lvl       string
		createdMs int64
	)
	err := r.Scan(&st.ID, &st.Name, &lvl, &st.Grade, &st.ClassSection, &st.Gender, &createdMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Student{}, err
		}
		return quiz.Student{}, fmt.Errorf("scan student: %w", err)
	}

	// An unrecognized stored level reads as Unknown rather than failing.
	st.Level, _ = level.ParseLevel(lvl)
	st.CreatedAt = time.UnixMilli(createdMs).UTC()
	return st, nil
}
