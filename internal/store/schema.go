package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions for ent's auto-migration. Timestamps are Unix
// milliseconds; question choices are a JSON array.
var (
	studentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Default: ""},
		{Name: "level", Type: field.TypeString, Default: "unknown"},
		{Name: "grade", Type: field.TypeString, Default: ""},
		{Name: "class_section", Type: field.TypeString, Default: ""},
		{Name: "gender", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeInt64},
	}
	studentsTable = &schema.Table{
		Name:       "students",
		Columns:    studentsColumns,
		PrimaryKey: []*schema.Column{studentsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "students_grade_class_section", Columns: []*schema.Column{studentsColumns[3], studentsColumns[4]}},
		},
	}

	quizzesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString, Default: ""},
		{Name: "grade", Type: field.TypeString, Default: ""},
		{Name: "subject", Type: field.TypeString, Default: ""},
		{Name: "timer_seconds", Type: field.TypeInt, Default: 0},
	}
	quizzesTable = &schema.Table{
		Name:       "quizzes",
		Columns:    quizzesColumns,
		PrimaryKey: []*schema.Column{quizzesColumns[0]},
	}

	passagesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "quiz_id", Type: field.TypeString, Default: ""},
		{Name: "title", Type: field.TypeString, Default: ""},
		{Name: "body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	passagesTable = &schema.Table{
		Name:       "passages",
		Columns:    passagesColumns,
		PrimaryKey: []*schema.Column{passagesColumns[0]},
	}

	questionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "text", Type: field.TypeString, Size: 2147483647},
		{Name: "type", Type: field.TypeString},
		{Name: "choices", Type: field.TypeString, Size: 2147483647, Default: "[]"},
		{Name: "answer_key", Type: field.TypeString, Size: 2147483647},
		{Name: "difficulty", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString, Default: ""},
		{Name: "grade", Type: field.TypeString, Default: ""},
		{Name: "quiz_id", Type: field.TypeString, Default: ""},
		{Name: "passage_id", Type: field.TypeString, Default: ""},
	}
	questionsTable = &schema.Table{
		Name:       "questions",
		Columns:    questionsColumns,
		PrimaryKey: []*schema.Column{questionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "questions_quiz_id", Columns: []*schema.Column{questionsColumns[8]}},
			{Name: "questions_grade_subject", Columns: []*schema.Column{questionsColumns[7], questionsColumns[6]}},
		},
	}

	attemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "student_id", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeString},
		{Name: "quiz_id", Type: field.TypeString, Default: ""},
		{Name: "session_id", Type: field.TypeString, Default: ""},
		{Name: "submitted_answer", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "correct", Type: field.TypeBool},
		{Name: "time_taken_secs", Type: field.TypeInt, Nullable: true},
		{Name: "created_at", Type: field.TypeInt64},
	}
	attemptsTable = &schema.Table{
		Name:       "attempts",
		Columns:    attemptsColumns,
		PrimaryKey: []*schema.Column{attemptsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "attempts_student_id", Columns: []*schema.Column{attemptsColumns[2]}},
			{Name: "attempts_session_id", Columns: []*schema.Column{attemptsColumns[5]}},
			{Name: "attempts_quiz_id", Columns: []*schema.Column{attemptsColumns[4]}},
		},
	}

	roundsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "student_id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "question_ids", Type: field.TypeString, Size: 2147483647, Default: "[]"},
		{Name: "created_at", Type: field.TypeInt64},
	}
	roundsTable = &schema.Table{
		Name:       "rounds",
		Columns:    roundsColumns,
		PrimaryKey: []*schema.Column{roundsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "rounds_student_id", Columns: []*schema.Column{roundsColumns[1]}},
		},
	}

	tables = []*schema.Table{
		studentsTable,
		quizzesTable,
		passagesTable,
		questionsTable,
		attemptsTable,
		roundsTable,
	}
)

// ensureSchema runs ent's auto-migration for the engine tables. Missing
// tables, columns and indexes are added; nothing is dropped.
func ensureSchema(ctx context.Context, db *sql.DB, driver string) error {
	m, err := schema.NewMigrate(entsql.OpenDB(driver, db))
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
