package store

import (
	"context"
	"errors"

	"github.com/abhisek/adaptquiz/internal/level"
	"github.com/abhisek/adaptquiz/internal/quiz"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("not found")

// QuestionFilter narrows a question lookup. Zero-valued fields are ignored.
type QuestionFilter struct {
	Grade      string
	Subject    string
	QuizID     string
	PassageID  string
	Difficulty quiz.Difficulty
	IDs        []string
}

// StudentFilter narrows a student listing. Zero-valued fields are ignored.
type StudentFilter struct {
	Grade        string
	ClassSection string
	IDs          []string
}

// AttemptFilter narrows an attempt query. Zero-valued fields are ignored.
type AttemptFilter struct {
	StudentID   string
	QuizID      string
	SessionID   string
	QuestionIDs []string

	Limit  int  // max results (0 = unlimited)
	Newest bool // newest first instead of submission order
}

// QuestionRepository provides read access to authored questions.
type QuestionRepository interface {
	// FindQuestions returns the questions matching the filter.
	FindQuestions(ctx context.Context, f QuestionFilter) ([]quiz.Question, error)

	// GetQuestion returns a single question or ErrNotFound.
	GetQuestion(ctx context.Context, id string) (quiz.Question, error)
}

// StudentRepository manages students and their proficiency level.
type StudentRepository interface {
	// GetStudent returns a student or ErrNotFound.
	GetStudent(ctx context.Context, id string) (quiz.Student, error)

	// SetLevel persists a classified level. Returns ErrNotFound for an
	// unknown student.
	SetLevel(ctx context.Context, id string, l level.Level) error
}

// StudentDirectory adds the enrollment operations the engine itself does
// not need.
type StudentDirectory interface {
	StudentRepository

	// CreateStudent stores a new student. The level always starts Unknown.
	CreateStudent(ctx context.Context, s quiz.Student) (quiz.Student, error)

	// ListStudents returns the students matching the filter.
	ListStudents(ctx context.Context, f StudentFilter) ([]quiz.Student, error)
}

// AttemptRepository is the append-only store of graded attempts.
type AttemptRepository interface {
	// SaveAttempt stores a new attempt and returns the stored record.
	SaveAttempt(ctx context.Context, a quiz.Attempt) (quiz.Attempt, error)

	// QueryAttempts returns attempts matching the filter, in submission
	// order unless Newest is set.
	QueryAttempts(ctx context.Context, f AttemptFilter) ([]quiz.Attempt, error)
}

// RoundRepository records the questions served under each session ID.
type RoundRepository interface {
	// SaveRound stores a new round.
	SaveRound(ctx context.Context, r quiz.Round) error

	// GetRound returns a round or ErrNotFound.
	GetRound(ctx context.Context, id string) (quiz.Round, error)
}

// QuizRepository stores authored quizzes, passages and questions.
type QuizRepository interface {
	SaveQuiz(ctx context.Context, q quiz.Quiz) error
	SavePassage(ctx context.Context, p quiz.Passage) error
	SaveQuestion(ctx context.Context, q quiz.Question) error

	// GetQuiz returns a quiz or ErrNotFound.
	GetQuiz(ctx context.Context, id string) (quiz.Quiz, error)
}

// Compile-time interface checks.
var (
	_ QuestionRepository = (*Store)(nil)
	_ StudentDirectory   = (*Store)(nil)
	_ AttemptRepository  = (*Store)(nil)
	_ RoundRepository    = (*Store)(nil)
	_ QuizRepository     = (*Store)(nil)
)
