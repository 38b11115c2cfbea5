package quiz

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/adaptquiz/internal/level"
)

// Difficulty is the author-assigned tier of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AllDifficulties returns all difficulties from easiest to hardest.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// DisplayName returns a human-readable label for the difficulty.
func (d Difficulty) DisplayName() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	default:
		return string(d)
	}
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty converts a string into a Difficulty, ignoring case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// QuestionType describes how a question is answered and graded.
type QuestionType string

const (
	// TypeChoice questions are answered by picking one of up to four options.
	TypeChoice QuestionType = "choice"

	// TypeFreeText questions are answered in prose and graded by keyword overlap.
	TypeFreeText QuestionType = "free_text"
)

// DisplayName returns a human-readable label for the question type.
func (t QuestionType) DisplayName() string {
	switch t {
	case TypeChoice:
		return "Multiple choice"
	case TypeFreeText:
		return "Free text"
	default:
		return string(t)
	}
}

// ParseQuestionType converts a string into a QuestionType, ignoring case.
func ParseQuestionType(s string) (QuestionType, error) {
	switch t := QuestionType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeChoice, TypeFreeText:
		return t, nil
	default:
		return "", fmt.Errorf("unknown question type %q", s)
	}
}

// MaxChoices is the maximum number of options on a choice question.
const MaxChoices = 4

// Question is an authored question. Questions are immutable inputs to the
// engine.
type Question struct {
	ID   string
	Text string
	Type QuestionType

	// Choices holds the options in presentation order. Only set for
	// TypeChoice, at most MaxChoices entries.
	Choices []string

	// AnswerKey is the exact option text for choice questions and the
	// keyword reference text for free-text questions.
	AnswerKey string

	Difficulty Difficulty

	Subject   string
	Grade     string
	QuizID    string
	PassageID string
}

// Student is the engine's view of a learner. Grade, ClassSection and Gender
// are descriptive only and are used as report grouping keys.
type Student struct {
	ID           string
	Name         string
	Level        level.Level
	Grade        string
	ClassSection string
	Gender       string
	CreatedAt    time.Time
}

// Quiz logically groups a set of questions, directly or through passages.
type Quiz struct {
	ID           string
	Title        string
	Grade        string
	Subject      string
	TimerSeconds int // 0 = untimed
}

// Passage is an inert container grouping a block of reading text with a
// subset of a quiz's questions.
type Passage struct {
	ID     string
	QuizID string
	Title  string
	Body   string
}

// Attempt is one graded submission. Attempts are append-only history.
type Attempt struct {
	ID         string
	StudentID  string
	QuestionID string

	// QuizID is empty for ad hoc grading outside a quiz.
	QuizID string

	// SessionID groups the attempts of one placement round or quiz sitting.
	SessionID string

	SubmittedAnswer string
	Correct         bool

	// TimeTakenSecs is nil when the caller did not time the answer.
	TimeTakenSecs *int

	CreatedAt time.Time
}

// RoundKind tells placement rounds apart from ordinary quizzes.
type RoundKind string

const (
	RoundPlacement RoundKind = "placement"
	RoundQuiz      RoundKind = "quiz"
)

// Round records which questions were served to a student under one
// session ID. Placement classification is scored against it.
type Round struct {
	ID          string // the session ID handed to the student
	StudentID   string
	Kind        RoundKind
	QuestionIDs []string
	CreatedAt   time.Time
}

// Contains reports whether the question was served in the round.
func (r Round) Contains(questionID string) bool {
	return slices.Contains(r.QuestionIDs, questionID)
}
