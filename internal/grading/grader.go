package grading

import (
	"strings"

	"github.com/abhisek/adaptquiz/internal/quiz"
)

// Reason explains how a grading decision was reached. It is diagnostic
// only; callers should branch on Result.Correct.
type Reason string

const (
	ReasonExact         Reason = "exact"
	ReasonMismatch      Reason = "mismatch"
	ReasonEmptyAnswer   Reason = "empty_answer"
	ReasonUngradableKey Reason = "ungradable_key"
	ReasonOverlap       Reason = "overlap"
	ReasonUnknownType   Reason = "unknown_type"
)

// Result is the outcome of grading one submitted answer.
type Result struct {
	Correct bool

	// Overlap is the keyword-overlap ratio for free-text questions.
	// Always 0 for choice questions.
	Overlap float64

	Reason Reason
}

// Grader grades submitted answers against a question's answer key.
// It holds no mutable state and is safe for concurrent use.
type Grader struct {
	cfg Config
}

// New creates a Grader. A non-positive threshold falls back to the default.
func New(cfg Config) *Grader {
	if cfg.OverlapThreshold <= 0 {
		cfg.OverlapThreshold = DefaultOverlapThreshold
	}
	return &Grader{cfg: cfg}
}

// Threshold returns the free-text overlap threshold in effect.
func (g *Grader) Threshold() float64 {
	return g.cfg.OverlapThreshold
}

// Grade compares rawAnswer against q's answer key using the rule for q's
// type. A malformed question grades as incorrect rather than failing.
func (g *Grader) Grade(q quiz.Question, rawAnswer string) Result {
	switch q.Type {
	case quiz.TypeChoice:
		return gradeChoice(q, rawAnswer)
	case quiz.TypeFreeText:
		return g.gradeFreeText(q, rawAnswer)
	default:
		return Result{Reason: ReasonUnknownType}
	}
}

// gradeChoice requires the trimmed, case-folded answer to equal the key.
func gradeChoice(q quiz.Question, rawAnswer string) Result {
	key := strings.TrimSpace(q.AnswerKey)
	if key == "" || !q.HasChoice(key) {
		return Result{Reason: ReasonUngradableKey}
	}

	answer := strings.TrimSpace(rawAnswer)
	if answer == "" {
		return Result{Reason: ReasonEmptyAnswer}
	}

	if strings.ToLower(answer) == strings.ToLower(key) {
		return Result{Correct: true, Reason: ReasonExact}
	}
	return Result{Reason: ReasonMismatch}
}

// gradeFreeText marks the answer correct when it covers enough of the
// key's distinct words.
func (g *Grader) gradeFreeText(q quiz.Question, rawAnswer string) Result {
	keyWords := Tokenize(q.AnswerKey)
	if len(keyWords) == 0 {
		return Result{Reason: ReasonUngradableKey}
	}

	overlap := Overlap(keyWords, Tokenize(rawAnswer))
	return Result{
		Correct: overlap >= g.cfg.OverlapThreshold,
		Overlap: overlap,
		Reason:  ReasonOverlap,
	}
}
