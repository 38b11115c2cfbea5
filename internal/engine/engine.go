// Package engine wires selection, grading, aggregation and classification
// into the placement and quiz flows.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/adaptquiz/internal/grading"
	"github.com/abhisek/adaptquiz/internal/level"
	"github.com/abhisek/adaptquiz/internal/metrics"
	"github.com/abhisek/adaptquiz/internal/quiz"
	"github.com/abhisek/adaptquiz/internal/selection"
	"github.com/abhisek/adaptquiz/internal/stats"
	"github.com/abhisek/adaptquiz/internal/store"
)

// DefaultQuizCount is the number of questions in an adaptive quiz when
// the caller does not ask for a specific count.
const DefaultQuizCount = 5

// Config holds the engine's tunables.
type Config struct {
	PlacementQuota   selection.Quota
	DefaultQuizCount int
}

// DefaultConfig returns the standard placement quota and quiz length.
func DefaultConfig() Config {
	return Config{
		PlacementQuota:   selection.DefaultPlacementQuota(),
		DefaultQuizCount: DefaultQuizCount,
	}
}

// Errors returned when a session does not fit the operation.
var (
	ErrNotPlacement = errors.New("session is not a placement round")
	ErrWrongStudent = errors.New("session belongs to another student")
	ErrNotInRound   = errors.New("question was not served in this session")
	ErrNoAnswers    = errors.New("no questions of the session were answered")
)

// Deps are the collaborators an Engine needs. Selector, Grader and Logger
// default when nil; a nil Metrics records nothing.
type Deps struct {
	Questions store.QuestionRepository
	Students  store.StudentRepository
	Attempts  store.AttemptRepository
	Rounds    store.RoundRepository
	Selector  *selection.Selector
	Grader    *grading.Grader
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Config    Config
}

// Engine runs placement tests and adaptive quizzes.
type Engine struct {
	questions store.QuestionRepository
	students  store.StudentRepository
	attempts  store.AttemptRepository
	rounds    store.RoundRepository
	agg       *stats.Aggregator
	selector  *selection.Selector
	grader    *grading.Grader
	log       *zap.Logger
	metrics   *metrics.Metrics
	cfg       Config
}

// Round is a set of questions served to one student under one session ID.
type Round struct {
	SessionID string
	StudentID string
	Questions []quiz.Question
}

// Submission is a student's answer to one question.
type Submission struct {
	StudentID     string
	QuestionID    string
	QuizID        string
	SessionID     string
	Answer        string
	TimeTakenSecs *int
}

// New creates an Engine.
func New(d Deps) (*Engine, error) {
	if d.Questions == nil || d.Students == nil || d.Attempts == nil || d.Rounds == nil {
		return nil, errors.New("engine: question, student, attempt and round repositories are required")
	}
	if d.Selector == nil {
		d.Selector = selection.NewDefault()
	}
	if d.Grader == nil {
		d.Grader = grading.New(grading.DefaultConfig())
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Config.PlacementQuota == nil {
		d.Config.PlacementQuota = selection.DefaultPlacementQuota()
	}
	if d.Config.DefaultQuizCount <= 0 {
		d.Config.DefaultQuizCount = DefaultQuizCount
	}

	return &Engine{
		questions: d.Questions,
		students:  d.Students,
		attempts:  d.Attempts,
		rounds:    d.Rounds,
		agg:       stats.New(d.Attempts),
		selector:  d.Selector,
		grader:    d.Grader,
		log:       d.Logger,
		metrics:   d.Metrics,
		cfg:       d.Config,
	}, nil
}

// StartPlacement selects a placement round for the student from the
// questions of the student's grade. Fields set on filter narrow the pool
// further; a Grade on filter overrides the student's.
func (e *Engine) StartPlacement(ctx context.Context, studentID string, filter store.QuestionFilter) (Round, error) {
	student, err := e.students.GetStudent(ctx, studentID)
	if err != nil {
		return Round{}, fmt.Errorf("start placement: %w", err)
	}
	if filter.Grade == "" {
		filter.Grade = student.Grade
	}

	pool, err := e.questions.FindQuestions(ctx, filter)
	if err != nil {
		return Round{}, fmt.Errorf("start placement: load pool: %w", err)
	}

	quota := e.cfg.PlacementQuota
	round, err := e.newRound(ctx, quiz.RoundPlacement, studentID, e.selector.Select(pool, quota.Total(), quota))
	if err != nil {
		return Round{}, fmt.Errorf("start placement: %w", err)
	}
	e.metrics.ObserveRound("placement", len(round.Questions))

	e.log.Info("placement started",
		zap.String("student", studentID),
		zap.String("session", round.SessionID),
		zap.Int("pool", len(pool)),
		zap.Int("selected", len(round.Questions)))
	return round, nil
}

// StartQuiz selects count questions matched to the student's level.
// A non-positive count uses the configured default. Without a quiz or
// grade on filter the pool is the student's grade.
func (e *Engine) StartQuiz(ctx context.Context, studentID string, filter store.QuestionFilter, count int) (Round, error) {
	student, err := e.students.GetStudent(ctx, studentID)
	if err != nil {
		return Round{}, fmt.Errorf("start quiz: %w", err)
	}
	if count <= 0 {
		count = e.cfg.DefaultQuizCount
	}
	if filter.QuizID == "" && filter.Grade == "" {
		filter.Grade = student.Grade
	}

	pool, err := e.questions.FindQuestions(ctx, filter)
	if err != nil {
		return Round{}, fmt.Errorf("start quiz: load pool: %w", err)
	}

	round, err := e.newRound(ctx, quiz.RoundQuiz, studentID, e.selector.Select(pool, count, selection.LevelSet{Level: student.Level}))
	if err != nil {
		return Round{}, fmt.Errorf("start quiz: %w", err)
	}
	e.metrics.ObserveRound("quiz", len(round.Questions))

	e.log.Info("quiz started",
		zap.String("student", studentID),
		zap.String("session", round.SessionID),
		zap.String("level", string(student.Level)),
		zap.Int("pool", len(pool)),
		zap.Int("selected", len(round.Questions)))
	return round, nil
}

// Submit grades an answer and records the attempt. The quiz ID defaults
// to the question's own quiz. With a session ID the question must be one
// the session served to the same student.
func (e *Engine) Submit(ctx context.Context, sub Submission) (quiz.Attempt, grading.Result, error) {
	if sub.StudentID == "" {
		return quiz.Attempt{}, grading.Result{}, errors.New("submit: empty student id")
	}
	if sub.SessionID != "" {
		r, err := e.studentRound(ctx, sub.StudentID, sub.SessionID)
		if err != nil {
			return quiz.Attempt{}, grading.Result{}, fmt.Errorf("submit: %w", err)
		}
		if !r.Contains(sub.QuestionID) {
			return quiz.Attempt{}, grading.Result{}, fmt.Errorf("submit: question %q: %w", sub.QuestionID, ErrNotInRound)
		}
	}
	q, err := e.questions.GetQuestion(ctx, sub.QuestionID)
	if err != nil {
		return quiz.Attempt{}, grading.Result{}, fmt.Errorf("submit: %w", err)
	}

	res := e.grader.Grade(q, sub.Answer)
	if res.Reason == grading.ReasonUngradableKey {
		e.log.Warn("question has an ungradable answer key", zap.String("question", q.ID))
	}

	quizID := sub.QuizID
	if quizID == "" {
		quizID = q.QuizID
	}

	saved, err := e.agg.Record(ctx, quiz.Attempt{
		StudentID:       sub.StudentID,
		QuestionID:      q.ID,
		QuizID:          quizID,
		SessionID:       sub.SessionID,
		SubmittedAnswer: sub.Answer,
		Correct:         res.Correct,
		TimeTakenSecs:   sub.TimeTakenSecs,
	})
	if err != nil {
		return quiz.Attempt{}, res, fmt.Errorf("submit: %w", err)
	}
	e.metrics.ObserveAnswer(string(q.Type), res.Correct)

	e.log.Debug("answer graded",
		zap.String("student", sub.StudentID),
		zap.String("question", q.ID),
		zap.Bool("correct", res.Correct),
		zap.String("reason", string(res.Reason)),
		zap.Float64("overlap", res.Overlap))
	return saved, res, nil
}

// CompletePlacement classifies the student from the placement session
// and persists the level. Each served question counts once, by its first
// attempt, and unanswered questions count as wrong. The level is left
// untouched when the session is unknown, is not a placement round or
// has no answered questions.
func (e *Engine) CompletePlacement(ctx context.Context, studentID, sessionID string) (level.Level, error) {
	if sessionID == "" {
		return level.Unknown, errors.New("complete placement: empty session id")
	}
	r, err := e.studentRound(ctx, studentID, sessionID)
	if err != nil {
		return level.Unknown, fmt.Errorf("complete placement: %w", err)
	}
	if r.Kind != quiz.RoundPlacement {
		return level.Unknown, fmt.Errorf("complete placement: session %q: %w", sessionID, ErrNotPlacement)
	}

	attempts, err := e.attempts.QueryAttempts(ctx, store.AttemptFilter{
		StudentID: studentID,
		SessionID: sessionID,
	})
	if err != nil {
		return level.Unknown, fmt.Errorf("complete placement: %w", err)
	}
	correct, answered, total := stats.ScoreRound(attempts, r.QuestionIDs)
	if answered == 0 {
		return level.Unknown, fmt.Errorf("complete placement: session %q: %w", sessionID, ErrNoAnswers)
	}

	lvl := level.Classify(correct, total)
	if err := e.students.SetLevel(ctx, studentID, lvl); err != nil {
		return level.Unknown, fmt.Errorf("complete placement: %w", err)
	}
	e.metrics.ObservePlacement(string(lvl))

	e.log.Info("placement completed",
		zap.String("student", studentID),
		zap.String("session", sessionID),
		zap.Int("correct", correct),
		zap.Int("answered", answered),
		zap.Int("served", total),
		zap.String("level", string(lvl)))
	return lvl, nil
}

// Report aggregates the attempts matching filter by the given dimension.
// Attempts whose student or question no longer exists are left out of
// dimensions that need them.
func (e *Engine) Report(ctx context.Context, dim stats.Dimension, filter store.AttemptFilter) (map[string]stats.GroupStats, error) {
	attempts, err := e.attempts.QueryAttempts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	var (
		students  map[string]quiz.Student
		questions map[string]quiz.Question
	)
	if dim.NeedsStudents() {
		if students, err = e.loadStudents(ctx, attempts); err != nil {
			return nil, fmt.Errorf("report: %w", err)
		}
	}
	if dim.NeedsQuestions() {
		if questions, err = e.loadQuestions(ctx, attempts); err != nil {
			return nil, fmt.Errorf("report: %w", err)
		}
	}

	key, err := stats.KeyFor(dim, students, questions)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	return stats.Aggregate(attempts, key), nil
}

// newRound persists the served question IDs under a fresh session ID.
func (e *Engine) newRound(ctx context.Context, kind quiz.RoundKind, studentID string, questions []quiz.Question) (Round, error) {
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	r := quiz.Round{
		ID:          uuid.New().String(),
		StudentID:   studentID,
		Kind:        kind,
		QuestionIDs: ids,
	}
	if err := e.rounds.SaveRound(ctx, r); err != nil {
		return Round{}, fmt.Errorf("save round: %w", err)
	}
	return Round{
		SessionID: r.ID,
		StudentID: studentID,
		Questions: questions,
	}, nil
}

func (e *Engine) studentRound(ctx context.Context, studentID, sessionID string) (quiz.Round, error) {
	r, err := e.rounds.GetRound(ctx, sessionID)
	if err != nil {
		return quiz.Round{}, err
	}
	if r.StudentID != studentID {
		return quiz.Round{}, fmt.Errorf("session %q: %w", sessionID, ErrWrongStudent)
	}
	return r, nil
}

func (e *Engine) loadStudents(ctx context.Context, attempts []quiz.Attempt) (map[string]quiz.Student, error) {
	out := make(map[string]quiz.Student)
	for _, id := range distinct(attempts, func(a quiz.Attempt) string { return a.StudentID }) {
		s, err := e.students.GetStudent(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[id] = s
	}
	return out, nil
}

func (e *Engine) loadQuestions(ctx context.Context, attempts []quiz.Attempt) (map[string]quiz.Question, error) {
	ids := distinct(attempts, func(a quiz.Attempt) string { return a.QuestionID })
	if len(ids) == 0 {
		return nil, nil
	}
	qs, err := e.questions.FindQuestions(ctx, store.QuestionFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	out := make(map[string]quiz.Question, len(qs))
	for _, q := range qs {
		out[q.ID] = q
	}
	return out, nil
}

func distinct(attempts []quiz.Attempt, f func(quiz.Attempt) string) []string {
	var out []string
	for _, a := range attempts {
		if id := f(a); id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
