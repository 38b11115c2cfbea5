package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adaptquiz/internal/grading"
	"github.com/abhisek/adaptquiz/internal/level"
	"github.com/abhisek/adaptquiz/internal/metrics"
	"github.com/abhisek/adaptquiz/internal/quiz"
	"github.com/abhisek/adaptquiz/internal/selection"
	"github.com/abhisek/adaptquiz/internal/stats"
	"github.com/abhisek/adaptquiz/internal/store"
)

// memRepo is an in-memory implementation of the engine's repositories.
type memRepo struct {
	questions map[string]quiz.Question
	students  map[string]quiz.Student
	attempts  []quiz.Attempt
	rounds    map[string]quiz.Round

	findErr  error
	saveErr  error
	roundErr error
}

func newMemRepo() *memRepo {
	return &memRepo{
		questions: make(map[string]quiz.Question),
		students:  make(map[string]quiz.Student),
		rounds:    make(map[string]quiz.Round),
	}
}

func (m *memRepo) FindQuestions(_ context.Context, f store.QuestionFilter) ([]quiz.Question, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []quiz.Question
	for _, q := range m.questions {
		if f.Grade != "" && q.Grade != f.Grade {
			continue
		}
		if f.Subject != "" && q.Subject != f.Subject {
			continue
		}
		if f.QuizID != "" && q.QuizID != f.QuizID {
			continue
		}
		if f.Difficulty != "" && q.Difficulty != f.Difficulty {
			continue
		}
		if len(f.IDs) > 0 && !slices.Contains(f.IDs, q.ID) {
			continue
		}
		out = append(out, q)
	}
	slices.SortFunc(out, func(a, b quiz.Question) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out, nil
}

func (m *memRepo) GetQuestion(_ context.Context, id string) (quiz.Question, error) {
	q, ok := m.questions[id]
	if !ok {
		return quiz.Question{}, fmt.Errorf("question %q: %w", id, store.ErrNotFound)
	}
	return q, nil
}

func (m *memRepo) GetStudent(_ context.Context, id string) (quiz.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return quiz.Student{}, fmt.Errorf("student %q: %w", id, store.ErrNotFound)
	}
	return s, nil
}

func (m *memRepo) SetLevel(_ context.Context, id string, l level.Level) error {
	s, ok := m.students[id]
	if !ok {
		return fmt.Errorf("student %q: %w", id, store.ErrNotFound)
	}
	s.Level = l
	m.students[id] = s
	return nil
}

func (m *memRepo) SaveAttempt(_ context.Context, a quiz.Attempt) (quiz.Attempt, error) {
	if m.saveErr != nil {
		return quiz.Attempt{}, m.saveErr
	}
	a.ID = fmt.Sprintf("a%d", len(m.attempts)+1)
	m.attempts = append(m.attempts, a)
	return a, nil
}

func (m *memRepo) QueryAttempts(_ context.Context, f store.AttemptFilter) ([]quiz.Attempt, error) {
	var out []quiz.Attempt
	for _, a := range m.attempts {
		if f.StudentID != "" && a.StudentID != f.StudentID {
			continue
		}
		if f.SessionID != "" && a.SessionID != f.SessionID {
			continue
		}
		if f.QuizID != "" && a.QuizID != f.QuizID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memRepo) SaveRound(_ context.Context, r quiz.Round) error {
	if m.roundErr != nil {
		return m.roundErr
	}
	m.rounds[r.ID] = r
	return nil
}

func (m *memRepo) GetRound(_ context.Context, id string) (quiz.Round, error) {
	r, ok := m.rounds[id]
	if !ok {
		return quiz.Round{}, fmt.Errorf("round %q: %w", id, store.ErrNotFound)
	}
	return r, nil
}

// seedPool adds n questions per difficulty for grade 5, all answered "ok".
func seedPool(m *memRepo, n int) {
	for _, d := range quiz.AllDifficulties() {
		for i := range n {
			id := fmt.Sprintf("%s-%02d", d, i)
			m.questions[id] = quiz.Question{
				ID: id, Text: "question " + id, Type: quiz.TypeChoice,
				Choices: []string{"ok", "wrong"}, AnswerKey: "ok",
				Difficulty: d, Subject: "math", Grade: "5", QuizID: "z1",
			}
		}
	}
}

func newTestEngine(t *testing.T, m *memRepo) *Engine {
	t.Helper()
	e, err := New(Deps{
		Questions: m,
		Students:  m,
		Attempts:  m,
		Rounds:    m,
		Selector:  selection.New(rand.NewPCG(1, 2)),
	})
	require.NoError(t, err)
	return e
}

func countByDifficulty(qs []quiz.Question) map[quiz.Difficulty]int {
	out := make(map[quiz.Difficulty]int)
	for _, q := range qs {
		out[q.Difficulty]++
	}
	return out
}

func TestNew_RequiresRepositories(t *testing.T) {
	m := newMemRepo()
	tests := []struct {
		name string
		deps Deps
	}{
		{"none", Deps{}},
		{"no rounds", Deps{Questions: m, Students: m, Attempts: m}},
		{"no attempts", Deps{Questions: m, Students: m, Rounds: m}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.deps)
			assert.Error(t, err)
		})
	}
}

// startAnswered starts a placement round for s1 and answers the given
// question indexes, correctly when ok is true.
func startAnswered(t *testing.T, e *Engine, answers []int, ok bool) Round {
	t.Helper()
	ctx := context.Background()
	round, err := e.StartPlacement(ctx, "s1", store.QuestionFilter{})
	require.NoError(t, err)
	require.Len(t, round.Questions, 5)

	answer := "wrong"
	if ok {
		answer = "ok"
	}
	for _, i := range answers {
		_, _, err := e.Submit(ctx, Submission{
			StudentID: "s1", QuestionID: round.Questions[i].ID, SessionID: round.SessionID, Answer: answer,
		})
		require.NoError(t, err)
	}
	return round
}

func placementFixture(t *testing.T, lvl level.Level) (*memRepo, *Engine) {
	t.Helper()
	m := newMemRepo()
	seedPool(m, 7)
	m.students["s1"] = quiz.Student{ID: "s1", Grade: "5", Level: lvl}
	m.students["s2"] = quiz.Student{ID: "s2", Grade: "5", Level: lvl}
	return m, newTestEngine(t, m)
}

func TestPlacement_EndToEnd(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		want    level.Level
	}{
		{"four of five", 4, level.Advanced},
		{"three of five", 3, level.Intermediate},
		{"one of five", 1, level.Beginner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMemRepo()
			seedPool(m, 7) // 21 questions across three difficulties
			m.students["s1"] = quiz.Student{ID: "s1", Grade: "5", Level: level.Unknown}
			e := newTestEngine(t, m)
			ctx := context.Background()

			round, err := e.StartPlacement(ctx, "s1", store.QuestionFilter{})
			require.NoError(t, err)
			require.Len(t, round.Questions, 5)
			assert.NotEmpty(t, round.SessionID)
			assert.Equal(t, map[quiz.Difficulty]int{
				quiz.DifficultyEasy: 2, quiz.DifficultyMedium: 2, quiz.DifficultyHard: 1,
			}, countByDifficulty(round.Questions))

			for i, q := range round.Questions {
				answer := "wrong"
				if i < tt.correct {
					answer = "ok"
				}
				_, res, err := e.Submit(ctx, Submission{
					StudentID: "s1", QuestionID: q.ID, SessionID: round.SessionID, Answer: answer,
				})
				require.NoError(t, err)
				assert.Equal(t, i < tt.correct, res.Correct)
			}

			lvl, err := e.CompletePlacement(ctx, "s1", round.SessionID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lvl)
			assert.Equal(t, tt.want, m.students["s1"].Level)
		})
	}
}

func TestCompletePlacement_IgnoresOtherSessions(t *testing.T) {
	m, e := placementFixture(t, level.Unknown)
	ctx := context.Background()

	old := startAnswered(t, e, []int{0, 1, 2, 3, 4}, false)
	current := startAnswered(t, e, []int{0, 1, 2, 3, 4}, true)

	lvl, err := e.CompletePlacement(ctx, "s1", current.SessionID)
	require.NoError(t, err)
	assert.Equal(t, level.Advanced, lvl)

	lvl, err = e.CompletePlacement(ctx, "s1", old.SessionID)
	require.NoError(t, err)
	assert.Equal(t, level.Beginner, lvl)
	assert.Equal(t, level.Beginner, m.students["s1"].Level)
}

func TestCompletePlacement_RepeatedAnswersCountOnce(t *testing.T) {
	m, e := placementFixture(t, level.Unknown)
	round := startAnswered(t, e, []int{0, 0, 0, 0, 0}, true)

	lvl, err := e.CompletePlacement(context.Background(), "s1", round.SessionID)
	require.NoError(t, err)
	assert.Equal(t, level.Beginner, lvl)
	assert.Equal(t, level.Beginner, m.students["s1"].Level)
}

func TestCompletePlacement_SkippedQuestionsCountAsWrong(t *testing.T) {
	tests := []struct {
		name    string
		answers []int
		want    level.Level
	}{
		{"three answered two skipped", []int{0, 1, 2}, level.Intermediate},
		{"one answered four skipped", []int{4}, level.Beginner},
		{"all answered", []int{0, 1, 2, 3, 4}, level.Advanced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, e := placementFixture(t, level.Unknown)
			round := startAnswered(t, e, tt.answers, true)

			lvl, err := e.CompletePlacement(context.Background(), "s1", round.SessionID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lvl)
		})
	}
}

func TestCompletePlacement_RejectsSession(t *testing.T) {
	tests := []struct {
		name    string
		student string
		session func(t *testing.T, e *Engine) string
		wantErr error
	}{
		{
			name:    "unknown session",
			student: "s1",
			session: func(*testing.T, *Engine) string { return "typo" },
			wantErr: store.ErrNotFound,
		},
		{
			name:    "quiz session",
			student: "s1",
			session: func(t *testing.T, e *Engine) string {
				r, err := e.StartQuiz(context.Background(), "s1", store.QuestionFilter{}, 3)
				require.NoError(t, err)
				for _, q := range r.Questions {
					_, _, err := e.Submit(context.Background(), Submission{
						StudentID: "s1", QuestionID: q.ID, SessionID: r.SessionID, Answer: "ok",
					})
					require.NoError(t, err)
				}
				return r.SessionID
			},
			wantErr: ErrNotPlacement,
		},
		{
			name:    "another student's session",
			student: "s2",
			session: func(t *testing.T, e *Engine) string {
				return startAnswered(t, e, []int{0, 1, 2, 3, 4}, true).SessionID
			},
			wantErr: ErrWrongStudent,
		},
		{
			name:    "nothing answered",
			student: "s1",
			session: func(t *testing.T, e *Engine) string {
				return startAnswered(t, e, nil, true).SessionID
			},
			wantErr: ErrNoAnswers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, e := placementFixture(t, level.Intermediate)
			session := tt.session(t, e)

			lvl, err := e.CompletePlacement(context.Background(), tt.student, session)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, level.Unknown, lvl)
			assert.Equal(t, level.Intermediate, m.students["s1"].Level)
			assert.Equal(t, level.Intermediate, m.students["s2"].Level)
		})
	}
}

func TestStartPlacement_SavesRound(t *testing.T) {
	m, e := placementFixture(t, level.Unknown)
	round, err := e.StartPlacement(context.Background(), "s1", store.QuestionFilter{})
	require.NoError(t, err)

	saved, ok := m.rounds[round.SessionID]
	require.True(t, ok)
	assert.Equal(t, quiz.RoundPlacement, saved.Kind)
	assert.Equal(t, "s1", saved.StudentID)
	require.Len(t, saved.QuestionIDs, len(round.Questions))
	for i, q := range round.Questions {
		assert.Equal(t, q.ID, saved.QuestionIDs[i])
	}

	m.roundErr = errors.New("disk full")
	_, err = e.StartQuiz(context.Background(), "s1", store.QuestionFilter{}, 3)
	assert.ErrorIs(t, err, m.roundErr)
}

func TestCompletePlacement_UnknownStudent(t *testing.T) {
	e := newTestEngine(t, newMemRepo())
	_, err := e.CompletePlacement(context.Background(), "ghost", "sess")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStartPlacement_UnknownStudent(t *testing.T) {
	e := newTestEngine(t, newMemRepo())
	_, err := e.StartPlacement(context.Background(), "ghost", store.QuestionFilter{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStartPlacement_EmptyPool(t *testing.T) {
	m := newMemRepo()
	seedPool(m, 3)
	m.students["s1"] = quiz.Student{ID: "s1", Grade: "9"}
	e := newTestEngine(t, m)

	round, err := e.StartPlacement(context.Background(), "s1", store.QuestionFilter{})
	require.NoError(t, err)
	assert.Empty(t, round.Questions)
}

func TestStartPlacement_PoolError(t *testing.T) {
	m := newMemRepo()
	m.students["s1"] = quiz.Student{ID: "s1"}
	m.findErr = errors.New("db down")
	e := newTestEngine(t, m)

	_, err := e.StartPlacement(context.Background(), "s1", store.QuestionFilter{})
	assert.ErrorIs(t, err, m.findErr)
}

func TestStartQuiz_MatchesLevel(t *testing.T) {
	tests := []struct {
		level   level.Level
		allowed []quiz.Difficulty
	}{
		{level.Beginner, []quiz.Difficulty{quiz.DifficultyEasy, quiz.DifficultyMedium}},
		{level.Intermediate, []quiz.Difficulty{quiz.DifficultyMedium, quiz.DifficultyHard}},
		{level.Advanced, []quiz.Difficulty{quiz.DifficultyMedium, quiz.DifficultyHard}},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			m := newMemRepo()
			seedPool(m, 5)
			m.students["s1"] = quiz.Student{ID: "s1", Grade: "5", Level: tt.level}
			e := newTestEngine(t, m)

			round, err := e.StartQuiz(context.Background(), "s1", store.QuestionFilter{QuizID: "z1"}, 4)
			require.NoError(t, err)
			require.Len(t, round.Questions, 4)
			for _, q := range round.Questions {
				assert.Contains(t, tt.allowed, q.Difficulty)
			}
		})
	}
}

func TestStartQuiz_DefaultCount(t *testing.T) {
	m := newMemRepo()
	seedPool(m, 5)
	m.students["s1"] = quiz.Student{ID: "s1", Grade: "5", Level: level.Unknown}
	e := newTestEngine(t, m)

	round, err := e.StartQuiz(context.Background(), "s1", store.QuestionFilter{}, 0)
	require.NoError(t, err)
	assert.Len(t, round.Questions, DefaultQuizCount)
}

func TestSubmit(t *testing.T) {
	m := newMemRepo()
	m.questions["q1"] = quiz.Question{
		ID: "q1", Text: "Capital of France?", Type: quiz.TypeFreeText,
		AnswerKey: "Paris", Difficulty: quiz.DifficultyEasy, QuizID: "z9",
	}
	e := newTestEngine(t, m)
	secs := 7

	got, res, err := e.Submit(context.Background(), Submission{
		StudentID: "s1", QuestionID: "q1", Answer: "  paris ", TimeTakenSecs: &secs,
	})
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, "z9", got.QuizID)
	assert.Equal(t, "  paris ", got.SubmittedAnswer)
	require.Len(t, m.attempts, 1)
	assert.Equal(t, 7, *m.attempts[0].TimeTakenSecs)
}

func TestSubmit_Errors(t *testing.T) {
	m := newMemRepo()
	m.questions["q1"] = quiz.Question{ID: "q1", Type: quiz.TypeFreeText, AnswerKey: "x", Difficulty: quiz.DifficultyEasy}
	e := newTestEngine(t, m)
	ctx := context.Background()

	_, _, err := e.Submit(ctx, Submission{StudentID: "s1", QuestionID: "missing", Answer: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, _, err = e.Submit(ctx, Submission{QuestionID: "q1", Answer: "x"})
	assert.Error(t, err)

	_, _, err = e.Submit(ctx, Submission{StudentID: "s1", QuestionID: "q1", SessionID: "nope", Answer: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	m.saveErr = errors.New("write failed")
	_, _, err = e.Submit(ctx, Submission{StudentID: "s1", QuestionID: "q1", Answer: "x"})
	assert.ErrorIs(t, err, m.saveErr)
	assert.Empty(t, m.attempts)
}

func TestSubmit_ChecksSessionMembership(t *testing.T) {
	m, e := placementFixture(t, level.Unknown)
	ctx := context.Background()
	round, err := e.StartPlacement(ctx, "s1", store.QuestionFilter{})
	require.NoError(t, err)

	var outside string
	for id := range m.questions {
		if !slices.ContainsFunc(round.Questions, func(q quiz.Question) bool { return q.ID == id }) {
			outside = id
			break
		}
	}
	require.NotEmpty(t, outside)

	_, _, err = e.Submit(ctx, Submission{StudentID: "s1", QuestionID: outside, SessionID: round.SessionID, Answer: "ok"})
	assert.ErrorIs(t, err, ErrNotInRound)

	_, _, err = e.Submit(ctx, Submission{StudentID: "s2", QuestionID: round.Questions[0].ID, SessionID: round.SessionID, Answer: "ok"})
	assert.ErrorIs(t, err, ErrWrongStudent)
	assert.Empty(t, m.attempts)
}

func TestSubmit_UngradableKeyIsIncorrect(t *testing.T) {
	m := newMemRepo()
	m.questions["q1"] = quiz.Question{
		ID: "q1", Type: quiz.TypeChoice, Choices: []string{"a", "b"},
		AnswerKey: "c", Difficulty: quiz.DifficultyEasy,
	}
	e := newTestEngine(t, m)

	_, res, err := e.Submit(context.Background(), Submission{StudentID: "s1", QuestionID: "q1", Answer: "c"})
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, grading.ReasonUngradableKey, res.Reason)
}

func TestReport(t *testing.T) {
	m := newMemRepo()
	m.students["s1"] = quiz.Student{ID: "s1", Grade: "5", ClassSection: "A"}
	m.students["s2"] = quiz.Student{ID: "s2", Grade: "6", ClassSection: "A"}
	m.questions["q1"] = quiz.Question{ID: "q1", Subject: "math", Difficulty: quiz.DifficultyEasy}
	m.questions["q2"] = quiz.Question{ID: "q2", Subject: "geo", Difficulty: quiz.DifficultyHard}
	m.attempts = []quiz.Attempt{
		{StudentID: "s1", QuestionID: "q1", QuizID: "z1", Correct: true},
		{StudentID: "s1", QuestionID: "q2", QuizID: "z1", Correct: false},
		{StudentID: "s2", QuestionID: "q1", QuizID: "z2", Correct: true},
		{StudentID: "gone", QuestionID: "q1", QuizID: "z2", Correct: true},
	}
	e := newTestEngine(t, m)
	ctx := context.Background()

	byClass, err := e.Report(ctx, stats.DimClass, store.AttemptFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"5/A", "6/A"}, stats.SortedKeys(byClass))
	assert.Equal(t, 50.0, byClass["5/A"].Percentage)

	bySubject, err := e.Report(ctx, stats.DimSubject, store.AttemptFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, bySubject["math"].Count)
	assert.Equal(t, 1, bySubject["geo"].Count)

	byQuiz, err := e.Report(ctx, stats.DimQuiz, store.AttemptFilter{StudentID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"z1"}, stats.SortedKeys(byQuiz))

	empty, err := e.Report(ctx, stats.DimQuiz, store.AttemptFilter{StudentID: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = e.Report(ctx, "shoe-size", store.AttemptFilter{})
	assert.Error(t, err)
}

func TestMetricsRecorded(t *testing.T) {
	m := newMemRepo()
	seedPool(m, 3)
	m.students["s1"] = quiz.Student{ID: "s1", Grade: "5"}
	mt := metrics.New()
	e, err := New(Deps{Questions: m, Students: m, Attempts: m, Rounds: m, Metrics: mt,
		Selector: selection.New(rand.NewPCG(3, 4))})
	require.NoError(t, err)
	ctx := context.Background()

	round, err := e.StartPlacement(ctx, "s1", store.QuestionFilter{})
	require.NoError(t, err)
	for _, q := range round.Questions {
		_, _, err := e.Submit(ctx, Submission{StudentID: "s1", QuestionID: q.ID, SessionID: round.SessionID, Answer: "ok"})
		require.NoError(t, err)
	}
	_, err = e.CompletePlacement(ctx, "s1", round.SessionID)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(mt.RoundsStarted.WithLabelValues("placement")))
	assert.Equal(t, 5.0, testutil.ToFloat64(mt.AnswersGraded.WithLabelValues("choice", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.Placements.WithLabelValues("advanced")))
}
