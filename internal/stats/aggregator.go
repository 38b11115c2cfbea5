// Package stats records graded attempts and aggregates them into
// per-group accuracy figures.
package stats

import (
	"context"
	"math"

	"github.com/abhisek/adaptquiz/internal/level"
	"github.com/abhisek/adaptquiz/internal/quiz"
	"github.com/abhisek/adaptquiz/internal/store"
)

// GroupStats summarizes the attempts that mapped to one group key.
type GroupStats struct {
	Count        int
	CorrectCount int
	Percentage   float64 // CorrectCount/Count*100, rounded to two decimals

	// AvgTimeSecs is averaged over the TimedCount attempts that recorded
	// a time taken. Zero when none did.
	AvgTimeSecs float64
	TimedCount  int
}

// KeyFunc maps an attempt to its group. Returning false leaves the
// attempt out of every group.
type KeyFunc func(quiz.Attempt) (string, bool)

// Aggregator persists attempts. Grading happens before Record is called.
type Aggregator struct {
	repo store.AttemptRepository
}

// New creates an Aggregator backed by the given attempt repository.
func New(repo store.AttemptRepository) *Aggregator {
	return &Aggregator{repo: repo}
}

// Record stores an already-graded attempt and returns what was stored.
// Repository errors are returned as they are.
func (a *Aggregator) Record(ctx context.Context, at quiz.Attempt) (quiz.Attempt, error) {
	saved, err := a.repo.SaveAttempt(ctx, at)
	if err != nil {
		return quiz.Attempt{}, err
	}
	return saved, nil
}

// Aggregate groups attempts by key. Groups that no attempt maps to are
// absent from the result, so an empty input yields an empty map.
func Aggregate(attempts []quiz.Attempt, key KeyFunc) map[string]GroupStats {
	type acc struct {
		count, correct, timed int
		timeSum               int
	}
	groups := make(map[string]*acc)

	for _, a := range attempts {
		k, ok := key(a)
		if !ok {
			continue
		}
		g := groups[k]
		if g == nil {
			g = &acc{}
			groups[k] = g
		}
		g.count++
		if a.Correct {
			g.correct++
		}
		if a.TimeTakenSecs != nil {
			g.timed++
			g.timeSum += *a.TimeTakenSecs
		}
	}

	out := make(map[string]GroupStats, len(groups))
	for k, g := range groups {
		gs := GroupStats{
			Count:        g.count,
			CorrectCount: g.correct,
			Percentage:   round2(level.Percentage(g.correct, g.count)),
			TimedCount:   g.timed,
		}
		if g.timed > 0 {
			gs.AvgTimeSecs = round2(float64(g.timeSum) / float64(g.timed))
		}
		out[k] = gs
	}
	return out
}

// Summary returns the statistics of all attempts taken together.
func Summary(attempts []quiz.Attempt) GroupStats {
	all := Aggregate(attempts, func(quiz.Attempt) (string, bool) { return "", true })
	return all[""]
}

// RecalculateLevel classifies a student from a list of attempts, each
// attempt counting once.
func RecalculateLevel(attempts []quiz.Attempt) level.Level {
	correct := 0
	for _, a := range attempts {
		if a.Correct {
			correct++
		}
	}
	return level.Classify(correct, len(attempts))
}

// ScoreRound scores attempts against the questions served in a round.
// Only the first attempt at each served question counts; attempts at
// other questions are ignored. The total is the number of distinct
// served questions, so an unanswered question scores as wrong.
func ScoreRound(attempts []quiz.Attempt, questionIDs []string) (correct, answered, total int) {
	served := make(map[string]bool, len(questionIDs))
	for _, id := range questionIDs {
		served[id] = true
	}

	seen := make(map[string]bool, len(served))
	for _, a := range attempts {
		if !served[a.QuestionID] || seen[a.QuestionID] {
			continue
		}
		seen[a.QuestionID] = true
		answered++
		if a.Correct {
			correct++
		}
	}
	return correct, answered, len(served)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
