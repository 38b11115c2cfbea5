package selection

import (
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/abhisek/adaptquiz/internal/level"
	"github.com/abhisek/adaptquiz/internal/quiz"
)

// Selector picks bounded, difficulty-balanced subsets of a question pool.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Selector drawing randomness from src. Pass a seeded source
// (e.g. rand.NewPCG(1, 2)) for reproducible selections.
func New(src rand.Source) *Selector {
	return &Selector{rng: rand.New(src)}
}

// NewDefault creates a Selector with a non-deterministic source.
func NewDefault() *Selector {
	return New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Select returns at most min(desired, distinct questions in pool) questions
// with no repeated IDs. An empty result means nothing was eligible; it is
// not an error. The order of the result carries no meaning.
func (s *Selector) Select(pool []quiz.Question, desired int, profile Profile) []quiz.Question {
	pool = uniqueByID(pool)
	limit := min(desired, len(pool))
	if limit <= 0 {
		return nil
	}

	switch p := profile.(type) {
	case Quota:
		return s.selectQuota(pool, limit, p)
	case LevelSet:
		return s.selectLevel(pool, limit, p.Level)
	case *LevelSet:
		if p != nil {
			return s.selectLevel(pool, limit, p.Level)
		}
	}
	return s.selectLevel(pool, limit, level.Unknown)
}

// selectQuota draws each difficulty's quota in easy, medium, hard order.
// Whatever a bucket cannot supply carries over to the next bucket, and any
// final shortfall is filled from the unused remainder of the pool.
func (s *Selector) selectQuota(pool []quiz.Question, limit int, quota Quota) []quiz.Question {
	buckets := partition(pool)
	used := make(map[string]bool, limit)
	result := make([]quiz.Question, 0, limit)

	carry := 0
	for _, d := range quiz.AllDifficulties() {
		want := max(quota[d], 0) + carry
		picked := s.sample(buckets[d], min(want, limit-len(result)))
		for _, q := range picked {
			used[q.ID] = true
		}
		result = append(result, picked...)
		carry = want - len(picked)
	}

	if len(result) < limit {
		var rest []quiz.Question
		for _, q := range pool {
			if !used[q.ID] {
				rest = append(rest, q)
			}
		}
		result = append(result, s.sample(rest, limit-len(result))...)
	}
	return result
}

// selectLevel samples from the questions whose difficulty suits lvl,
// falling back to the whole pool when none do.
func (s *Selector) selectLevel(pool []quiz.Question, limit int, lvl level.Level) []quiz.Question {
	candidates := pool
	if allowed := AllowedDifficulties(lvl); allowed != nil {
		var restricted []quiz.Question
		for _, q := range pool {
			if slices.Contains(allowed, q.Difficulty) {
				restricted = append(restricted, q)
			}
		}
		if len(restricted) > 0 {
			candidates = restricted
		}
	}
	return s.sample(candidates, min(limit, len(candidates)))
}

// sample returns n questions drawn without replacement from src.
// src is not modified.
func (s *Selector) sample(src []quiz.Question, n int) []quiz.Question {
	if n <= 0 || len(src) == 0 {
		return nil
	}
	n = min(n, len(src))

	shuffled := slices.Clone(src)
	s.mu.Lock()
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	s.mu.Unlock()
	return shuffled[:n]
}

// partition groups questions by difficulty, preserving pool order.
func partition(pool []quiz.Question) map[quiz.Difficulty][]quiz.Question {
	buckets := make(map[quiz.Difficulty][]quiz.Question)
	for _, q := range pool {
		buckets[q.Difficulty] = append(buckets[q.Difficulty], q)
	}
	return buckets
}

// uniqueByID drops repeated question IDs, keeping the first occurrence.
func uniqueByID(pool []quiz.Question) []quiz.Question {
	seen := make(map[string]bool, len(pool))
	out := make([]quiz.Question, 0, len(pool))
	for _, q := range pool {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out
}
