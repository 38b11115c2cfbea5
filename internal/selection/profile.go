package selection

import (
	"github.com/abhisek/adaptquiz/internal/level"
	"github.com/abhisek/adaptquiz/internal/quiz"
)

// Profile describes the difficulty mix a selection should aim for.
// It is implemented by Quota and LevelSet.
type Profile interface {
	profile()
}

// Quota is an explicit per-difficulty question count, used for placement
// rounds. Difficulties missing from the map have a quota of zero.
type Quota map[quiz.Difficulty]int

func (Quota) profile() {}

// Total returns the sum of all non-negative quotas.
func (q Quota) Total() int {
	n := 0
	for _, c := range q {
		if c > 0 {
			n += c
		}
	}
	return n
}

// DefaultPlacementQuota returns the standard placement mix:
// 2 easy, 2 medium, 1 hard.
func DefaultPlacementQuota() Quota {
	return Quota{
		quiz.DifficultyEasy:   2,
		quiz.DifficultyMedium: 2,
		quiz.DifficultyHard:   1,
	}
}

// LevelSet restricts selection to the difficulties suited to a level.
type LevelSet struct {
	Level level.Level
}

func (LevelSet) profile() {}

// AllowedDifficulties returns the difficulties served to a student at l.
// Unknown (or any unrecognized level) returns nil, meaning no filter.
func AllowedDifficulties(l level.Level) []quiz.Difficulty {
	switch l {
	case level.Beginner:
		return []quiz.Difficulty{quiz.DifficultyEasy, quiz.DifficultyMedium}
	case level.Intermediate:
		return []quiz.Difficulty{quiz.DifficultyMedium, quiz.DifficultyHard}
	case level.Advanced:
		return []quiz.Difficulty{quiz.DifficultyHard, quiz.DifficultyMedium}
	default:
		return nil
	}
}
