package level

import (
	"fmt"
	"strings"
)

// Level is a student's inferred proficiency tier.
type Level string

const (
	Unknown      Level = "unknown"
	Beginner     Level = "beginner"
	Intermediate Level = "intermediate"
	Advanced     Level = "advanced"
)

// Cut-offs in whole percent. A score exactly on a cut-off belongs to the
// higher level.
const (
	AdvancedCutoff     = 80
	IntermediateCutoff = 40
)

// AllLevels returns all levels in order from lowest to highest.
func AllLevels() []Level {
	return []Level{Unknown, Beginner, Intermediate, Advanced}
}

// DisplayName returns a human-readable label for the level.
func (l Level) DisplayName() string {
	switch l {
	case Unknown:
		return "Unknown"
	case Beginner:
		return "Beginner"
	case Intermediate:
		return "Intermediate"
	case Advanced:
		return "Advanced"
	default:
		return string(l)
	}
}

// ParseLevel converts a stored or user-supplied string into a Level.
// The empty string maps to Unknown.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return Unknown, nil
	case Unknown, Beginner, Intermediate, Advanced:
		return l, nil
	default:
		return Unknown, fmt.Errorf("unknown level %q", s)
	}
}

// Classify maps a raw score out of total to a level.
// total <= 0 yields Unknown. Scores outside [0, total] are clamped.
func Classify(score, total int) Level {
	if total <= 0 {
		return Unknown
	}
	score = min(max(score, 0), total)

	// Integer comparison keeps the cut-offs exact (4/5 is 80%, not 79.99...).
	switch {
	case score*100 >= AdvancedCutoff*total:
		return Advanced
	case score*100 >= IntermediateCutoff*total:
		return Intermediate
	default:
		return Beginner
	}
}

// Percentage returns score/total as a percentage, or 0 when total <= 0.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}
