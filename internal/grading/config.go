package grading

// DefaultOverlapThreshold is the minimum fraction of the answer key's
// distinct words a free-text response must contain to be marked correct.
const DefaultOverlapThreshold = 0.6

// Config controls the behavior of the Grader.
type Config struct {
	// OverlapThreshold is the keyword-overlap ratio (0.0-1.0) at or above
	// which a free-text answer is correct.
	OverlapThreshold float64
}

// DefaultConfig returns a Config with the standard threshold.
func DefaultConfig() Config {
	return Config{OverlapThreshold: DefaultOverlapThreshold}
}
