package quiz

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError describes why an authored question is malformed.
type ValidationError struct {
	QuestionID string
	Field      string
	Message    string
}

func (e *ValidationError) Error() string {
	if e.QuestionID == "" {
		return fmt.Sprintf("question %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("question %q %s: %s", e.QuestionID, e.Field, e.Message)
}

// Validate checks the authoring invariants of q. It is used when questions
// enter the system; grading tolerates malformed questions instead.
func (q *Question) Validate() error {
	fail := func(field, msg string) error {
		return &ValidationError{QuestionID: q.ID, Field: field, Message: msg}
	}

	if strings.TrimSpace(q.ID) == "" {
		return fail("id", "is empty")
	}
	if strings.TrimSpace(q.Text) == "" {
		return fail("text", "is empty")
	}
	if strings.TrimSpace(q.AnswerKey) == "" {
		return fail("answer_key", "is empty")
	}
	if !q.Difficulty.Valid() {
		return fail("difficulty", fmt.Sprintf("must be easy, medium or hard, got %q", q.Difficulty))
	}

	switch q.Type {
	case TypeChoice:
		if len(q.Choices) == 0 {
			return fail("choices", "choice question has no options")
		}
		if len(q.Choices) > MaxChoices {
			return fail("choices", fmt.Sprintf("has %d options, max is %d", len(q.Choices), MaxChoices))
		}
		for i, c := range q.Choices {
			if strings.TrimSpace(c) == "" {
				return fail("choices", fmt.Sprintf("option %d is empty", i+1))
			}
		}
		if !q.HasChoice(q.AnswerKey) {
			return fail("answer_key", fmt.Sprintf("%q is not one of the options", q.AnswerKey))
		}
	case TypeFreeText:
		if len(q.Choices) > 0 {
			return fail("choices", "free-text question must not have options")
		}
	default:
		return fail("type", fmt.Sprintf("unknown type %q", q.Type))
	}
	return nil
}

// HasChoice reports whether answer matches one of the options, ignoring
// case and surrounding whitespace.
func (q *Question) HasChoice(answer string) bool {
	answer = strings.TrimSpace(answer)
	for _, c := range q.Choices {
		if strings.EqualFold(strings.TrimSpace(c), answer) {
			return true
		}
	}
	return false
}

// OptionByLabel resolves an option label to its text. Labels are letters
// ("A".."D", any case) or 1-based positions ("1".."4").
func (q *Question) OptionByLabel(label string) (string, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", false
	}

	idx := -1
	if n, err := strconv.Atoi(label); err == nil {
		idx = n - 1
	} else if len(label) == 1 {
		r := strings.ToUpper(label)[0]
		if r >= 'A' && r <= 'Z' {
			idx = int(r - 'A')
		}
	}

	if idx < 0 || idx >= len(q.Choices) {
		return "", false
	}
	return q.Choices[idx], true
}
