// Package bank imports authored quizzes and questions from a JSON
// document into the question store.
package bank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/adaptquiz/internal/quiz"
)

//go:embed bank.schema.json
var schemaJSON []byte

const schemaURL = "schema://adaptquiz/bank.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Bank is a question bank document.
type Bank struct {
	Quizzes []QuizDoc `json:"quizzes"`
}

// QuizDoc is one quiz with its passages and questions. Questions may sit
// directly on the quiz or under a passage.
type QuizDoc struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Grade        string        `json:"grade"`
	Subject      string        `json:"subject"`
	TimerSeconds int           `json:"timer_seconds"`
	Passages     []PassageDoc  `json:"passages"`
	Questions    []QuestionDoc `json:"questions"`
}

// PassageDoc is a reading passage and the questions about it.
type PassageDoc struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	Questions []QuestionDoc `json:"questions"`
}

// QuestionDoc is an authored question. Subject and grade default to the
// enclosing quiz's.
type QuestionDoc struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Type       string   `json:"type"`
	Choices    []string `json:"choices"`
	Answer     string   `json:"answer"`
	Difficulty string   `json:"difficulty"`
	Subject    string   `json:"subject"`
	Grade      string   `json:"grade"`
}

// Parse validates raw against the bank schema, decodes it and checks
// every question. All invalid questions are reported together.
func Parse(raw []byte) (*Bank, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := bankSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var b Bank
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bank: %w", err)
	}

	var errs []error
	for _, zq := range b.Quizzes {
		for i, q := range zq.questions() {
			if q.ID == "" {
				// Load assigns IDs; name the question by position meanwhile.
				q.ID = fmt.Sprintf("#%d", i+1)
			}
			if err := q.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("quiz %q: %w", zq.ID, err))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &b, nil
}

// questions flattens the quiz's questions, then its passages' questions,
// into the engine model.
func (d QuizDoc) questions() []quiz.Question {
	var out []quiz.Question
	for _, qd := range d.Questions {
		out = append(out, qd.toQuestion(d, ""))
	}
	for _, p := range d.Passages {
		for _, qd := range p.Questions {
			out = append(out, qd.toQuestion(d, p.ID))
		}
	}
	return out
}

func (qd QuestionDoc) toQuestion(d QuizDoc, passageID string) quiz.Question {
	q := quiz.Question{
		ID:         qd.ID,
		Text:       qd.Text,
		Type:       quiz.QuestionType(qd.Type),
		Choices:    qd.Choices,
		AnswerKey:  qd.Answer,
		Difficulty: quiz.Difficulty(qd.Difficulty),
		Subject:    qd.Subject,
		Grade:      qd.Grade,
		QuizID:     d.ID,
		PassageID:  passageID,
	}
	if q.Subject == "" {
		q.Subject = d.Subject
	}
	if q.Grade == "" {
		q.Grade = d.Grade
	}
	return q
}

func bankSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal(schemaJSON, &def); err != nil {
			compileErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile bank schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}
