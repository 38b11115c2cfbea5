package stats

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/adaptquiz/internal/level"
	"github.com/abhisek/adaptquiz/internal/quiz"
)

// Dimension names a grouping for reports.
type Dimension string

const (
	DimGrade      Dimension = "grade"
	DimClass      Dimension = "class"
	DimSubject    Dimension = "subject"
	DimDifficulty Dimension = "difficulty"
	DimQuiz       Dimension = "quiz"
	DimType       Dimension = "type"
	DimGender     Dimension = "gender"
	DimStudent    Dimension = "student"
	DimQuestion   Dimension = "question"
)

// AllDimensions returns every supported dimension.
func AllDimensions() []Dimension {
	return []Dimension{
		DimGrade, DimClass, DimSubject, DimDifficulty, DimQuiz,
		DimType, DimGender, DimStudent, DimQuestion,
	}
}

// ParseDimension converts a string to a Dimension.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(AllDimensions(), d) {
		return d, nil
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// NeedsStudents reports whether grouping by d joins attempts to students.
func (d Dimension) NeedsStudents() bool {
	return d == DimGrade || d == DimClass || d == DimGender
}

// NeedsQuestions reports whether grouping by d joins attempts to questions.
func (d Dimension) NeedsQuestions() bool {
	return d == DimSubject || d == DimDifficulty || d == DimType
}

func ByQuiz() KeyFunc {
	return func(a quiz.Attempt) (string, bool) { return a.QuizID, a.QuizID != "" }
}

func ByQuestion() KeyFunc {
	return func(a quiz.Attempt) (string, bool) { return a.QuestionID, true }
}

func ByStudent() KeyFunc {
	return func(a quiz.Attempt) (string, bool) { return a.StudentID, true }
}

// KeyFor builds the KeyFunc for a dimension. Student and question maps
// are keyed by ID; attempts whose student or question is missing from
// the map are excluded.
func KeyFor(dim Dimension, students map[string]quiz.Student, questions map[string]quiz.Question) (KeyFunc, error) {
	student := func(f func(quiz.Student) string) KeyFunc {
		return func(a quiz.Attempt) (string, bool) {
			s, ok := students[a.StudentID]
			if !ok {
				return "", false
			}
			return f(s), true
		}
	}
	question := func(f func(quiz.Question) string) KeyFunc {
		return func(a quiz.Attempt) (string, bool) {
			q, ok := questions[a.QuestionID]
			if !ok {
				return "", false
			}
			return f(q), true
		}
	}

	switch dim {
	case DimGrade:
		return student(func(s quiz.Student) string { return s.Grade }), nil
	case DimClass:
		return student(ClassKey), nil
	case DimGender:
		return student(func(s quiz.Student) string { return s.Gender }), nil
	case DimSubject:
		return question(func(q quiz.Question) string { return q.Subject }), nil
	case DimDifficulty:
		return question(func(q quiz.Question) string { return string(q.Difficulty) }), nil
	case DimType:
		return question(func(q quiz.Question) string { return string(q.Type) }), nil
	case DimQuiz:
		return ByQuiz(), nil
	case DimStudent:
		return ByStudent(), nil
	case DimQuestion:
		return ByQuestion(), nil
	default:
		return nil, fmt.Errorf("unknown dimension %q", dim)
	}
}

// ClassKey identifies a student's class as "grade/section".
func ClassKey(s quiz.Student) string {
	return s.Grade + "/" + s.ClassSection
}

// ClassRoster is the students of one grade and class section.
type ClassRoster struct {
	Grade        string
	ClassSection string
	Students     []quiz.Student
	Levels       map[level.Level]int
}

// Rosters groups students by class, ordered by grade then section.
// Students keep their input order within a class.
func Rosters(students []quiz.Student) []ClassRoster {
	idx := make(map[string]int)
	var out []ClassRoster
	for _, s := range students {
		k := ClassKey(s)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, ClassRoster{
				Grade:        s.Grade,
				ClassSection: s.ClassSection,
				Levels:       make(map[level.Level]int),
			})
		}
		out[i].Students = append(out[i].Students, s)
		out[i].Levels[s.Level]++
	}
	slices.SortStableFunc(out, func(a, b ClassRoster) int {
		if c := strings.Compare(a.Grade, b.Grade); c != 0 {
			return c
		}
		return strings.Compare(a.ClassSection, b.ClassSection)
	})
	return out
}

// SortedKeys returns the group keys in ascending order.
func SortedKeys(groups map[string]GroupStats) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
