package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptquiz/internal/level"
	"github.com/abhisek/adaptquiz/internal/quiz"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	TextDim   = lipgloss.Color("#94A3B8") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Mark renders a correct/incorrect marker.
func Mark(correct bool) string {
	if correct {
		return Correct.Render("✓")
	}
	return Incorrect.Render("✗")
}

// LevelBadge renders a proficiency level in its tier color.
func LevelBadge(l level.Level) string {
	style := lipgloss.NewStyle().Bold(true)
	switch l {
	case level.Advanced:
		style = style.Foreground(Success)
	case level.Intermediate:
		style = style.Foreground(Secondary)
	case level.Beginner:
		style = style.Foreground(Accent)
	default:
		style = style.Foreground(TextDim)
	}
	return style.Render(l.DisplayName())
}

// DifficultyTag renders a difficulty label.
func DifficultyTag(d quiz.Difficulty) string {
	style := lipgloss.NewStyle()
	switch d {
	case quiz.DifficultyEasy:
		style = style.Foreground(Success)
	case quiz.DifficultyMedium:
		style = style.Foreground(Accent)
	case quiz.DifficultyHard:
		style = style.Foreground(Error)
	}
	return style.Render("[" + d.DisplayName() + "]")
}
