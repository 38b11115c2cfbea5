package theme

import (
	"strings"
	"testing"

	"github.com/abhisek/adaptquiz/internal/level"
	"github.com/abhisek/adaptquiz/internal/quiz"
)

func TestLevelBadge(t *testing.T) {
	for _, l := range level.AllLevels() {
		got := LevelBadge(l)
		if !strings.Contains(got, l.DisplayName()) {
			t.Errorf("LevelBadge(%v) = %q, want it to contain %q", l, got, l.DisplayName())
		}
	}
}

func TestDifficultyTag(t *testing.T) {
	for _, d := range quiz.AllDifficulties() {
		got := DifficultyTag(d)
		if !strings.Contains(got, d.DisplayName()) {
			t.Errorf("DifficultyTag(%v) = %q, want it to contain %q", d, got, d.DisplayName())
		}
	}
}

func TestMark(t *testing.T) {
	if !strings.Contains(Mark(true), "✓") {
		t.Errorf("Mark(true) = %q, want ✓", Mark(true))
	}
	if !strings.Contains(Mark(false), "✗") {
		t.Errorf("Mark(false) = %q, want ✗", Mark(false))
	}
}
