package ui

import (
	"fmt"
	"strings"

	"github.com/ideafactory/ideas/internal/model"
)

// ANSI256 color codes.
const (
	colorAccent   = 74  // blue
	colorCmd      = 250 // light gray
	colorMuted    = 245 // medium gray
	colorGood     = 71  // green
	colorWarn     = 179 // amber
	colorBad      = 167 // red
	colorFavorite = 220 // gold
)

var noColor bool

func paint(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return paint(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return paint(colorMuted, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return paint(colorCmd, s) }

// RenderError returns s in red.
func RenderError(s string) string { return paint(colorBad, s) }

// RenderSuccess returns s in green.
func RenderSuccess(s string) string { return paint(colorGood, s) }

// RenderDifficulty colors a difficulty by how hard it is.
func RenderDifficulty(d model.Difficulty) string {
	switch d {
	case model.DifficultyEasy:
		return paint(colorGood, string(d))
	case model.DifficultyChallenging:
		return paint(colorBad, string(d))
	default:
		return paint(colorWarn, string(d))
	}
}

// RenderScore renders a 0-10 score, green for 9 and up, amber for 7-8.
func RenderScore(score int) string {
	s := fmt.Sprintf("%2d", score)
	switch {
	case score >= 9:
		return paint(colorGood, s)
	case score >= 7:
		return paint(colorWarn, s)
	default:
		return paint(colorMuted, s)
	}
}

// FavoriteMark returns a star for favorites and a blank of the same width
// otherwise.
func FavoriteMark(fav bool) string {
	if !fav {
		return " "
	}
	return paint(colorFavorite, "*")
}

// Steps renders form progress such as "● ● ○ ○" for step 1 of 4.
func Steps(current, total int) string {
	parts := make([]string, total)
	for i := range parts {
		if i <= current {
			parts[i] = RenderAccent("●")
		} else {
			parts[i] = RenderMuted("○")
		}
	}
	return strings.Join(parts, " ")
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
