package logger

import (
	"fmt"
	"strings"
)

// ScoreBar renders a module score on a 0-100 scale as an ASCII bar
type ScoreBar struct {
	score       int
	threshold   int
	width       int
	enableColor bool
}

// NewScoreBar creates a new score bar
func NewScoreBar(score, threshold, width int, enableColor bool) *ScoreBar {
	if width < 1 {
		width = 10
	}
	return &ScoreBar{
		score:       score,
		threshold:   threshold,
		width:       width,
		enableColor: enableColor,
	}
}

// Filled returns the number of filled cells
func (sb *ScoreBar) Filled() int {
	score := sb.score
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return (score * sb.width) / 100
}

// Render generates the ASCII bar string
// Format: "[=================   ] 85/100 (threshold 80)"
func (sb *ScoreBar) Render() string {
	filled := sb.Filled()
	bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", sb.width-filled) + "]"
	result := fmt.Sprintf("%s %d/100 (threshold %d)", bar, sb.score, sb.threshold)

	if sb.enableColor && sb.score >= sb.threshold {
		result = fmt.Sprintf("\033[32m%s\033[0m", result) // Green when passing
	} else if sb.enableColor {
		result = fmt.Sprintf("\033[31m%s\033[0m", result) // Red below threshold
	}

	return result
}
