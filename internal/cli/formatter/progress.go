package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planflow/internal/workflow"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	empty := width - filled

	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, empty)

	var style = StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}

	pctStr := fmt.Sprintf("%3.0f%%", pct*100)
	return fmt.Sprintf("[%s] %s", style.Render(bar), pctStr)
}

// CompletionRatio is the completed share of c, or 0 when c is empty.
func CompletionRatio(c workflow.StatusCounts) float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Completed) / float64(c.Total)
}

// CountsSummary renders counts as "2 done · 1 pending · 3 open".
func CountsSummary(c workflow.StatusCounts) string {
	return fmt.Sprintf("%s · %s · %s",
		StyleGreen.Render(fmt.Sprintf("%d done", c.Completed)),
		StyleYellow.Render(fmt.Sprintf("%d pending", c.Pending)),
		StyleBlue.Render(fmt.Sprintf("%d open", c.Open)))
}
