package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.Format("Jan 2, 2006")
}

// DateRange renders a plan's start and complete dates.
func DateRange(start, complete time.Time) string {
	return HumanDate(start) + " → " + HumanDate(complete)
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t time.Time) string {
	return HumanTimestampFrom(t, time.Now())
}

// HumanTimestampFrom is HumanTimestamp against a fixed reference time.
func HumanTimestampFrom(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return HumanDate(t)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return HumanDate(t)
	}
}

// PlanStatusPill returns a colored indicator for a plan status.
func PlanStatusPill(status domain.PlanStatus) string {
	switch status {
	case domain.PlanNoStart:
		return StyleDim.Render("○ Not started")
	case domain.PlanInProgress:
		return StyleBlue.Render("● In progress")
	case domain.PlanCompleted:
		return StyleGreen.Render("✔ Completed")
	default:
		return StyleDim.Render(string(status))
	}
}

// ProgressPill returns a colored indicator for a user plan or condition phase.
// open is the label used for the open phase, which differs between the two.
func ProgressPill(p domain.Progress, open string) string {
	style := ProgressColor(p)
	switch p {
	case domain.ProgressPending:
		return style.Render("◐ Pending approval")
	case domain.ProgressCompleted:
		return style.Render("✔ Completed")
	default:
		return style.Render("○ " + open)
	}
}

// UserPlanStatusPill returns a colored indicator for a user plan status.
func UserPlanStatusPill(status domain.UserPlanStatus) string {
	return ProgressPill(status.Progress(), "In progress")
}

// ConditionStatusPill returns a colored indicator for a condition status.
func ConditionStatusPill(status domain.ConditionStatus) string {
	return ProgressPill(status.Progress(), "Incomplete")
}

// RoleBadge returns a purple role label.
func RoleBadge(r domain.Role) string {
	if r == "" {
		return StyleDim.Render("--")
	}
	s := strings.ToLower(string(r))
	return StylePurple.Render(strings.ToUpper(s[:1]) + s[1:])
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// orDash substitutes "--" for an empty cell.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return s
}
