package formatter

import (
	"strings"

	"github.com/alexanderramin/planflow/internal/domain"
)

// FormatActivities renders an activity log oldest first. Revoked entries
// are struck through and revocations show which entry they cancel.
func FormatActivities(acts []*domain.Activity) string {
	if len(acts) == 0 {
		return Dim("No activity yet.")
	}
	rows := make([][]string, 0, len(acts))
	for _, a := range acts {
		typ := ActivityColor(a.Type).Render(string(a.Type))
		if a.IsRevoked() {
			typ = ActivityColor(a.Type).Strikethrough(true).Render(string(a.Type))
		}
		note := a.Comment
		if a.IsRevocation() && a.RevokesID != "" {
			note = strings.TrimSpace("revokes " + TruncID(a.RevokesID) + " " + note)
		}
		if a.FileURL != "" {
			note = strings.TrimSpace(note + " " + StyleBlue.Render("["+a.FileURL+"]"))
		}
		rows = append(rows, []string{
			Dim("#") + itoa(a.Seq),
			TruncID(a.ID),
			typ,
			TruncID(a.ActorID),
			HumanTimestamp(a.CreatedAt),
			orDash(note),
		})
	}
	return RenderTable([]string{"SEQ", "ID", "TYPE", "BY", "WHEN", "NOTE"}, rows)
}
