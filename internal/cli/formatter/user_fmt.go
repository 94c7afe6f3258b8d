package formatter

import (
	"strconv"

	"github.com/alexanderramin/planflow/internal/domain"
)

func itoa(n int) string { return strconv.Itoa(n) }

// FormatUserList renders users as a table.
func FormatUserList(users []*domain.User) string {
	if len(users) == 0 {
		return Dim("No users found.")
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			TruncID(u.ID),
			Bold(u.Name),
			orDash(u.Email),
			RoleBadge(u.Role),
			orDash(u.DepartmentID),
		})
	}
	return RenderBox("Users", RenderTable([]string{"ID", "NAME", "EMAIL", "ROLE", "DEPARTMENT"}, rows))
}

// FormatNotifications renders an inbox, unread entries first in bold.
func FormatNotifications(notes []*domain.Notification) string {
	if len(notes) == 0 {
		return Dim("No notifications.")
	}
	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		marker := StyleYellow.Render("●")
		msg := Bold(n.Message)
		if n.IsRead() {
			marker = Dim("○")
			msg = n.Message
		}
		rows = append(rows, []string{marker, TruncID(n.ID), string(n.Kind), msg, HumanTimestamp(n.CreatedAt)})
	}
	return RenderTable([]string{"", "ID", "KIND", "MESSAGE", "WHEN"}, rows)
}
