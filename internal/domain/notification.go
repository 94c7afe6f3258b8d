package domain

import "time"

type Notification struct {
	ID          string
	TenantID    string
	RecipientID string
	Kind        NotificationKind
	PlanID      string
	Message     string
	CreatedAt   time.Time
	ReadAt      *time.Time
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
