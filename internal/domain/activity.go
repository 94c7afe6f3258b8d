package domain

import "time"

// Activity is an append-only log entry recorded against a user plan or a
// user plan condition. A REVOKED entry points at the activity it cancels
// through RevokesID; the cancelled entry itself is never rewritten.
type Activity struct {
	ID        string
	Target    ActivityTarget
	TargetID  string
	Seq       int
	Type      ActivityType
	Comment   string
	FileURL   string
	RevokesID string
	ActorID   string
	CreatedAt time.Time

	// Derived on read from the REVOKED entry that references this activity.
	RevokedAt *time.Time
	RevokedBy string
}

// IsRevocation reports whether a is a REVOKED entry.
func (a *Activity) IsRevocation() bool {
	return a.Type == ActivityRevoked
}

// IsRevoked reports whether a has been cancelled by a later REVOKED entry.
func (a *Activity) IsRevoked() bool {
	return a.RevokedAt != nil
}

// ResolveRevocations fills RevokedAt and RevokedBy on every activity that
// is referenced by a REVOKED entry in acts.
func ResolveRevocations(acts []*Activity) {
	byID := make(map[string]*Activity, len(acts))
	for _, a := range acts {
		byID[a.ID] = a
	}
	for _, a := range acts {
		if !a.IsRevocation() || a.RevokesID == "" {
			continue
		}
		if target, ok := byID[a.RevokesID]; ok {
			at := a.CreatedAt
			target.RevokedAt = &at
			target.RevokedBy = a.ActorID
		}
	}
}

// LatestEffective returns the most recent activity that is neither a
// REVOKED entry nor already revoked, or nil. acts must be ordered by Seq
// and have had ResolveRevocations applied.
func LatestEffective(acts []*Activity) *Activity {
	for i := len(acts) - 1; i >= 0; i-- {
		a := acts[i]
		if a.IsRevocation() || a.IsRevoked() {
			continue
		}
		return a
	}
	return nil
}
