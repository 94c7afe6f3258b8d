package contract

import (
	"io"
	"time"

	"github.com/alexanderramin/planflow/internal/domain"
)

// ConditionInput is one condition in a create or update request. On update,
// conditions are matched to existing ones by Name.
type ConditionInput struct {
	Name     string
	Overview string
	EstTime  int
}

// PlanInput is the body of a create or update plan request.
type PlanInput struct {
	Name         string
	Description  string
	StartDate    time.Time
	CompleteDate time.Time
	Conditions   []ConditionInput
}

// Attachment is a file uploaded with a condition activity.
type Attachment struct {
	Name string
	Body io.Reader
}

// ActivityInput is the body of a create activity request.
type ActivityInput struct {
	Target     domain.ActivityTarget
	TargetID   string
	Type       domain.ActivityType
	Comment    string
	Attachment *Attachment
}

// ActivityUpdate is the body of an update activity request. Only REVOKED
// is accepted as Type.
type ActivityUpdate struct {
	Target     domain.ActivityTarget
	ActivityID string
	Type       domain.ActivityType
	Comment    string
}
