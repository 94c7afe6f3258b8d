package domain

import (
	"fmt"
	"strings"
	"time"
)

type Plan struct {
	ID           string
	TenantID     string
	Name         string
	Description  string
	StartDate    time.Time
	CompleteDate time.Time
	DepartmentID string
	DivisionID   string
	GroupID      string
	Status       PlanStatus
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PlanCondition struct {
	ID         string
	PlanID     string
	Name       string
	Overview   string
	EstTime    int
	OrderIndex int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the plan's own fields. The complete date must fall
// strictly after the start date.
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: plan name is required", ErrValidation)
	}
	if !p.CompleteDate.After(p.StartDate) {
		return fmt.Errorf("%w: complete date %s must be after start date %s",
			ErrValidation, p.CompleteDate.Format("2006-01-02"), p.StartDate.Format("2006-01-02"))
	}
	return nil
}

// AssignOrganisation copies the owner's department, division and group.
func (p *Plan) AssignOrganisation(owner *User) {
	p.DepartmentID = owner.DepartmentID
	p.DivisionID = owner.DivisionID
	p.GroupID = owner.GroupID
}

// ValidateConditions checks names are present and unique within the plan
// and estimates are non-negative.
func ValidateConditions(conds []*PlanCondition) error {
	seen := make(map[string]bool, len(conds))
	for i, c := range conds {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("%w: condition %d: name is required", ErrValidation, i+1)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate condition name %q", ErrValidation, name)
		}
		seen[name] = true
		if c.EstTime < 0 {
			return fmt.Errorf("%w: condition %q: est_time must not be negative", ErrValidation, name)
		}
	}
	return nil
}
