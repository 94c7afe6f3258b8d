package domain

import (
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID           string
	TenantID     string
	Name         string
	Email        string
	Role         Role
	DepartmentID string
	DivisionID   string
	GroupID      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the authenticated identity a workflow call runs as.
type Actor struct {
	ID       string
	Role     Role
	TenantID string
}

// Actor returns the claims for u.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, TenantID: u.TenantID}
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: user name is required", ErrValidation)
	}
	if u.TenantID == "" {
		return fmt.Errorf("%w: user tenant is required", ErrValidation)
	}
	if !ValidRoles[u.Role] {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, u.Role)
	}
	return nil
}
