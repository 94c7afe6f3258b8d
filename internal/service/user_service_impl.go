package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/repository"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type userService struct {
	users repository.UserRepo
}

func NewUserService(users repository.UserRepo) UserService {
	return &userService{users: users}
}

func (s *userService) Create(ctx context.Context, u *domain.User) error {
	u.Name = strings.TrimSpace(u.Name)
	if u.Role == "" {
		u.Role = domain.RoleMember
	}
	if err := u.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user", goerr.V("name", u.Name))
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	return s.users.Create(ctx, u)
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context, tenantID string) ([]*domain.User, error) {
	return s.users.ListByTenant(ctx, tenantID)
}

func (s *userService) Actor(ctx context.Context, id string) (domain.Actor, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.Actor{}, goerr.Wrap(err, "resolving actor", goerr.V("user_id", id))
	}
	return u.Actor(), nil
}
