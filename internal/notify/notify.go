// Package notify delivers workflow notifications. Senders are best effort:
// the workflow logs a failed delivery and carries on.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/repository"
)

// Sender delivers one notification.
type Sender interface {
	Send(ctx context.Context, n *domain.Notification) error
}

// Multi fans a notification out to every sender and joins their errors.
type Multi []Sender

func (m Multi) Send(ctx context.Context, n *domain.Notification) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Send(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StoreSender persists notifications so recipients can list them later.
type StoreSender struct {
	repo repository.NotificationRepo
}

func NewStoreSender(repo repository.NotificationRepo) *StoreSender {
	return &StoreSender{repo: repo}
}

func (s *StoreSender) Send(ctx context.Context, n *domain.Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("storing notification for %s: %w", n.RecipientID, err)
	}
	return nil
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Send(context.Context, *domain.Notification) error { return nil }
