package service

import (
	"context"
	"time"

	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/repository"
	"github.com/m-mizutani/goerr/v2"
)

type notificationService struct {
	notifications repository.NotificationRepo
}

func NewNotificationService(notifications repository.NotificationRepo) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) List(ctx context.Context, actor domain.Actor, unreadOnly bool) ([]*domain.Notification, error) {
	return s.notifications.ListByRecipient(ctx, actor.ID, unreadOnly)
}

// MarkRead marks one of the actor's notifications read. Notifications of
// other users look missing.
func (s *notificationService) MarkRead(ctx context.Context, actor domain.Actor, id string) error {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID != actor.ID {
		return goerr.Wrap(repository.ErrNotFound, "notification not found", goerr.V("notification_id", id))
	}
	if n.IsRead() {
		return nil
	}
	return s.notifications.MarkRead(ctx, id, time.Now().UTC())
}
