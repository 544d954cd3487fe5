package services

import (
	"errors"
	"fmt"

	"sijuk_backend/internal/models"
	"sijuk_backend/internal/repositories"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

const (
	defaultNotificationListLimit = 20
	maxNotificationListLimit     = 100
)

// --- NotificationService Interface ---
type NotificationService interface {
	List(actor models.Actor, limit int) ([]models.Notification, error)
	MarkRead(actor models.Actor, notificationID string) (*models.Notification, error)
}

// --- notificationService Implementation ---
type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(nr repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: nr}
}

func (s *notificationService) List(actor models.Actor, limit int) ([]models.Notification, error) {
	if !actor.Role.Can(models.OpViewNotifications) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	if limit <= 0 {
		limit = defaultNotificationListLimit
	}
	if limit > maxNotificationListLimit {
		limit = maxNotificationListLimit
	}
	notifications, err := s.notificationRepo.ListByUser(actor.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead is scoped to the recipient: a notification belonging to another
// user comes back as not found rather than forbidden, so the endpoint does
// not leak which ids exist.
func (s *notificationService) MarkRead(actor models.Actor, notificationID string) (*models.Notification, error) {
	if !actor.Role.Can(models.OpViewNotifications) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	notification, err := s.notificationRepo.MarkRead(notificationID, actor.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotificationNotFound, notificationID)
		}
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return notification, nil
}
