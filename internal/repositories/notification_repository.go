package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sijuk_backend/internal/models"
)

// NotificationRepository defines the interface for notification persistence.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	ListByUser(userID string, limit int) ([]models.Notification, error)
	MarkRead(notificationID, userID string) (*models.Notification, error)
}

type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, user_id, restaurant_id, type, title, message, data, read, created_at`

func scanNotification(s scanner) (*models.Notification, error) {
	n := &models.Notification{}
	var dataJSON []byte
	err := s.Scan(
		&n.ID, &n.UserID, &n.RestaurantID, &n.Type, &n.Title, &n.Message,
		&dataJSON, &n.Read, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
			return nil, fmt.Errorf("decoding data for notification %s: %w", n.ID, err)
		}
	}
	return n, nil
}

func (r *notificationRepository) Create(notification *models.Notification) error {
	if notification.Data == nil {
		notification.Data = map[string]string{}
	}
	dataJSON, err := json.Marshal(notification.Data)
	if err != nil {
		return fmt.Errorf("encoding notification data: %w", err)
	}

	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	query := `INSERT INTO notifications
	            (id, user_id, restaurant_id, type, title, message, data, read, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.Exec(query,
		notification.ID, notification.UserID, notification.RestaurantID,
		notification.Type, notification.Title, notification.Message,
		dataJSON, notification.Read, notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: creating notification: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *notificationRepository) ListByUser(userID string, limit int) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
	          WHERE user_id = $1
	          ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: listing notifications: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning notification row: %v", ErrDatabaseError, err)
		}
		notifications = append(notifications, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating notification rows: %v", ErrDatabaseError, err)
	}
	return notifications, nil
}

// MarkRead flips the read flag, scoped to the recipient so one user cannot
// touch another user's notifications.
func (r *notificationRepository) MarkRead(notificationID, userID string) (*models.Notification, error) {
	query := `UPDATE notifications SET read = TRUE
	          WHERE id = $1 AND user_id = $2
	          RETURNING ` + notificationColumns
	n, err := scanNotification(r.db.QueryRow(query, notificationID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: marking notification %s read: %v", ErrDatabaseError, notificationID, err)
	}
	return n, nil
}
