package repository

import (
	"context"
	"go-gin-guestlist/internal/model"
	apperrors "go-gin-guestlist/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) (*model.Notification, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type NotificationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &NotificationRepositoryImpl{
		pool: pool,
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *model.Notification) (*model.Notification, error) {
	query := `
		INSERT INTO notifications (user_id, type, title, message, metadata, read)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING id, user_id, type, title, message, metadata, read, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		notification.UserID, notification.Type, notification.Title,
		notification.Message, notification.Metadata,
	).Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Type,
		&notification.Title,
		&notification.Message,
		&notification.Metadata,
		&notification.Read,
		&notification.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return notification, nil
}

func (r *NotificationRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, metadata, read, created_at
		FROM notifications
		WHERE id = $1
	`

	var notification model.Notification
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Type,
		&notification.Title,
		&notification.Message,
		&notification.Metadata,
		&notification.Read,
		&notification.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, err
	}

	return &notification, nil
}

func (r *NotificationRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, metadata, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]*model.Notification, 0)

	for rows.Next() {
		var notification model.Notification
		err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.Type,
			&notification.Title,
			&notification.Message,
			&notification.Metadata,
			&notification.Read,
			&notification.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, &notification)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead 冪等：已讀通知再標記一次仍回傳 read=true，不報錯
func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	query := `
		UPDATE notifications
		SET read = true
		WHERE id = $1
		RETURNING id, user_id, type, title, message, metadata, read, created_at
	`

	var notification model.Notification
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Type,
		&notification.Title,
		&notification.Message,
		&notification.Metadata,
		&notification.Read,
		&notification.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, err
	}

	return &notification, nil
}

func (r *NotificationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM notifications WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}

	return nil
}
