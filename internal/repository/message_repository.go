package repository

import (
	"context"
	"go-gin-guestlist/internal/model"
	apperrors "go-gin-guestlist/pkg/app_errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository interface {
	// Create persists the message and bumps the chat's last message in
	// one transaction.
	Create(ctx context.Context, message *model.Message) (*model.Message, error)
	ListByChat(ctx context.Context, chatID string) ([]*model.Message, error)
	ChatExists(ctx context.Context, chatID string) (bool, error)
}

type MessageRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &MessageRepositoryImpl{
		pool: pool,
	}
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *model.Message) (*model.Message, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 寄件者一開始就算已讀
	query := `
		INSERT INTO messages (chat_id, sender_id, content, read_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, chat_id, sender_id, content, read_by, created_at
	`

	err = tx.QueryRow(ctx, query,
		message.ChatID, message.SenderID, message.Content, []string{message.SenderID.String()},
	).Scan(
		&message.ID,
		&message.ChatID,
		&message.SenderID,
		&message.Content,
		&message.ReadBy,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	// 更新聊天室的最後一則訊息，供列表排序
	result, err := tx.Exec(ctx, `
		UPDATE chats
		SET last_message_id = $1, updated_at = $2
		WHERE id = $3
	`, message.ID, time.Now().UTC(), message.ChatID)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrChatNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return message, nil
}

func (r *MessageRepositoryImpl) ListByChat(ctx context.Context, chatID string) ([]*model.Message, error) {
	query := `
		SELECT id, chat_id, sender_id, content, read_by, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*model.Message, 0)

	for rows.Next() {
		var message model.Message
		err := rows.Scan(
			&message.ID,
			&message.ChatID,
			&message.SenderID,
			&message.Content,
			&message.ReadBy,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *MessageRepositoryImpl) ChatExists(ctx context.Context, chatID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM chats WHERE id = $1)`, chatID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
