package repository

import (
	"context"
	"errors"
	"fmt"
	"go-gin-guestlist/internal/model"
	apperrors "go-gin-guestlist/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	// FindByID resolves an identifier across the four variant tables in
	// fixed kind priority order and returns the match with its kind tag.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	// AdjustPax applies a single atomic delta to pax_checked, guarded to
	// stay within [0, pax]. Never read-modify-write.
	AdjustPax(ctx context.Context, kind model.TicketKind, id uuid.UUID, delta int) (*model.Ticket, error)
	CreateGuestCode(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error)
}

// kindTables maps each variant to its backing table.
var kindTables = map[model.TicketKind]string{
	model.KindFriendsCode: "friends_codes",
	model.KindGuestCode:   "guest_codes",
	model.KindTableCode:   "table_codes",
	model.KindTicket:      "tickets",
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	// 一次查詢解析四種變體，依固定優先序取第一個命中
	query := `
		SELECT id, kind, event_id, code, holder_name, holder_email, pax, pax_checked, created_at
		FROM (
			SELECT id, 'friends_code' AS kind, event_id, code, holder_name, holder_email,
				pax, pax_checked, created_at, 0 AS kind_rank
			FROM friends_codes WHERE id = $1
			UNION ALL
			SELECT id, 'guest_code', event_id, code, holder_name, holder_email,
				pax, pax_checked, created_at, 1
			FROM guest_codes WHERE id = $1
			UNION ALL
			SELECT id, 'table_code', event_id, code, holder_name, holder_email,
				pax, pax_checked, created_at, 2
			FROM table_codes WHERE id = $1
			UNION ALL
			SELECT id, 'ticket', event_id, code, holder_name, holder_email,
				pax, pax_checked, created_at, 3
			FROM tickets WHERE id = $1
		) variants
		ORDER BY kind_rank
		LIMIT 1
	`

	var ticket model.Ticket
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Kind,
		&ticket.EventID,
		&ticket.Code,
		&ticket.HolderName,
		&ticket.HolderEmail,
		&ticket.Pax,
		&ticket.PaxChecked,
		&ticket.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return &ticket, nil
}

func (r *TicketRepositoryImpl) AdjustPax(ctx context.Context, kind model.TicketKind, id uuid.UUID, delta int) (*model.Ticket, error) {
	table, ok := kindTables[kind]
	if !ok {
		return nil, apperrors.ErrInvalidInput
	}

	// 單一原子增量：併發掃描器不會丟失更新
	query := fmt.Sprintf(`
		UPDATE %s
		SET pax_checked = pax_checked + $1
		WHERE id = $2 AND pax_checked + $1 >= 0 AND pax_checked + $1 <= pax
		RETURNING id, event_id, code, holder_name, holder_email, pax, pax_checked, created_at
	`, table)

	var ticket model.Ticket
	err := r.pool.QueryRow(ctx, query, delta, id).Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.Code,
		&ticket.HolderName,
		&ticket.HolderEmail,
		&ticket.Pax,
		&ticket.PaxChecked,
		&ticket.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			// row missing or the guard rejected the delta
			if delta > 0 {
				return nil, apperrors.ErrCapacityExceeded
			}
			return nil, apperrors.ErrNotCheckedIn
		}
		return nil, err
	}

	ticket.Kind = kind
	return &ticket, nil
}

func (r *TicketRepositoryImpl) CreateGuestCode(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
		INSERT INTO guest_codes (event_id, code, holder_name, holder_email, pax, pax_checked)
		VALUES ($1, $2, $3, $4, $5, 0)
		RETURNING id, event_id, code, holder_name, holder_email, pax, pax_checked, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		ticket.EventID, ticket.Code, ticket.HolderName, ticket.HolderEmail, ticket.Pax,
	).Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.Code,
		&ticket.HolderName,
		&ticket.HolderEmail,
		&ticket.Pax,
		&ticket.PaxChecked,
		&ticket.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrDuplicateCode
		}
		return nil, err
	}

	ticket.Kind = model.KindGuestCode
	return ticket, nil
}
