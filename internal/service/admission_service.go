package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"go-gin-guestlist/internal/model"
	"go-gin-guestlist/internal/repository"
	apperrors "go-gin-guestlist/pkg/app_errors"
	"go-gin-guestlist/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	codeLength      = 8
	codeAlphabet    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // no 0/O/1/I
	maxCodeAttempts = 8
)

type AdmissionService interface {
	// 查驗：唯讀解析票種，掃描員先看明細再決定進出
	Validate(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	// 入場：pax_checked 原子 +1
	CheckIn(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	// 離場：pax_checked 原子 -1
	CheckOut(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	CreateGuestCode(ctx context.Context, req model.CreateGuestCodeRequest) (*model.Ticket, error)
}

type AdmissionServiceImpl struct {
	repository repository.TicketRepository
}

func NewAdmissionService(ticketRepository repository.TicketRepository) AdmissionService {
	return &AdmissionServiceImpl{
		repository: ticketRepository,
	}
}

func (s *AdmissionServiceImpl) Validate(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *AdmissionServiceImpl) CheckIn(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	return s.adjust(ctx, id, 1)
}

func (s *AdmissionServiceImpl) CheckOut(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	return s.adjust(ctx, id, -1)
}

// adjust 先解析票種，再由儲存層做單一原子增量。多台掃描器同時掃同
// 一張票時，每次呼叫都是獨立的 delta，不會丟失更新。
func (s *AdmissionServiceImpl) adjust(ctx context.Context, id uuid.UUID, delta int) (*model.Ticket, error) {
	ticket, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.repository.AdjustPax(ctx, ticket.Kind, ticket.ID, delta)
}

func (s *AdmissionServiceImpl) CreateGuestCode(ctx context.Context, req model.CreateGuestCodeRequest) (*model.Ticket, error) {
	if req.Pax < 1 {
		return nil, apperrors.ErrInvalidInput
	}

	// 有上限的重試，不做遞迴：連續撞碼達上限即回報，不無限重生
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode(codeLength)
		if err != nil {
			return nil, err
		}

		ticket := &model.Ticket{
			EventID:     req.EventID,
			Code:        code,
			HolderName:  req.HolderName,
			HolderEmail: req.HolderEmail,
			Pax:         req.Pax,
		}

		created, err := s.repository.CreateGuestCode(ctx, ticket)
		if err != nil {
			if errors.Is(err, apperrors.ErrDuplicateCode) {
				logger.WithComponent("admission").Warn("guest code collision, retrying",
					zap.Int("attempt", attempt+1))
				continue
			}
			return nil, err
		}

		return created, nil
	}

	return nil, apperrors.ErrCodeExhausted
}

func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
