package apperrors

import "errors"

var (
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrChatNotFound         = errors.New("chat not found")
	ErrCapacityExceeded     = errors.New("admission capacity exceeded")
	ErrNotCheckedIn         = errors.New("no admissions to check out")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidInput         = errors.New("invalid input")
	ErrDuplicateCode        = errors.New("code already exists")
	ErrCodeExhausted        = errors.New("code generation attempts exhausted")
	ErrInternalServerError  = errors.New("internal server error")
)
