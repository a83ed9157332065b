package services

import "errors"

// Виды ошибок бизнес-логики. Проверять через errors.Is.
var (
	ErrValidation            = errors.New("validation failed")
	ErrConflict              = errors.New("conflict")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrNotFound              = errors.New("not found")
)

// FlowError: ошибка с текстом для клиента. Error() отдаётся в ответ как есть.
type FlowError struct {
	kind error
	msg  string
}

func (e *FlowError) Error() string { return e.msg }
func (e *FlowError) Unwrap() error { return e.kind }

func flowErr(kind error, msg string) error {
	return &FlowError{kind: kind, msg: msg}
}
