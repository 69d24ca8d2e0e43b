package domain

import (
	"errors"
	"fmt"
)

// Машиночитаемые коды ошибок API. Клиенты ветвятся по коду,
// текст сообщения — только для человека.
const (
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidContent   = "INVALID_CONTENT"
	CodeNotFound         = "NOT_FOUND"
	CodeAlreadyShared    = "ALREADY_SHARED"
	CodeStorageError     = "STORAGE_ERROR"
	CodeGenerationFailed = "GENERATION_FAILED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Error — ошибка уровня операций с устойчивым кодом для клиента.
// Любая внутренняя ошибка конвертируется в Error до выхода
// за границу usecase.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError создает Error с кодом и сообщением без причины.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError создает Error, сохранив исходную причину для логов.
func WrapError(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf возвращает код ошибки; для неконвертированных ошибок — INTERNAL_ERROR.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// MessageOf возвращает сообщение для клиента; внутренние детали не протекают.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "An unexpected error occurred"
}

// IsCode проверяет, несет ли ошибка данный код.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
