// Package apperror описывает ошибки, которые доходят до HTTP-ответа:
// код для клиента, текст на русском и статус ответа.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

// Коды без записи отдаются как 500.
var httpStatuses = map[ErrorCode]int{
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeConflict:     http.StatusConflict,
}

// HTTPStatus возвращает статус ответа для кода ошибки.
func (c ErrorCode) HTTPStatus() int {
	if status, ok := httpStatuses[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду и сообщению, чтобы errors.Is узнавал
// доменные ошибки ниже по цепочке.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code ErrorCode, message string) *AppError {
	return Wrap(nil, code, message)
}

// Wrap сохраняет исходную ошибку для логов. Клиент видит только message.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: code.HTTPStatus(),
		Cause:      err,
	}
}

// CodeOf возвращает код первой AppError в цепочке или ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool   { return err != nil && CodeOf(err) == ErrCodeNotFound }
func IsConflict(err error) bool   { return err != nil && CodeOf(err) == ErrCodeConflict }
func IsValidation(err error) bool { return err != nil && CodeOf(err) == ErrCodeValidation }

// Ошибки предметной области. Сравниваются через errors.Is.
var (
	ErrJobNotFound     = New(ErrCodeNotFound, "задание не найдено")
	ErrWorkerNotFound  = New(ErrCodeNotFound, "работник не найден")
	ErrJobFilled       = New(ErrCodeConflict, "все места на задании уже заняты")
	ErrJobClosed       = New(ErrCodeConflict, "задание закрыто")
	ErrAlreadyAccepted = New(ErrCodeConflict, "вы уже приняли это задание")
)
