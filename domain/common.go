package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DateFormat = "2006-01-02"

	DefaultPage  = 1
	DefaultLimit = 20
)

var (
	MessageUserNotAllowed     = "user not allowed"
	MessageFailedBodyRequest  = "failed to parse request body"
	MessageFailedGetToken     = "failed to get token"
	MessageFailedTokenInvalid = "failed to token invalid"
)

// Error categories. Every error returned by a service wraps exactly one of these.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidState      = errors.New("invalid state")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrExternalFailure   = errors.New("external failure")
)

var (
	ErrParseUUID      = NewError(ErrValidation, "failed to parse UUID")
	ErrUserNotAllowed = NewError(ErrUnauthorized, "user not allowed")
	ErrTokenNotFound  = NewError(ErrUnauthorized, "failed to token not found")
	ErrTokenExpired   = NewError(ErrUnauthorized, "token expired")
	ErrTokenInvalid   = NewError(ErrUnauthorized, "token invalid")
)

type categorizedError struct {
	msg  string
	kind error
}

func (e *categorizedError) Error() string { return e.msg }

func (e *categorizedError) Unwrap() error { return e.kind }

// NewError returns an error with message msg that matches kind under errors.Is.
func NewError(kind error, msg string) error {
	return &categorizedError{msg: msg, kind: kind}
}

// FieldError is a validation failure tied to one request field.
type FieldError struct {
	Field   string
	Message string
}

func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}

// TransitionError reports a status change the state machine does not allow.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition shopping list from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ExternalError wraps a failure from a collaborator outside this service.
func ExternalError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrExternalFailure, err)
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD value, reporting failures against field.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return time.Time{}, NewFieldError(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}
