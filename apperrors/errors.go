package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBusy             = errors.New("an operation is already in progress")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoCertificate    = errors.New("no certificate available")
	ErrNoAttempt        = errors.New("no exam loaded for this course")
	ErrInvalidState     = errors.New("action not allowed in the current state")
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindBackend
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindBackend:
		return "backend"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// ValidationError is detected locally and never reaches the backend.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

func Validation(field, message string) error {
	return ValidationError{Field: field, Message: message}
}

// Error is a failed backend call.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s error (%d): %s", e.Kind, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Err.Error())
	default:
		return fmt.Sprintf("%s error (%d)", e.Kind, e.Status)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Network(err error) error {
	return &Error{Kind: KindNetwork, Err: err}
}

// FromStatus classifies a non-2xx response.
func FromStatus(status int, message string) error {
	kind := KindBackend
	if status == http.StatusUnauthorized {
		kind = KindAuth
	}
	return &Error{Kind: kind, Status: status, Message: message}
}

func KindOf(err error) Kind {
	var v ValidationError
	if errors.As(err, &v) {
		return KindValidation
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

const authFallback = "Your session is not valid. Please log in again."

// Message is the text shown to the user for err: a local validation
// message, the backend's own message when it sent one, else fallback.
func Message(err error, fallback string) string {
	var v ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" && e.Kind != KindNetwork {
			return e.Message
		}
		if e.Kind == KindAuth {
			return authFallback
		}
		return fallback
	}
	switch {
	case errors.Is(err, ErrBusy), errors.Is(err, ErrNoCertificate),
		errors.Is(err, ErrNoAttempt), errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrNotAuthenticated):
		return err.Error()
	}
	return fallback
}

// HTTPStatus maps err onto the status returned to the browser.
func HTTPStatus(err error) int {
	var v ValidationError
	if errors.As(err, &v) {
		return http.StatusBadRequest
	}
	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case KindAuth:
			return http.StatusUnauthorized
		case KindNetwork:
			return http.StatusServiceUnavailable
		}
		if e.Status >= 400 && e.Status < 500 {
			return e.Status
		}
		return http.StatusBadGateway
	}
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBusy), errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrNoCertificate), errors.Is(err, ErrNoAttempt):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
