package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a failure. The kind is the only diagnostic detail that is
// ever visible to API callers; wrapped causes stay in the server log.
type Kind string

const (
	KindUnauthenticated       Kind = "UNAUTHENTICATED"
	KindForbidden             Kind = "FORBIDDEN"
	KindSessionNotFound       Kind = "SESSION_NOT_FOUND"
	KindAccountNotFound       Kind = "ACCOUNT_NOT_FOUND"
	KindMalformedRequest      Kind = "MALFORMED_REQUEST"
	KindLimitExceeded         Kind = "LIMIT_EXCEEDED"
	KindGenerationMalformed   Kind = "GENERATION_MALFORMED"
	KindGenerationUnavailable Kind = "GENERATION_UNAVAILABLE"
	KindRelayUnavailable      Kind = "RELAY_UNAVAILABLE"
	KindPersistenceFailed     Kind = "PERSISTENCE_FAILED"
	KindInternal              Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
	// Details is attached to the response body for client errors only
	// (e.g. usage-limit payloads). Never populated for 5xx kinds.
	Details map[string]interface{}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// From normalizes any error into an *Error, wrapping unclassified
// failures as KindInternal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(KindInternal, "internal server error", err)
}

func KindOf(err error) Kind {
	return From(err).Kind
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindSessionNotFound, KindAccountNotFound:
		return fiber.StatusNotFound
	case KindMalformedRequest:
		return fiber.StatusBadRequest
	case KindLimitExceeded:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// ClientMessage is the externally visible message. Server-side failures get a
// generic message; provider errors and stack detail never reach the caller.
func ClientMessage(e *Error) string {
	if HTTPStatus(e.Kind) >= fiber.StatusInternalServerError {
		return "the request could not be completed"
	}
	return e.Message
}
