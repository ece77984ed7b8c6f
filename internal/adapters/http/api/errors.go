package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/bounty/internal/adapters/identity"
	"github.com/okian/bounty/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("missing or invalid bearer token")
)

// Wrap prefixes err with the operation name.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind wraps cause under kind so errors.Is matches kind.
func WrapKind(op string, kind, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, cause)
}

// NewKind reports kind for op.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// statusFor maps an error to its HTTP status and response code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, identity.ErrTokenExpired):
		return http.StatusUnauthorized, "unauthenticated"
	}

	kind := model.Kind(err)
	switch kind {
	case "unauthorized", "identity_mismatch":
		return http.StatusForbidden, kind
	case "not_found":
		return http.StatusNotFound, kind
	case "temporal", "insufficient_data", "conflict":
		return http.StatusConflict, kind
	case "invalid_argument":
		return http.StatusBadRequest, kind
	case "arithmetic":
		return http.StatusUnprocessableEntity, kind
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
