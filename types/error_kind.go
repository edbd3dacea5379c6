package types

import (
	"errors"
	"net/http"
)

// ErrorKind is carried in every error response so clients never have to parse the message text
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindNotFound     ErrorKind = "not_found"
	KindForbidden    ErrorKind = "forbidden"
	KindConflict     ErrorKind = "conflict"
	KindBadRequest   ErrorKind = "bad_request"
	KindRateLimited  ErrorKind = "rate_limited"
	KindInternal     ErrorKind = "internal"
)

// KindOf maps an error to its kind and HTTP status. Unknown errors are internal.
func KindOf(err error) (ErrorKind, int) {
	switch {
	case err == nil:
		return "", http.StatusOK
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized, http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return KindNotFound, http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden, http.StatusForbidden
	case errors.Is(err, ErrAlreadyDecrypted), errors.Is(err, ErrConflict):
		return KindConflict, http.StatusConflict
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrInvalidPublicKey):
		return KindBadRequest, http.StatusBadRequest
	default:
		return KindInternal, http.StatusInternalServerError
	}
}

// KindFromStatus is the reverse mapping used when a response carries no kind field
func KindFromStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusConflict:
		return KindConflict
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindInternal
	}
}
