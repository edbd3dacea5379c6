package types

import "errors"

var (
	// ErrNotFound is returned when the requested document doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when the resource conflicts (e.g. update of old revision or create of existing document)
	ErrConflict = errors.New("conflict")

	// ErrBadRequest is returned on invalid input
	ErrBadRequest = errors.New("bad request")

	// ErrInvalidEmail is returned when the email is invalid
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidPublicKey is returned when a submitted public key can't be imported
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrUnauthorized is returned when the caller has no valid identity
	ErrUnauthorized = errors.New("not authenticated")

	// ErrForbidden is returned when the caller is not the intended recipient of a message
	ErrForbidden = errors.New("not the intended recipient")

	// ErrAlreadyDecrypted is returned when a one-time message was already decrypted
	ErrAlreadyDecrypted = errors.New("message already decrypted")

	// ErrDecryptionFailure covers tampered payloads, wrong keys and unreadable key material
	ErrDecryptionFailure = errors.New("failed to decrypt message")

	// ErrInternal (for unhandled exceptions)
	ErrInternal = errors.New("internal error")
)
