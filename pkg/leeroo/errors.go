package leeroo

import (
	"errors"

	"github.com/leeroo-ai/leeroo/internal/common/apperrors"
)

// ErrorKind classifies the errors returned by a Session.
type ErrorKind = apperrors.Kind

const (
	KindUnknown        = apperrors.KindUnknown
	KindAuthentication = apperrors.KindAuthentication
	KindTransport      = apperrors.KindTransport
	KindDecoding       = apperrors.KindDecoding
	KindFilesystem     = apperrors.KindFilesystem
	KindValidation     = apperrors.KindValidation
)

// Sentinel errors. Every error returned by this package matches exactly one of them
// with errors.Is; the underlying cause stays reachable with errors.As.
var (
	// ErrAuthentication means the server did not accept the API key. Retrying with
	// the same key will not succeed.
	ErrAuthentication  = apperrors.New(KindAuthentication, "incorrect API key")
	ErrTransport       = apperrors.New(KindTransport, "transport error")
	ErrDecoding        = apperrors.New(KindDecoding, "invalid JSON response")
	ErrFilesystem      = apperrors.New(KindFilesystem, "unable to read seed data")
	ErrInvalidArgument = apperrors.New(KindValidation, "invalid argument")
)

// KindOf reports the kind of an error returned by this package.
func KindOf(err error) ErrorKind {
	return apperrors.KindOf(err)
}

// IsAuthenticationError reports whether err is an authentication failure.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// StatusCode returns the HTTP status attached to an error, or 0. Errors raised for a
// response with an error status carry it.
func StatusCode(err error) int {
	return apperrors.StatusCodeOf(err)
}

// classify maps a failure of the HTTP layer onto the package sentinels.
func classify(err error) error {
	switch {
	case apperrors.KindOf(err) == apperrors.KindFilesystem:
		return ErrFilesystem.Err(err)
	case apperrors.KindOf(err) == apperrors.KindValidation:
		return ErrInvalidArgument.Err(err)
	default:
		return ErrTransport.Err(err)
	}
}
