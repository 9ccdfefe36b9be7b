package types

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

func (e ErrorCode) String() string {
	return string(e)
}

const (
	// InternalServiceError is the generic bucket for storage and transport
	// failures; callers cannot act on it beyond resubmitting.
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	// ValidationError covers malformed requests and payloads.
	ValidationError ErrorCode = "VALIDATION_ERROR"
	// UnauthorizedCaller: caller is not the staking authority, not the
	// configured admin, or not approved/owner of the position.
	UnauthorizedCaller ErrorCode = "UNAUTHORIZED_CALLER"
	// ClaimAlreadyCreated: the claim is already outstanding for the position.
	ClaimAlreadyCreated ErrorCode = "ALREADY_CREATED"
	// ClaimNotCreated: the claim is not outstanding for the position.
	ClaimNotCreated ErrorCode = "NOT_CREATED"
	// ClaimTypeNotConfigured: the claim type has no derivative contract.
	ClaimTypeNotConfigured ErrorCode = "CLAIM_TYPE_NOT_CONFIGURED"
	// DefaultHelperConflict: a helper override diverges from a forced
	// default whose policy forbids deviation.
	DefaultHelperConflict ErrorCode = "DEFAULT_HELPER_CONFLICT"
	// DuplicateClaimType: an instruction batch names the same claim type twice.
	DuplicateClaimType ErrorCode = "DUPLICATE_CLAIM_TYPE"
)

// Error carries an identifiable error kind alongside the HTTP status it maps
// to, so calling software can tell programming errors from expected state
// conflicts.
type Error struct {
	Err        error
	StatusCode int
	ErrorCode  ErrorCode
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.ErrorCode.String()
	}
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	return &Error{
		Err:        err,
		StatusCode: statusCode,
		ErrorCode:  errorCode,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return NewError(statusCode, errorCode, errors.New(msg))
}

func NewInternalServiceError(err error) *Error {
	return NewError(http.StatusInternalServerError, InternalServiceError, err)
}

func NewValidationFailedError(err error) *Error {
	return NewError(http.StatusBadRequest, ValidationError, err)
}

func NewUnauthorizedCallerError(caller Ref) *Error {
	return NewError(
		http.StatusForbidden,
		UnauthorizedCaller,
		fmt.Errorf("caller %q is not authorized", caller),
	)
}
