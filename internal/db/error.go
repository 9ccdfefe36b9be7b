package db

import "errors"

// DuplicateKeyError is returned when an insert collides with an existing key.
type DuplicateKeyError struct {
	Key     string
	Message string
}

func (e *DuplicateKeyError) Error() string {
	return e.Message
}

func IsDuplicateKeyError(err error) bool {
	var target *DuplicateKeyError
	return errors.As(err, &target)
}

// NotFoundError is returned when a keyed document does not exist.
type NotFoundError struct {
	Key     string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// StateConflictError is returned when a conditional bitmap transition does
// not apply: marking a flag that is already set, or clearing one that is
// already clear. It distinguishes expected state conflicts from storage
// failures.
type StateConflictError struct {
	Key     string
	Message string
}

func (e *StateConflictError) Error() string {
	return e.Message
}

func IsStateConflictError(err error) bool {
	var target *StateConflictError
	return errors.As(err, &target)
}
