package user

import "errors"

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when a user with the same email exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrUserDeleted is returned when mutating a logically deleted user.
	ErrUserDeleted = errors.New("user is deleted")
)
