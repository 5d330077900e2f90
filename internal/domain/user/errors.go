package user

import "github.com/rpggio/spacelease/internal/failure"

var (
	// ErrUserNotFound indicates the user doesn't exist.
	ErrUserNotFound = failure.New(failure.ErrNotFound, "user not found")
	// ErrWrongRole indicates the user exists but holds the other role.
	ErrWrongRole = failure.New(failure.ErrBadRequest, "user has the wrong role")
	// ErrEmailTaken indicates another user already registered the email.
	ErrEmailTaken = failure.New(failure.ErrDuplicate, "email already registered")
	// ErrInvalidInput indicates invalid user input.
	ErrInvalidInput = failure.New(failure.ErrBadRequest, "invalid user input")
)
