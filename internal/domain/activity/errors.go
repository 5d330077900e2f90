package activity

import "github.com/rpggio/spacelease/internal/failure"

// ErrInvalidInput indicates a nil or untyped activity entry.
var ErrInvalidInput = failure.New(failure.ErrBadRequest, "invalid activity entry")
