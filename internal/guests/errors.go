package guests

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("guest response not found")
	ErrInvitationNotFound = errors.New("invitation not found")
)
