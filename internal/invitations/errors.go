package invitations

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrInvalidSlug  = errors.New("slug must contain at least one letter or digit")
	ErrNotFound     = errors.New("invitation not found")
	ErrSlugConflict = errors.New("slug already in use")
)
