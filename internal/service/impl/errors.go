package impl

import "errors"

var (
	ErrEmptyPassword   = errors.New("empty password")
	ErrEmptyCredential = errors.New("empty credential(s)")
	ErrPasswordLength  = errors.New("password too short")
	ErrInvalidStatus   = errors.New("invalid like status")
)
