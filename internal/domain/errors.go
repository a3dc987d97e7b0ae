package domain

import "errors"

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrProfileIncomplete = errors.New("profile setup not completed")
	ErrItemNotFound      = errors.New("item not found")
)
