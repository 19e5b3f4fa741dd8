package models

import "errors"

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrValidation             = errors.New("validation error")
	ErrNotFound               = errors.New("item not found")
)
