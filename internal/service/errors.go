package service

import "errors"

var (
	ErrForbidden    = errors.New("operation not permitted for this user")
	ErrInvalidInput = errors.New("invalid input")
)
