package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidStatus      = errors.New("invalid status value")
	ErrInvalidVoteType    = errors.New("invalid vote type")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnsafeContent      = errors.New("content rejected by security screening")
)
