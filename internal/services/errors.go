package services

import "errors"

var (
	ErrWriteFailed        = errors.New("failed to write data")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStorageUnavailable = errors.New("image storage is not configured")
	ErrSessionUnavailable = errors.New("session tokens cannot be issued")
)
