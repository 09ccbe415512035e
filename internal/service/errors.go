package service

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrAlreadyClockedIn = errors.New("contractor already has an active session")
	ErrNotClockedIn     = errors.New("contractor has no active session")
)
