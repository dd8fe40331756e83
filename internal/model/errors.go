package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerExists   = errors.New("player already exists")
	ErrInvalidPlayer  = errors.New("invalid player id")

	// Conditional update errors
	ErrConditionFailed = errors.New("update condition no longer holds")
	ErrTooManyRetries  = errors.New("too many conflicting concurrent updates")
)
