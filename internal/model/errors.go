package model

import "errors"

// Common errors used across the application
var (
	// Catalog errors
	ErrGameNotFound      = errors.New("game not found")
	ErrPublisherNotFound = errors.New("publisher not found")
	ErrCategoryNotFound  = errors.New("category not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)
