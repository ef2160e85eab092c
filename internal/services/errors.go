package services

import "errors"

var (
	// Criteria errors
	ErrInvalidCriteria = errors.New("invalid filter criteria")

	// Export errors
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
