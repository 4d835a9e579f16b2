package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingSecret = fmt.Errorf("missing token signing secret")

	// Authentication errors
	ErrInvalidToken = fmt.Errorf("invalid token")
	ErrTokenExpired = fmt.Errorf("token expired")

	// Storage errors
	ErrNotFound = fmt.Errorf("record not found")
	ErrConflict = fmt.Errorf("record already exists")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
