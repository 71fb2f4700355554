package models

import "errors"

// Common errors for account, identity mapping, and warranty operations.
var (
	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")

	// Identity mapping errors
	ErrMappingNotFound  = errors.New("identity mapping not found")
	ErrDuplicateMapping = errors.New("identity mapping already exists")

	// Warranty errors
	ErrWarrantyNotFound = errors.New("warranty not found")
)
