// Package store provides the persistence layer for the warranty vault.
//
// This package implements the Store interface for managing accounts,
// identity mappings, and warranty records.
//
// Two backends are supported:
//   - SQLite (single-node, default)
//   - PostgreSQL (production)
package store

import (
	"context"
	"time"

	"github.com/coverkeep/coverkeep/pkg/models"
)

// Store provides the persistence interface for the warranty vault.
//
// Thread safety: implementations must be safe for concurrent use from
// multiple goroutines.
type Store interface {
	UserStore
	MappingStore
	WarrantyStore

	// Healthcheck verifies database connectivity.
	Healthcheck(ctx context.Context) error

	// Close releases the underlying database connection.
	Close() error
}

// UserStore manages credential accounts.
type UserStore interface {
	// GetUserByEmail returns a user by email.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns a user by their unique ID (UUID).
	// Returns models.ErrUserNotFound if no user has this ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// ListUsers returns all users.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateUser creates a new user. The user ID will be generated if
	// empty; the generated ID is returned.
	// Returns models.ErrDuplicateUser if a user with the same email exists.
	CreateUser(ctx context.Context, user *models.User) (string, error)

	// DeleteUser deletes a user by email.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	DeleteUser(ctx context.Context, email string) error

	// UpdateUserPassword replaces the user's password hash.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	UpdateUserPassword(ctx context.Context, email, passwordHash string) error

	// UpdateLastLogin updates the user's last login timestamp.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	UpdateLastLogin(ctx context.Context, id string, timestamp time.Time) error

	// ValidateCredentials verifies email/password credentials.
	// Returns the user if credentials are valid.
	// Returns models.ErrInvalidCredentials if the credentials are invalid.
	ValidateCredentials(ctx context.Context, email, password string) (*models.User, error)
}

// MappingStore manages identity mappings between external authentication
// subjects and internal user identifiers.
type MappingStore interface {
	// GetMappingBySubject returns the mapping for an external subject.
	// Returns models.ErrMappingNotFound if no mapping exists.
	GetMappingBySubject(ctx context.Context, subject string) (*models.UserMapping, error)

	// CreateMapping inserts a new identity mapping. The mapping ID is
	// generated if empty.
	// Returns models.ErrDuplicateMapping if a mapping for the same
	// external subject already exists (unique constraint violation).
	CreateMapping(ctx context.Context, mapping *models.UserMapping) error
}

// WarrantyStore manages warranty records.
type WarrantyStore interface {
	// CreateWarranty inserts a new warranty record. The caller-visible
	// warranty ID is generated if empty; the generated ID is returned.
	// No duplicate check is performed: identical submissions create
	// distinct records.
	CreateWarranty(ctx context.Context, warranty *models.Warranty) (string, error)

	// ListWarranties returns warranty records owned by ownerID, newest
	// first. A non-empty warrantyID narrows the result to at most one
	// record matching both owner and warranty id; a warranty id owned by
	// someone else yields an empty slice, never foreign data.
	ListWarranties(ctx context.Context, ownerID, warrantyID string) ([]*models.Warranty, error)
}
