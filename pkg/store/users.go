package store

import (
	"context"
	"errors"
	"time"

	"github.com/coverkeep/coverkeep/pkg/models"
)

// GetUserByEmail returns a user by email.
func (s *GORMStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return getByField[models.User](s.db, ctx, "email", email, models.ErrUserNotFound)
}

// GetUserByID returns a user by their unique ID.
func (s *GORMStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return getByField[models.User](s.db, ctx, "id", id, models.ErrUserNotFound)
}

// ListUsers returns all users.
func (s *GORMStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	return listAll[models.User](s.db, ctx)
}

// CreateUser creates a new user.
func (s *GORMStore) CreateUser(ctx context.Context, user *models.User) (string, error) {
	if err := user.Validate(); err != nil {
		return "", err
	}
	return createWithID(s.db, ctx, user, func(u *models.User, id string) { u.ID = id }, user.ID, models.ErrDuplicateUser)
}

// DeleteUser deletes a user by email.
func (s *GORMStore) DeleteUser(ctx context.Context, email string) error {
	return deleteByField[models.User](s.db, ctx, "email", email, models.ErrUserNotFound)
}

// UpdateUserPassword replaces the user's password hash.
func (s *GORMStore) UpdateUserPassword(ctx context.Context, email, passwordHash string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin updates the user's last login timestamp.
func (s *GORMStore) UpdateLastLogin(ctx context.Context, id string, timestamp time.Time) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login", timestamp)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// ValidateCredentials verifies email/password credentials.
//
// An unknown email and a wrong password both return
// models.ErrInvalidCredentials so the response does not reveal which
// accounts exist.
func (s *GORMStore) ValidateCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !models.VerifyPassword(password, user.PasswordHash) {
		return nil, models.ErrInvalidCredentials
	}

	return user, nil
}
