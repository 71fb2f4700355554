package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/coverkeep/coverkeep/pkg/models"
)

// GetMappingBySubject returns the identity mapping for an external subject.
func (s *GORMStore) GetMappingBySubject(ctx context.Context, subject string) (*models.UserMapping, error) {
	return getByField[models.UserMapping](s.db, ctx, "external_subject", subject, models.ErrMappingNotFound)
}

// CreateMapping inserts a new identity mapping.
//
// The database's unique index on external_subject is the only guard
// against concurrent first-contact inserts for the same subject: the
// losing insert surfaces as models.ErrDuplicateMapping, which callers
// resolve by re-reading the surviving row.
func (s *GORMStore) CreateMapping(ctx context.Context, mapping *models.UserMapping) error {
	if mapping.ID == "" {
		mapping.ID = uuid.New().String()
	}
	result := s.db.WithContext(ctx).Create(mapping)
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return models.ErrDuplicateMapping
		}
		return result.Error
	}
	return nil
}
