// Package identity translates authenticated token subjects into the
// stable internal owner identifiers that warranties are keyed by.
//
// Every authenticated caller is identified by the subject claim of its
// token. The first time a subject touches warranty data a UserMapping
// row is created for it; from then on the mapping's own ID is the
// owner key for all of that subject's warranties. Mappings are
// append-only: they are never updated or deleted, so an owner key is
// stable for the lifetime of the account.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/coverkeep/coverkeep/internal/telemetry"
	"github.com/coverkeep/coverkeep/pkg/models"
)

// MappingStore is the subset of the store the mapper needs.
type MappingStore interface {
	GetMappingBySubject(ctx context.Context, subject string) (*models.UserMapping, error)
	CreateMapping(ctx context.Context, mapping *models.UserMapping) error
}

// Mapper resolves external token subjects to internal owner IDs.
type Mapper struct {
	store  MappingStore
	logger *slog.Logger
}

// NewMapper creates a new identity mapper backed by the given store.
func NewMapper(store MappingStore, logger *slog.Logger) *Mapper {
	return &Mapper{
		store:  store,
		logger: logger,
	}
}

// ResolveOrCreate returns the mapping for the given subject, creating
// one if the subject has never been seen before.
//
// Concurrent first contacts are resolved optimistically: both callers
// attempt the insert, the loser hits the unique index on the subject
// column and re-reads the winner's row. No application-level locking
// is involved, and both callers observe the same mapping.
func (m *Mapper) ResolveOrCreate(ctx context.Context, subject string) (*models.UserMapping, error) {
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}

	ctx, span := telemetry.StartIdentitySpan(ctx, telemetry.SpanIdentityResolve, subject)
	defer span.End()

	mapping, err := m.store.GetMappingBySubject(ctx, subject)
	if err == nil {
		telemetry.SetAttributes(ctx, telemetry.MappingID(mapping.ID))
		return mapping, nil
	}
	if !errors.Is(err, models.ErrMappingNotFound) {
		telemetry.RecordError(ctx, err)
		return nil, fmt.Errorf("failed to look up mapping: %w", err)
	}

	mapping = &models.UserMapping{
		ExternalSubject: subject,
		LinkedUserID:    uuid.New().String(),
	}

	createCtx, createSpan := telemetry.StartIdentitySpan(ctx, telemetry.SpanIdentityCreate, subject)
	err = m.store.CreateMapping(createCtx, mapping)
	createSpan.End()
	if err == nil {
		telemetry.SetAttributes(ctx, telemetry.MappingID(mapping.ID))
		m.logger.Debug("created identity mapping",
			"mapping_id", mapping.ID,
			"subject", subject)
		return mapping, nil
	}

	if errors.Is(err, models.ErrDuplicateMapping) {
		// Lost the first-contact race; the winner's row is now visible.
		m.logger.Debug("mapping insert lost first-contact race, re-reading",
			"subject", subject)
		mapping, err = m.store.GetMappingBySubject(ctx, subject)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read mapping after conflict: %w", err)
		}
		telemetry.SetAttributes(ctx, telemetry.MappingID(mapping.ID))
		return mapping, nil
	}

	telemetry.RecordError(ctx, err)
	return nil, fmt.Errorf("failed to create mapping: %w", err)
}

// ResolveExisting returns the mapping for the given subject without
// creating one. Read paths use this so that a subject that has never
// stored anything gets models.ErrMappingNotFound instead of a fresh
// empty identity.
func (m *Mapper) ResolveExisting(ctx context.Context, subject string) (*models.UserMapping, error) {
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}

	ctx, span := telemetry.StartIdentitySpan(ctx, telemetry.SpanIdentityResolve, subject)
	defer span.End()

	mapping, err := m.store.GetMappingBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, models.ErrMappingNotFound) {
			return nil, models.ErrMappingNotFound
		}
		telemetry.RecordError(ctx, err)
		return nil, fmt.Errorf("failed to look up mapping: %w", err)
	}

	telemetry.SetAttributes(ctx, telemetry.MappingID(mapping.ID))
	return mapping, nil
}
