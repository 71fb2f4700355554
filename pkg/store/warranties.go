package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/coverkeep/coverkeep/internal/telemetry"
	"github.com/coverkeep/coverkeep/pkg/models"
)

// CreateWarranty inserts a new warranty record.
//
// No duplicate check is performed: warranties for genuinely identical
// products purchased twice are valid, so repeated submissions create
// distinct records. WarrantyID is generated server-side, so a unique
// violation on it is not a caller-correctable conflict and propagates
// as a plain error.
func (s *GORMStore) CreateWarranty(ctx context.Context, warranty *models.Warranty) (string, error) {
	ctx, span := telemetry.StartWarrantySpan(ctx, telemetry.SpanStoreQuery, warranty.OwnerID,
		telemetry.DBOperation("insert"),
		telemetry.DBTable(models.Warranty{}.TableName()))
	defer span.End()

	if warranty.WarrantyID == "" {
		warranty.WarrantyID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(warranty).Error; err != nil {
		telemetry.RecordError(ctx, err)
		return "", err
	}
	telemetry.SetAttributes(ctx, telemetry.WarrantyID(warranty.WarrantyID))
	return warranty.WarrantyID, nil
}

// ListWarranties returns warranty records owned by ownerID, newest first.
//
// The query is always scoped to owner_id; warrantyID only narrows it
// further, so a warranty id belonging to another owner yields an empty
// result rather than foreign data.
func (s *GORMStore) ListWarranties(ctx context.Context, ownerID, warrantyID string) ([]*models.Warranty, error) {
	ctx, span := telemetry.StartWarrantySpan(ctx, telemetry.SpanStoreQuery, ownerID,
		telemetry.DBOperation("select"),
		telemetry.DBTable(models.Warranty{}.TableName()))
	defer span.End()

	q := s.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if warrantyID != "" {
		q = q.Where("warranty_id = ?", warrantyID)
		telemetry.SetAttributes(ctx, telemetry.WarrantyID(warrantyID))
	}

	warranties := []*models.Warranty{}
	if err := q.Order("created_at DESC").Find(&warranties).Error; err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}
	return warranties, nil
}
