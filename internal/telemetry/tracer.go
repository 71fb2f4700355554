package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for traced operations.
// These follow OpenTelemetry semantic conventions where applicable.
const (
	// User/identity attributes
	AttrSubject   = "user.subject"
	AttrMappingID = "user.mapping_id"

	// Warranty attributes
	AttrWarrantyID = "warranty.id"
	AttrOwnerID    = "warranty.owner_id"
	AttrProduct    = "warranty.product"

	// Storage backend attributes
	AttrBucket = "storage.bucket"
	AttrKey    = "storage.key"
	AttrFolder = "storage.folder"
	AttrSize   = "storage.size"

	// Database attributes
	AttrDBOperation = "db.operation"
	AttrDBTable     = "db.table"
)

// Span names for internal operations.
// Format: <component>.<operation>
const (
	SpanIdentityResolve = "identity.resolve"
	SpanIdentityCreate  = "identity.create"
	SpanWarrantyCreate  = "warranty.create"
	SpanWarrantyList    = "warranty.list"
	SpanMediaUpload     = "media.upload"
	SpanMediaUploadPair = "media.upload_pair"
	SpanStoreQuery      = "store.query"
)

// Subject returns an attribute for the token subject claim
func Subject(s string) attribute.KeyValue {
	return attribute.String(AttrSubject, s)
}

// MappingID returns an attribute for the identity mapping identifier
func MappingID(id string) attribute.KeyValue {
	return attribute.String(AttrMappingID, id)
}

// WarrantyID returns an attribute for the public warranty identifier
func WarrantyID(id string) attribute.KeyValue {
	return attribute.String(AttrWarrantyID, id)
}

// OwnerID returns an attribute for the warranty owner key
func OwnerID(id string) attribute.KeyValue {
	return attribute.String(AttrOwnerID, id)
}

// Product returns an attribute for the product name
func Product(name string) attribute.KeyValue {
	return attribute.String(AttrProduct, name)
}

// Bucket returns an attribute for S3 bucket name
func Bucket(name string) attribute.KeyValue {
	return attribute.String(AttrBucket, name)
}

// StorageKey returns an attribute for S3 object key
func StorageKey(key string) attribute.KeyValue {
	return attribute.String(AttrKey, key)
}

// Folder returns an attribute for the logical upload folder
func Folder(folder string) attribute.KeyValue {
	return attribute.String(AttrFolder, folder)
}

// Size returns an attribute for a payload size in bytes
func Size(n int64) attribute.KeyValue {
	return attribute.Int64(AttrSize, n)
}

// DBOperation returns an attribute for a database operation name
func DBOperation(op string) attribute.KeyValue {
	return attribute.String(AttrDBOperation, op)
}

// DBTable returns an attribute for a database table name
func DBTable(table string) attribute.KeyValue {
	return attribute.String(AttrDBTable, table)
}

// StartIdentitySpan starts a span for an identity mapping operation.
func StartIdentitySpan(ctx context.Context, name string, subject string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		Subject(subject),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}

// StartWarrantySpan starts a span for a warranty store operation.
func StartWarrantySpan(ctx context.Context, name string, ownerID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		OwnerID(ownerID),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}

// StartMediaSpan starts a span for an object storage operation.
func StartMediaSpan(ctx context.Context, name string, folder string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		Folder(folder),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}
