package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so that log
// aggregation and querying stay uniform across the service.
const (
	// Distributed tracing
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// HTTP request
	KeyMethod    = "method"     // HTTP method: GET, POST, etc.
	KeyRoute     = "route"      // Matched route pattern
	KeyPath      = "path"       // Raw request path
	KeyStatus    = "status"     // HTTP response status code
	KeyRequestID = "request_id" // Per-request identifier from the middleware chain
	KeyClientIP  = "client_ip"  // Client IP address

	// Identity
	KeyUserID    = "user_id"    // Account identifier
	KeySubject   = "subject"    // Token subject claim
	KeyMappingID = "mapping_id" // Identity mapping identifier (warranty owner key)
	KeyEmail     = "email"      // Account email

	// Warranty domain
	KeyWarrantyID = "warranty_id" // Public warranty identifier
	KeyOwnerID    = "owner_id"    // Warranty owner key
	KeyProduct    = "product"     // Product name
	KeyCompany    = "company"     // Company name

	// Object storage
	KeyBucket      = "bucket"       // S3 bucket name
	KeyKey         = "key"          // Object key
	KeyFolder      = "folder"       // Logical upload folder
	KeySize        = "size"         // Payload size in bytes
	KeyContentType = "content_type" // Upload MIME type

	// Operation metadata
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyOperation  = "operation"   // Sub-operation name for multi-step flows
)

// Field constructors for type safety.

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// Method returns a slog.Attr for the HTTP method
func Method(m string) slog.Attr {
	return slog.String(KeyMethod, m)
}

// Route returns a slog.Attr for the matched route pattern
func Route(r string) slog.Attr {
	return slog.String(KeyRoute, r)
}

// Path returns a slog.Attr for the raw request path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Status returns a slog.Attr for the HTTP response status
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// RequestID returns a slog.Attr for the per-request identifier
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// ClientIP returns a slog.Attr for the client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// UserID returns a slog.Attr for the account identifier
func UserID(id string) slog.Attr {
	return slog.String(KeyUserID, id)
}

// Subject returns a slog.Attr for the token subject claim
func Subject(s string) slog.Attr {
	return slog.String(KeySubject, s)
}

// MappingID returns a slog.Attr for the identity mapping identifier
func MappingID(id string) slog.Attr {
	return slog.String(KeyMappingID, id)
}

// Email returns a slog.Attr for the account email
func Email(e string) slog.Attr {
	return slog.String(KeyEmail, e)
}

// WarrantyID returns a slog.Attr for the public warranty identifier
func WarrantyID(id string) slog.Attr {
	return slog.String(KeyWarrantyID, id)
}

// OwnerID returns a slog.Attr for the warranty owner key
func OwnerID(id string) slog.Attr {
	return slog.String(KeyOwnerID, id)
}

// Product returns a slog.Attr for the product name
func Product(name string) slog.Attr {
	return slog.String(KeyProduct, name)
}

// Company returns a slog.Attr for the company name
func Company(name string) slog.Attr {
	return slog.String(KeyCompany, name)
}

// Bucket returns a slog.Attr for the S3 bucket name
func Bucket(name string) slog.Attr {
	return slog.String(KeyBucket, name)
}

// Key returns a slog.Attr for the object key
func Key(k string) slog.Attr {
	return slog.String(KeyKey, k)
}

// Folder returns a slog.Attr for the logical upload folder
func Folder(f string) slog.Attr {
	return slog.String(KeyFolder, f)
}

// Size returns a slog.Attr for a payload size in bytes
func Size(n int64) slog.Attr {
	return slog.Int64(KeySize, n)
}

// ContentType returns a slog.Attr for an upload MIME type
func ContentType(ct string) slog.Attr {
	return slog.String(KeyContentType, ct)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Operation returns a slog.Attr for a sub-operation name
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}
