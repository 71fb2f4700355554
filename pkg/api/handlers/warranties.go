package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/coverkeep/coverkeep/internal/logger"
	"github.com/coverkeep/coverkeep/internal/telemetry"
	"github.com/coverkeep/coverkeep/pkg/api/middleware"
	"github.com/coverkeep/coverkeep/pkg/media"
	"github.com/coverkeep/coverkeep/pkg/models"
	"github.com/coverkeep/coverkeep/pkg/store"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing;
// larger file parts spill to temporary files.
const maxMultipartMemory = 32 << 20

// IdentityResolver maps external authentication subjects to internal
// warranty-owner identities.
type IdentityResolver interface {
	// ResolveOrCreate returns the mapping for subject, creating one on
	// first contact.
	ResolveOrCreate(ctx context.Context, subject string) (*models.UserMapping, error)

	// ResolveExisting returns the mapping for subject without creating
	// one. Returns models.ErrMappingNotFound if the subject has never
	// been seen.
	ResolveExisting(ctx context.Context, subject string) (*models.UserMapping, error)
}

// WarrantyHandler handles warranty creation and retrieval endpoints.
type WarrantyHandler struct {
	store    store.WarrantyStore
	resolver IdentityResolver
	uploader media.Uploader
}

// NewWarrantyHandler creates a new WarrantyHandler.
func NewWarrantyHandler(s store.WarrantyStore, resolver IdentityResolver, uploader media.Uploader) *WarrantyHandler {
	return &WarrantyHandler{
		store:    s,
		resolver: resolver,
		uploader: uploader,
	}
}

// CreateWarrantyRequest carries the text fields of the multipart
// creation form. Image parts are handled separately.
type CreateWarrantyRequest struct {
	ProductName    string `validate:"required,min=1,max=255"`
	CompanyName    string `validate:"required,min=1,max=255"`
	PurchaseDate   string `validate:"required"`
	ExpiryDate     string `validate:"required"`
	AdditionalInfo string `validate:"max=2000"`
}

// CreateWarrantyResponse is the response body for POST /api/v1/warranties.
type CreateWarrantyResponse struct {
	WarrantyID string `json:"warrantyId"`
}

// Create handles POST /api/v1/warranties.
//
// The request is a multipart form carrying the warranty fields plus two
// image parts (receiptImage, productImage). All validation happens
// before any upload or insert, so a rejected request never leaves
// partial state behind.
func (h *WarrantyHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.StartSpan(r.Context(), telemetry.SpanWarrantyCreate)
	defer span.End()

	claims := middleware.GetClaimsFromContext(ctx)
	if claims == nil {
		Unauthorized(w, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		BadRequest(w, "Invalid multipart form")
		return
	}

	req := CreateWarrantyRequest{
		ProductName:    r.FormValue("productName"),
		CompanyName:    r.FormValue("companyName"),
		PurchaseDate:   r.FormValue("purchaseDate"),
		ExpiryDate:     r.FormValue("expiryDate"),
		AdditionalInfo: r.FormValue("additionalInfo"),
	}
	if !validateStruct(w, &req) {
		return
	}

	purchaseDate, err := models.ParseDate(req.PurchaseDate)
	if err != nil {
		BadRequest(w, "purchaseDate must be a valid date in YYYY-MM-DD format")
		return
	}
	expiryDate, err := models.ParseDate(req.ExpiryDate)
	if err != nil {
		BadRequest(w, "expiryDate must be a valid date in YYYY-MM-DD format")
		return
	}

	receipt, receiptClose, ok := formImage(w, r, "receiptImage")
	if !ok {
		return
	}
	defer receiptClose()

	product, productClose, ok := formImage(w, r, "productImage")
	if !ok {
		return
	}
	defer productClose()

	mapping, err := h.resolver.ResolveOrCreate(ctx, claims.Subject)
	if err != nil {
		logger.ErrorCtx(ctx, "failed to resolve identity", logger.Subject(claims.Subject), logger.Err(err))
		InternalServerError(w, "Failed to resolve user identity")
		return
	}
	telemetry.SetAttributes(ctx,
		telemetry.OwnerID(mapping.ID),
		telemetry.Product(req.ProductName))

	receiptURL, productURL, err := h.uploader.UploadPair(ctx, receipt, product)
	if err != nil {
		if isUploadValidationError(err) {
			BadRequest(w, err.Error())
			return
		}
		logger.ErrorCtx(ctx, "image upload failed", logger.MappingID(mapping.ID), logger.Err(err))
		InternalServerError(w, "Failed to upload images")
		return
	}

	warranty := &models.Warranty{
		OwnerID:         mapping.ID,
		ProductName:     req.ProductName,
		CompanyName:     req.CompanyName,
		PurchaseDate:    purchaseDate,
		ExpiryDate:      expiryDate,
		AdditionalInfo:  req.AdditionalInfo,
		ReceiptImageURL: receiptURL,
		ProductImageURL: productURL,
	}

	id, err := h.store.CreateWarranty(ctx, warranty)
	if err != nil {
		logger.ErrorCtx(ctx, "failed to persist warranty", logger.MappingID(mapping.ID), logger.Err(err))
		InternalServerError(w, "Failed to save warranty")
		return
	}

	logger.InfoCtx(ctx, "warranty created",
		logger.WarrantyID(id),
		logger.OwnerID(mapping.ID),
		logger.Product(req.ProductName),
	)
	WriteJSONOK(w, CreateWarrantyResponse{WarrantyID: id})
}

// List handles GET /api/v1/warranties.
//
// An optional warrantyId query parameter narrows the result to a single
// record. Records are always scoped to the caller's resolved identity;
// a warrantyId owned by someone else yields an empty array.
func (h *WarrantyHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.StartSpan(r.Context(), telemetry.SpanWarrantyList)
	defer span.End()

	claims := middleware.GetClaimsFromContext(ctx)
	if claims == nil {
		Unauthorized(w, "Authentication required")
		return
	}

	mapping, err := h.resolver.ResolveExisting(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrMappingNotFound) {
			NotFound(w, "No warranties found for this user")
			return
		}
		logger.ErrorCtx(ctx, "failed to resolve identity", logger.Subject(claims.Subject), logger.Err(err))
		InternalServerError(w, "Failed to resolve user identity")
		return
	}

	warranties, err := h.store.ListWarranties(ctx, mapping.ID, r.URL.Query().Get("warrantyId"))
	if err != nil {
		logger.ErrorCtx(ctx, "failed to list warranties", logger.OwnerID(mapping.ID), logger.Err(err))
		InternalServerError(w, "Failed to fetch warranties")
		return
	}

	// Always serialize as an array, never null.
	if warranties == nil {
		warranties = []*models.Warranty{}
	}
	WriteJSONOK(w, warranties)
}

// formImage extracts one image part from the multipart form.
// Returns the file, a close function, and true on success; on failure
// the error response is written and ok is false.
func formImage(w http.ResponseWriter, r *http.Request, field string) (media.File, func(), bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			BadRequest(w, field+" is required")
		} else {
			BadRequest(w, "Invalid "+field+" upload")
		}
		return media.File{}, nil, false
	}

	return media.File{
		Filename:    header.Filename,
		ContentType: partContentType(header),
		Size:        header.Size,
		Body:        file,
	}, func() { _ = file.Close() }, true
}

// partContentType reads the Content-Type of a multipart file part,
// defaulting to application/octet-stream when the client sent none.
func partContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// isUploadValidationError reports whether an upload failure was caused
// by client input rather than storage trouble.
func isUploadValidationError(err error) bool {
	return errors.Is(err, media.ErrEmptyFile) ||
		errors.Is(err, media.ErrNotAnImage) ||
		errors.Is(err, media.ErrFileTooLarge)
}
