// Package media stores warranty images in S3-compatible object storage
// and hands back the public URLs that get persisted on warranty records.
package media

import (
	"context"
	"errors"
	"io"
)

// Logical upload folders. The folder becomes the first path segment of
// the object key after the configured prefix, so receipts and product
// photos stay separated in the bucket.
const (
	FolderReceipts = "warranty-receipts"
	FolderProducts = "warranty-products"
)

var (
	// ErrEmptyFile indicates an upload with no content.
	ErrEmptyFile = errors.New("file is empty")

	// ErrNotAnImage indicates an upload whose content type is not image/*.
	ErrNotAnImage = errors.New("file is not an image")

	// ErrFileTooLarge indicates an upload exceeding the configured size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
)

// File describes a single upload.
type File struct {
	// Filename is the client-provided file name. Only its extension is
	// used; the stored object key is always freshly generated.
	Filename string

	// ContentType is the MIME type reported by the client.
	ContentType string

	// Size is the content length in bytes.
	Size int64

	// Body is the file content.
	Body io.Reader
}

// Uploader stores warranty images and returns their public URLs.
type Uploader interface {
	// Upload stores a single file under the given folder.
	Upload(ctx context.Context, folder string, file File) (string, error)

	// UploadPair stores a receipt image and a product image concurrently.
	// If either upload fails the whole operation fails.
	UploadPair(ctx context.Context, receipt, product File) (receiptURL, productURL string, err error)
}
