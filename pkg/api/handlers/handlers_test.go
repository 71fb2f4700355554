package handlers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/coverkeep/coverkeep/pkg/api/auth"
	"github.com/coverkeep/coverkeep/pkg/api/middleware"
	"github.com/coverkeep/coverkeep/pkg/identity"
	"github.com/coverkeep/coverkeep/pkg/media"
	"github.com/coverkeep/coverkeep/pkg/models"
	"github.com/coverkeep/coverkeep/pkg/store"
)

// newTestStore creates an in-memory SQLite store for handler tests.
func newTestStore(t *testing.T) *store.GORMStore {
	t.Helper()
	s, err := store.New(&store.Config{
		Type: store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{
			Path: ":memory:",
		},
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// newTestJWTService creates a JWT service with test defaults.
func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(auth.JWTConfig{
		Secret: "test-secret-key-that-is-long-enough-for-hs256",
	})
	if err != nil {
		t.Fatalf("failed to create JWT service: %v", err)
	}
	return svc
}

// newTestMapper creates an identity mapper over the given store with
// logging discarded.
func newTestMapper(s *store.GORMStore) *identity.Mapper {
	return identity.NewMapper(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// createTestUser inserts a user with known credentials and returns it.
func createTestUser(t *testing.T, s *store.GORMStore, email, password string) *models.User {
	t.Helper()
	hash, err := models.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
	}
	if _, err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// accessTokenFor issues a valid access token for the given user.
func accessTokenFor(t *testing.T, svc *auth.JWTService, user *models.User) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("failed to generate token pair: %v", err)
	}
	return pair.AccessToken
}

// stubUploader is an in-memory media.Uploader that records uploads.
type stubUploader struct {
	mu      sync.Mutex
	uploads []string
	err     error
}

func (u *stubUploader) Upload(ctx context.Context, folder string, file media.File) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return "", u.err
	}
	u.uploads = append(u.uploads, folder+"/"+file.Filename)
	return "https://cdn.example.com/" + folder + "/" + file.Filename, nil
}

func (u *stubUploader) UploadPair(ctx context.Context, receipt, product media.File) (string, string, error) {
	receiptURL, err := u.Upload(ctx, media.FolderReceipts, receipt)
	if err != nil {
		return "", "", err
	}
	productURL, err := u.Upload(ctx, media.FolderProducts, product)
	if err != nil {
		return "", "", err
	}
	return receiptURL, productURL, nil
}

func (u *stubUploader) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.uploads)
}

// warrantyForm builds a multipart warranty creation body. Pass an empty
// string to omit a text field; set the image flags to control which
// file parts are attached.
type warrantyForm struct {
	productName    string
	companyName    string
	purchaseDate   string
	expiryDate     string
	additionalInfo string
	receiptImage   bool
	productImage   bool
}

func validWarrantyForm() warrantyForm {
	return warrantyForm{
		productName:  "Drill",
		companyName:  "Acme",
		purchaseDate: "2024-01-01",
		expiryDate:   "2026-01-01",
		receiptImage: true,
		productImage: true,
	}
}

func (f warrantyForm) encode(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	fields := map[string]string{
		"productName":    f.productName,
		"companyName":    f.companyName,
		"purchaseDate":   f.purchaseDate,
		"expiryDate":     f.expiryDate,
		"additionalInfo": f.additionalInfo,
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("failed to write field %s: %v", name, err)
		}
	}

	if f.receiptImage {
		writeImagePart(t, mw, "receiptImage", "receipt.jpg")
	}
	if f.productImage {
		writeImagePart(t, mw, "productImage", "product.jpg")
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return body, mw.FormDataContentType()
}

func writeImagePart(t *testing.T, mw *multipart.Writer, field, filename string) {
	t.Helper()
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create image part: %v", err)
	}
	if _, err := part.Write([]byte("fake-jpeg-bytes")); err != nil {
		t.Fatalf("failed to write image part: %v", err)
	}
}

// doAuthed runs a request through the JWT middleware into the handler,
// so the claims reach the handler the same way they do in production.
func doAuthed(svc *auth.JWTService, handler http.HandlerFunc, req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	middleware.JWTAuth(svc)(handler).ServeHTTP(w, req)
	return w
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
