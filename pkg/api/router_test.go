package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/coverkeep/coverkeep/pkg/api/auth"
	"github.com/coverkeep/coverkeep/pkg/identity"
	"github.com/coverkeep/coverkeep/pkg/media"
	"github.com/coverkeep/coverkeep/pkg/store"
)

// memUploader satisfies media.Uploader without touching object storage.
type memUploader struct{}

func (memUploader) Upload(ctx context.Context, folder string, file media.File) (string, error) {
	return "https://cdn.example.com/" + folder + "/" + file.Filename, nil
}

func (m memUploader) UploadPair(ctx context.Context, receipt, product media.File) (string, string, error) {
	r, _ := m.Upload(ctx, media.FolderReceipts, receipt)
	p, _ := m.Upload(ctx, media.FolderProducts, product)
	return r, p, nil
}

func newTestDeps(t *testing.T) RouterDeps {
	t.Helper()
	s, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	svc, err := auth.NewJWTService(auth.JWTConfig{
		Secret: "router-test-secret-key-long-enough-for-hs256",
	})
	if err != nil {
		t.Fatalf("failed to create JWT service: %v", err)
	}

	return RouterDeps{
		Store:      s,
		JWTService: svc,
		Resolver:   identity.NewMapper(s, slog.New(slog.NewTextHandler(io.Discard, nil))),
		Uploader:   memUploader{},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(newTestDeps(t))
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_SignupSigninCreateList(t *testing.T) {
	router := newTestRouter(t)

	// Signup
	w := postJSON(t, router, "/api/v1/auth/signup", `{
		"name": "Router Test",
		"email": "router@example.com",
		"password": "long-enough-password",
		"confirmPassword": "long-enough-password"
	}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: expected %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	// Signin
	w = postJSON(t, router, "/api/v1/auth/signin", `{
		"email": "router@example.com",
		"password": "long-enough-password"
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("signin: expected %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var signin struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(w.Body).Decode(&signin); err != nil {
		t.Fatalf("failed to decode signin response: %v", err)
	}

	// Create warranty
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for name, value := range map[string]string{
		"productName":  "Drill",
		"companyName":  "Acme",
		"purchaseDate": "2024-01-01",
		"expiryDate":   "2026-01-01",
	} {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	for _, field := range []string{"receiptImage", "productImage"} {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="img.jpg"`)
		header.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		if _, err := part.Write([]byte("fake-jpeg")); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/v1/warranties", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+signin.AccessToken)
	cw := httptest.NewRecorder()
	router.ServeHTTP(cw, req)
	if cw.Code != http.StatusOK {
		t.Fatalf("create: expected %d, got %d: %s", http.StatusOK, cw.Code, cw.Body.String())
	}

	// List
	req = httptest.NewRequest("GET", "/api/v1/warranties", nil)
	req.Header.Set("Authorization", "Bearer "+signin.AccessToken)
	lw := httptest.NewRecorder()
	router.ServeHTTP(lw, req)
	if lw.Code != http.StatusOK {
		t.Fatalf("list: expected %d, got %d: %s", http.StatusOK, lw.Code, lw.Body.String())
	}
	var warranties []map[string]any
	if err := json.NewDecoder(lw.Body).Decode(&warranties); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(warranties) != 1 {
		t.Fatalf("expected 1 warranty, got %d", len(warranties))
	}
	if warranties[0]["product_name"] != "Drill" {
		t.Errorf("expected product 'Drill', got %v", warranties[0]["product_name"])
	}
}

func TestRouter_WarrantiesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	for _, method := range []string{"GET", "POST"} {
		req := httptest.NewRequest(method, "/api/v1/warranties", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected %d, got %d", method, http.StatusUnauthorized, w.Code)
		}
	}
}

// recordingHTTPMetrics captures metrics middleware calls in memory.
type recordingHTTPMetrics struct {
	starts   int
	ends     int
	requests []string
}

func (m *recordingHTTPMetrics) RecordRequest(method, route string, status int, _ time.Duration) {
	m.requests = append(m.requests, fmt.Sprintf("%s %s %d", method, route, status))
}

func (m *recordingHTTPMetrics) RecordRequestStart() { m.starts++ }

func (m *recordingHTTPMetrics) RecordRequestEnd() { m.ends++ }

func TestRouter_RequestMetrics(t *testing.T) {
	deps := newTestDeps(t)
	rec := &recordingHTTPMetrics{}
	deps.HTTPMetrics = rec
	router := NewRouter(deps)

	req := httptest.NewRequest("GET", "/health", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	if rec.starts != 1 || rec.ends != 1 {
		t.Errorf("expected in-flight gauge moved once each way, got starts=%d ends=%d", rec.starts, rec.ends)
	}
	if len(rec.requests) != 1 {
		t.Fatalf("expected 1 recorded request, got %d", len(rec.requests))
	}
	if rec.requests[0] != "GET /health/ 200" {
		t.Errorf("expected request recorded against route pattern, got %q", rec.requests[0])
	}
}

func TestRouter_HealthUnauthenticated(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected %d, got %d", http.StatusOK, w.Code)
	}
}
