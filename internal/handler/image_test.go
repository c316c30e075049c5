package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/msomdec/storefront/internal/domain"
	"github.com/msomdec/storefront/internal/handler"
)

type recordedImages struct {
	data        []byte
	contentType string
}

func (s *recordedImages) Save(context.Context, string, string, []byte) error { return nil }

func (s *recordedImages) Get(_ context.Context, key string) ([]byte, string, error) {
	if key != "logo.svg" {
		return nil, "", domain.ErrNotFound
	}
	return s.data, s.contentType, nil
}

func TestImageHandler_ServesRecordedContentType(t *testing.T) {
	// Sniffing these bytes would give text/xml.
	store := &recordedImages{data: []byte(`<?xml version="1.0"?><svg/>`), contentType: "image/svg+xml"}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /images/{name}", handler.NewImageHandler(store).HandleServe)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/logo.svg", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("expected image/svg+xml, got %s", ct)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/other.png", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
