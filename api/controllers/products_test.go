package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ayebare/dukapos/internal/catalog"
	pkgerrors "github.com/ayebare/dukapos/pkg/errors"
	"github.com/ayebare/dukapos/pkg/logger"
	"github.com/ayebare/dukapos/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

type stubCatalog struct {
	listFn     func(catalog.ListParams) ([]catalog.Product, error)
	getFn      func(int) (*catalog.Product, error)
	prefetched []catalog.ListParams
}

func (s *stubCatalog) ListProducts(_ context.Context, params catalog.ListParams) ([]catalog.Product, error) {
	return s.listFn(params)
}

func (s *stubCatalog) GetProduct(_ context.Context, id int) (*catalog.Product, error) {
	return s.getFn(id)
}

func (s *stubCatalog) Prefetch(_ context.Context, params catalog.ListParams) {
	s.prefetched = append(s.prefetched, params)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, body io.Reader) types.ErrorEnvelope {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope
}

func TestProductListPassesFilters(t *testing.T) {
	t.Parallel()

	var captured catalog.ListParams
	cat := &stubCatalog{listFn: func(params catalog.ListParams) ([]catalog.Product, error) {
		captured = params
		return []catalog.Product{{ID: 1, Name: "Soda"}}, nil
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?search=soda&page=2&per_page=10&orderby=title&order=asc", nil)
	rec := httptest.NewRecorder()
	ProductList(cat, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Search != "soda" || captured.Page != 2 || captured.PerPage != 10 || captured.OrderBy != "title" || captured.Order != "asc" {
		t.Fatalf("unexpected params: %+v", captured)
	}

	var envelope struct {
		Data []catalog.Product `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Name != "Soda" {
		t.Fatalf("unexpected body: %+v", envelope.Data)
	}
}

func TestProductListRejectsBadPagination(t *testing.T) {
	t.Parallel()

	cat := &stubCatalog{listFn: func(catalog.ListParams) ([]catalog.Product, error) {
		t.Error("catalog should not be called")
		return nil, nil
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?per_page=junk", nil)
	rec := httptest.NewRecorder()
	ProductList(cat, testLogger())(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	envelope := decodeError(t, rec.Body)
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected error code %s", envelope.Error.Code)
	}
}

func TestProductFetchNotFound(t *testing.T) {
	t.Parallel()

	cat := &stubCatalog{getFn: func(int) (*catalog.Product, error) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/42", nil), "productId", "42")
	rec := httptest.NewRecorder()
	ProductFetch(cat, testLogger())(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestProductFetchRejectsBadID(t *testing.T) {
	t.Parallel()

	cat := &stubCatalog{getFn: func(int) (*catalog.Product, error) {
		t.Error("catalog should not be called")
		return nil, nil
	}}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/abc", nil), "productId", "abc")
	rec := httptest.NewRecorder()
	ProductFetch(cat, testLogger())(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProductPrefetchSchedulesWarmup(t *testing.T) {
	t.Parallel()

	cat := &stubCatalog{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/prefetch", strings.NewReader(`{"search":"beans","per_page":20}`))
	rec := httptest.NewRecorder()
	ProductPrefetch(cat, testLogger())(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(cat.prefetched) != 1 || cat.prefetched[0].Search != "beans" {
		t.Fatalf("unexpected prefetch params: %+v", cat.prefetched)
	}
}
