package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	cartsvc "github.com/ayebare/dukapos/internal/cart"
	"github.com/ayebare/dukapos/internal/catalog"
	pkgerrors "github.com/ayebare/dukapos/pkg/errors"
)

type stubCart struct {
	snapshot   cartsvc.Snapshot
	addFn      func(*catalog.Product) (*cartsvc.LineItem, error)
	updateFn   func(string, int) (*cartsvc.UpdateResult, error)
	removed    []string
	cleared    bool
	checkoutFn func(cartsvc.CheckoutInput) (*catalog.Order, error)
}

func (s *stubCart) Snapshot() cartsvc.Snapshot { return s.snapshot }

func (s *stubCart) AddToCart(_ context.Context, product *catalog.Product) (*cartsvc.LineItem, error) {
	return s.addFn(product)
}

func (s *stubCart) UpdateQuantity(_ context.Context, itemID string, quantity int) (*cartsvc.UpdateResult, error) {
	return s.updateFn(itemID, quantity)
}

func (s *stubCart) RemoveFromCart(_ context.Context, itemID string) error {
	s.removed = append(s.removed, itemID)
	return nil
}

func (s *stubCart) ClearCart(_ context.Context) error {
	s.cleared = true
	s.snapshot = cartsvc.Snapshot{State: cartsvc.StateEmpty, Subtotal: decimal.Zero, Total: decimal.Zero}
	return nil
}

func (s *stubCart) Checkout(_ context.Context, input cartsvc.CheckoutInput) (*catalog.Order, error) {
	return s.checkoutFn(input)
}

type stubGetter struct {
	product *catalog.Product
	err     error
}

func (s *stubGetter) GetProduct(context.Context, int) (*catalog.Product, error) {
	return s.product, s.err
}

func TestCartFetchRendersEstimatedTax(t *testing.T) {
	t.Parallel()

	store := &stubCart{snapshot: cartsvc.Snapshot{
		Items: []cartsvc.LineItem{
			{ID: "a", ProductID: 1, Name: "Soda", Price: decimal.NewFromInt(5000), Quantity: 2},
		},
		Subtotal: decimal.NewFromInt(10000),
		Total:    decimal.NewFromInt(10000),
		State:    cartsvc.StatePopulated,
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	CartFetch(store, decimal.RequireFromString("0.15"), testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var envelope struct {
		Data cartDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Data.Subtotal != "10000.00" || envelope.Data.EstimatedTax != "1500.00" {
		t.Fatalf("unexpected totals: %+v", envelope.Data)
	}
	if envelope.Data.State != string(cartsvc.StatePopulated) {
		t.Fatalf("unexpected state %s", envelope.Data.State)
	}
	if envelope.Data.Items[0].LineTotal != "10000" {
		t.Fatalf("unexpected line total %s", envelope.Data.Items[0].LineTotal)
	}
}

func TestCartAddItemCreatesLine(t *testing.T) {
	t.Parallel()

	store := &stubCart{addFn: func(product *catalog.Product) (*cartsvc.LineItem, error) {
		return &cartsvc.LineItem{ID: "line-1", ProductID: product.ID, Name: product.Name, Price: decimal.NewFromInt(1500), Quantity: 1}, nil
	}}
	getter := &stubGetter{product: &catalog.Product{ID: 7, Name: "Soda", Price: "1500"}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":7}`))
	rec := httptest.NewRecorder()
	CartAddItem(store, getter, testLogger())(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data cartItemDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Data.ID != "line-1" || envelope.Data.ProductID != 7 {
		t.Fatalf("unexpected item: %+v", envelope.Data)
	}
}

func TestCartAddItemStockConflictSurfacesDetails(t *testing.T) {
	t.Parallel()

	store := &stubCart{addFn: func(*catalog.Product) (*cartsvc.LineItem, error) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, `only 2 of "Soda" available`).WithDetails(map[string]any{
			"product_id":    7,
			"available_qty": 2,
			"requested_qty": 3,
		})
	}}
	getter := &stubGetter{product: &catalog.Product{ID: 7, Name: "Soda", Price: "1500"}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":7}`))
	rec := httptest.NewRecorder()
	CartAddItem(store, getter, testLogger())(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	envelope := decodeError(t, rec.Body)
	if envelope.Error.Code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
	details, ok := envelope.Error.Details.(map[string]any)
	if !ok || details["available_qty"] != float64(2) {
		t.Fatalf("unexpected details: %v", envelope.Error.Details)
	}
}

func TestCartAddItemRejectsBadBody(t *testing.T) {
	t.Parallel()

	store := &stubCart{addFn: func(*catalog.Product) (*cartsvc.LineItem, error) {
		t.Error("store should not be called")
		return nil, nil
	}}
	getter := &stubGetter{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":0}`))
	rec := httptest.NewRecorder()
	CartAddItem(store, getter, testLogger())(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCartUpdateItemReportsClamp(t *testing.T) {
	t.Parallel()

	store := &stubCart{updateFn: func(itemID string, quantity int) (*cartsvc.UpdateResult, error) {
		if itemID != "line-1" || quantity != 10 {
			t.Errorf("unexpected update %s %d", itemID, quantity)
		}
		return &cartsvc.UpdateResult{
			Item:    &cartsvc.LineItem{ID: "line-1", ProductID: 7, Quantity: 4, Price: decimal.NewFromInt(1500)},
			Clamped: true,
			Limit:   4,
		}, nil
	}}

	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/line-1", strings.NewReader(`{"quantity":10}`)), "itemId", "line-1")
	rec := httptest.NewRecorder()
	CartUpdateItem(store, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data updateItemResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if !envelope.Data.Clamped || envelope.Data.Limit != 4 || envelope.Data.Item.Quantity != 4 {
		t.Fatalf("unexpected response: %+v", envelope.Data)
	}
}

func TestCartRemoveItem(t *testing.T) {
	t.Parallel()

	store := &stubCart{}

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/line-1", nil), "itemId", "line-1")
	rec := httptest.NewRecorder()
	CartRemoveItem(store, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if len(store.removed) != 1 || store.removed[0] != "line-1" {
		t.Fatalf("unexpected removals: %v", store.removed)
	}
}

func TestCheckoutSubmitDefaultsToCash(t *testing.T) {
	t.Parallel()

	var captured cartsvc.CheckoutInput
	store := &stubCart{checkoutFn: func(input cartsvc.CheckoutInput) (*catalog.Order, error) {
		captured = input
		return &catalog.Order{ID: 900, Status: "processing"}, nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"customer_id":5}`))
	rec := httptest.NewRecorder()
	CheckoutSubmit(store, testLogger())(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.PaymentMethod != "cash" || captured.CustomerID != 5 {
		t.Fatalf("unexpected input: %+v", captured)
	}
}

func TestCheckoutSubmitEmptyCart(t *testing.T) {
	t.Parallel()

	store := &stubCart{checkoutFn: func(cartsvc.CheckoutInput) (*catalog.Order, error) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	CheckoutSubmit(store, testLogger())(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	envelope := decodeError(t, rec.Body)
	if envelope.Error.Message != "cart is empty" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}
