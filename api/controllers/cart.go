package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ayebare/dukapos/api/responses"
	"github.com/ayebare/dukapos/api/validators"
	cartsvc "github.com/ayebare/dukapos/internal/cart"
	"github.com/ayebare/dukapos/internal/catalog"
	pkgerrors "github.com/ayebare/dukapos/pkg/errors"
	"github.com/ayebare/dukapos/pkg/logger"
)

type cartStore interface {
	Snapshot() cartsvc.Snapshot
	AddToCart(ctx context.Context, product *catalog.Product) (*cartsvc.LineItem, error)
	UpdateQuantity(ctx context.Context, itemID string, quantity int) (*cartsvc.UpdateResult, error)
	RemoveFromCart(ctx context.Context, itemID string) error
	ClearCart(ctx context.Context) error
	Checkout(ctx context.Context, input cartsvc.CheckoutInput) (*catalog.Order, error)
}

type productGetter interface {
	GetProduct(ctx context.Context, id int) (*catalog.Product, error)
}

type cartItemDTO struct {
	ID           string `json:"id"`
	ProductID    int    `json:"product_id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	Image        string `json:"image,omitempty"`
	Quantity     int    `json:"quantity"`
	StockCeiling *int   `json:"stock_ceiling,omitempty"`
	LineTotal    string `json:"line_total"`
}

type cartDTO struct {
	Items        []cartItemDTO `json:"items"`
	Subtotal     string        `json:"subtotal"`
	EstimatedTax string        `json:"estimated_tax"`
	Total        string        `json:"total"`
	State        string        `json:"state"`
	CheckingOut  bool          `json:"checking_out"`
}

func newCartItemDTO(item cartsvc.LineItem) cartItemDTO {
	return cartItemDTO{
		ID:           item.ID,
		ProductID:    item.ProductID,
		Name:         item.Name,
		Price:        item.Price.String(),
		Image:        item.Image,
		Quantity:     item.Quantity,
		StockCeiling: item.StockCeiling,
		LineTotal:    item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).String(),
	}
}

// newCartDTO renders the snapshot for the dashboard. The tax figure is an
// estimate for display only; the order totals come from the remote.
func newCartDTO(snap cartsvc.Snapshot, taxRate decimal.Decimal) cartDTO {
	items := make([]cartItemDTO, 0, len(snap.Items))
	for _, item := range snap.Items {
		items = append(items, newCartItemDTO(item))
	}
	return cartDTO{
		Items:        items,
		Subtotal:     snap.Subtotal.StringFixed(2),
		EstimatedTax: snap.Subtotal.Mul(taxRate).Round(2).StringFixed(2),
		Total:        snap.Total.StringFixed(2),
		State:        string(snap.State),
		CheckingOut:  snap.CheckingOut,
	}
}

// CartFetch exposes the current cart snapshot.
func CartFetch(store cartStore, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}
		responses.WriteSuccess(w, newCartDTO(store.Snapshot(), taxRate))
	}
}

type addItemRequest struct {
	ProductID int `json:"product_id" validate:"required,min=1"`
}

// CartAddItem resolves the product and merges it into the cart.
func CartAddItem(store cartStore, products productGetter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil || products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.GetProduct(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := store.AddToCart(r.Context(), product)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCartItemDTO(*item))
	}
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type updateItemResponse struct {
	Item    *cartItemDTO `json:"item,omitempty"`
	Removed bool         `json:"removed"`
	Clamped bool         `json:"clamped"`
	Limit   int          `json:"limit,omitempty"`
}

// CartUpdateItem sets a line item's quantity, clamping to available stock.
func CartUpdateItem(store cartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))
		if itemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := store.UpdateQuantity(r.Context(), itemID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := updateItemResponse{
			Removed: result.Removed,
			Clamped: result.Clamped,
			Limit:   result.Limit,
		}
		if result.Item != nil {
			dto := newCartItemDTO(*result.Item)
			resp.Item = &dto
		}
		responses.WriteSuccess(w, resp)
	}
}

// CartRemoveItem deletes a line item; unknown IDs are a no-op.
func CartRemoveItem(store cartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))
		if itemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		if err := store.RemoveFromCart(r.Context(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"removed": true})
	}
}

// CartClear empties the cart.
func CartClear(store cartStore, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		if err := store.ClearCart(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartDTO(store.Snapshot(), taxRate))
	}
}

type checkoutRequest struct {
	CustomerID         int    `json:"customer_id,omitempty" validate:"omitempty,min=1"`
	PaymentMethod      string `json:"payment_method,omitempty"`
	PaymentMethodTitle string `json:"payment_method_title,omitempty"`
	SetPaid            bool   `json:"set_paid,omitempty"`
	CustomerNote       string `json:"customer_note,omitempty"`
}

// CheckoutSubmit revalidates the cart and submits the order.
func CheckoutSubmit(store cartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.PaymentMethod == "" {
			payload.PaymentMethod = "cash"
			payload.PaymentMethodTitle = "Cash on delivery"
		}

		order, err := store.Checkout(r.Context(), cartsvc.CheckoutInput{
			CustomerID:         payload.CustomerID,
			PaymentMethod:      payload.PaymentMethod,
			PaymentMethodTitle: payload.PaymentMethodTitle,
			SetPaid:            payload.SetPaid,
			CustomerNote:       payload.CustomerNote,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
