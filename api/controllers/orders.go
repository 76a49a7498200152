package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ayebare/dukapos/api/responses"
	"github.com/ayebare/dukapos/api/validators"
	"github.com/ayebare/dukapos/internal/catalog"
	pkgerrors "github.com/ayebare/dukapos/pkg/errors"
	"github.com/ayebare/dukapos/pkg/logger"
)

type orderReader interface {
	ListOrders(ctx context.Context, params catalog.OrderParams) ([]catalog.Order, error)
	GetOrder(ctx context.Context, id int) (*catalog.Order, error)
}

// OrderList proxies the remote order listing for the dashboard.
func OrderList(orders orderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orders == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 0, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		perPage, err := validators.ParseQueryInt(r, "per_page", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := validators.ParseQueryInt(r, "customer", 0, 1, 1<<31-1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := orders.ListOrders(r.Context(), catalog.OrderParams{
			Status:   strings.TrimSpace(r.URL.Query().Get("status")),
			Customer: customer,
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
			Page:     page,
			PerPage:  perPage,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// OrderFetch serves a single remote order.
func OrderFetch(orders orderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orders == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders unavailable"))
			return
		}

		id, err := validators.ParsePathInt(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := orders.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
