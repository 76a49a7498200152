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

type customerReader interface {
	ListCustomers(ctx context.Context, params catalog.CustomerParams) ([]catalog.Customer, error)
	GetCustomer(ctx context.Context, id int) (*catalog.Customer, error)
}

// CustomerList proxies the remote customer listing for order attribution.
func CustomerList(customers customerReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customers == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers unavailable"))
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

		list, err := customers.ListCustomers(r.Context(), catalog.CustomerParams{
			Search:  strings.TrimSpace(r.URL.Query().Get("search")),
			Page:    page,
			PerPage: perPage,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// CustomerFetch serves a single remote customer.
func CustomerFetch(customers customerReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customers == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers unavailable"))
			return
		}

		id, err := validators.ParsePathInt(chi.URLParam(r, "customerId"), "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := customers.GetCustomer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}
