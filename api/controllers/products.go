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

type productCatalog interface {
	ListProducts(ctx context.Context, params catalog.ListParams) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id int) (*catalog.Product, error)
	Prefetch(ctx context.Context, params catalog.ListParams)
}

func listParamsFromRequest(r *http.Request) (catalog.ListParams, error) {
	page, err := validators.ParseQueryInt(r, "page", 0, 1, 100000)
	if err != nil {
		return catalog.ListParams{}, err
	}
	perPage, err := validators.ParseQueryInt(r, "per_page", 0, 1, 100)
	if err != nil {
		return catalog.ListParams{}, err
	}
	return catalog.ListParams{
		Search:  strings.TrimSpace(r.URL.Query().Get("search")),
		Page:    page,
		PerPage: perPage,
		OrderBy: strings.TrimSpace(r.URL.Query().Get("orderby")),
		Order:   strings.TrimSpace(r.URL.Query().Get("order")),
	}, nil
}

// ProductList serves the filtered product listing through the cache.
func ProductList(cat productCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		params, err := listParamsFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := cat.ListProducts(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// ProductFetch serves a single product detail through the cache.
func ProductFetch(cat productCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		id, err := validators.ParsePathInt(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := cat.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

type prefetchRequest struct {
	Search  string `json:"search,omitempty"`
	Page    int    `json:"page,omitempty" validate:"omitempty,min=1"`
	PerPage int    `json:"per_page,omitempty" validate:"omitempty,min=1,max=100"`
	OrderBy string `json:"orderby,omitempty"`
	Order   string `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
}

// ProductPrefetch warms the product cache without blocking the caller.
func ProductPrefetch(cat productCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		var payload prefetchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cat.Prefetch(r.Context(), catalog.ListParams{
			Search:  payload.Search,
			Page:    payload.Page,
			PerPage: payload.PerPage,
			OrderBy: payload.OrderBy,
			Order:   payload.Order,
		})

		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]any{"scheduled": true})
	}
}
