package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// ListParams captures the product list filters exposed by the dashboard.
// The zero value means "no filter" for every field.
type ListParams struct {
	Search  string
	Page    int
	PerPage int
	OrderBy string
	Order   string
}

// Normalize clamps pagination so a single request can never ask the remote
// for an unbounded page.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	return p
}

// CacheKey renders the params as a canonical string: every set field becomes
// a key=value entry, entries are sorted by key name and joined with "&".
// Two params values with the same fields always produce the same key, so the
// cache never splits on call-site ordering.
func (p ListParams) CacheKey() string {
	entries := map[string]string{}
	if p.Search != "" {
		entries["search"] = p.Search
	}
	if p.Page != 0 {
		entries["page"] = strconv.Itoa(p.Page)
	}
	if p.PerPage != 0 {
		entries["per_page"] = strconv.Itoa(p.PerPage)
	}
	if p.OrderBy != "" {
		entries["orderby"] = p.OrderBy
	}
	if p.Order != "" {
		entries["order"] = p.Order
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+entries[k])
	}
	return strings.Join(parts, "&")
}

// Values renders the params as the remote API's query string.
func (p ListParams) Values() url.Values {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Page != 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage != 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.OrderBy != "" {
		q.Set("orderby", p.OrderBy)
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	return q
}

// OrderParams filters the remote order listing.
type OrderParams struct {
	Status   string
	Customer int
	Search   string
	Page     int
	PerPage  int
}

func (p OrderParams) Values() url.Values {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Customer != 0 {
		q.Set("customer", strconv.Itoa(p.Customer))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Page != 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage != 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return q
}

// CustomerParams filters the remote customer listing.
type CustomerParams struct {
	Search  string
	Page    int
	PerPage int
}

func (p CustomerParams) Values() url.Values {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Page != 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage != 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return q
}
