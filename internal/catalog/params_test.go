package catalog

import "testing"

func TestListParamsCacheKeyCanonicalOrder(t *testing.T) {
	t.Parallel()

	params := ListParams{
		Search:  "soda",
		Page:    2,
		PerPage: 20,
		OrderBy: "title",
		Order:   "asc",
	}
	want := "order=asc&orderby=title&page=2&per_page=20&search=soda"
	if got := params.CacheKey(); got != want {
		t.Fatalf("unexpected cache key: %s", got)
	}
}

func TestListParamsCacheKeySkipsUnsetFields(t *testing.T) {
	t.Parallel()

	if got := (ListParams{}).CacheKey(); got != "" {
		t.Fatalf("zero params should produce empty key, got %q", got)
	}
	if got := (ListParams{Search: "milk"}).CacheKey(); got != "search=milk" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestListParamsNormalizeClampsPagination(t *testing.T) {
	t.Parallel()

	normalized := ListParams{Page: -3, PerPage: 9999}.Normalize()
	if normalized.Page != 1 {
		t.Fatalf("expected page clamped to 1, got %d", normalized.Page)
	}
	if normalized.PerPage != maxPerPage {
		t.Fatalf("expected per page clamped to %d, got %d", maxPerPage, normalized.PerPage)
	}

	defaulted := ListParams{Page: 1}.Normalize()
	if defaulted.PerPage != defaultPerPage {
		t.Fatalf("expected default per page, got %d", defaulted.PerPage)
	}
}

func TestOrderParamsValues(t *testing.T) {
	t.Parallel()

	q := OrderParams{Status: "processing", Customer: 12, Page: 1}.Values()
	if q.Get("status") != "processing" || q.Get("customer") != "12" || q.Get("page") != "1" {
		t.Fatalf("unexpected query: %v", q)
	}
	if q.Has("per_page") {
		t.Fatal("unset per_page should not be rendered")
	}
}
