package checkout

import (
	"testing"

	pkgerrors "github.com/ayebare/dukapos/pkg/errors"
)

func intPtr(v int) *int { return &v }

func TestValidateStockPasses(t *testing.T) {
	t.Parallel()

	items := []StockValidationInput{
		{ProductID: 1, ProductName: "Beans", RequestedQty: 2, AvailableQty: intPtr(5)},
		{ProductID: 2, ProductName: "Rice", RequestedQty: 10, AvailableQty: nil},
	}
	if err := ValidateStock(items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStockMissingProductFailsWholeSet(t *testing.T) {
	t.Parallel()

	items := []StockValidationInput{
		{ProductID: 1, ProductName: "Beans", RequestedQty: 1, AvailableQty: intPtr(5)},
		{ProductID: 7, ProductName: "Sugar", Missing: true},
	}
	err := ValidateStock(items)
	if err == nil {
		t.Fatal("expected error for missing product")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error code: %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["product_id"] != 7 {
		t.Fatalf("expected missing product named in details, got %v", typed.Details())
	}
}

func TestValidateStockCollectsViolations(t *testing.T) {
	t.Parallel()

	items := []StockValidationInput{
		{ProductID: 1, ProductName: "Beans", RequestedQty: 6, AvailableQty: intPtr(5)},
		{ProductID: 2, ProductName: "Rice", RequestedQty: 3, AvailableQty: intPtr(1)},
		{ProductID: 3, ProductName: "Salt", RequestedQty: 1, AvailableQty: intPtr(1)},
	}
	err := ValidateStock(items)
	if err == nil {
		t.Fatal("expected stock violation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error code: %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	violations, ok := details["violations"].([]StockViolationDetail)
	if !ok || len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %v", details["violations"])
	}
	if violations[0].ProductID != 1 || violations[0].AvailableQty != 5 {
		t.Fatalf("unexpected first violation %+v", violations[0])
	}
}
