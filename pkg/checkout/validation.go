package checkout

import (
	"fmt"

	pkgerrors "github.com/ayebare/dukapos/pkg/errors"
)

// StockValidationInput describes the data required to revalidate a line item
// against live availability before an order is submitted.
type StockValidationInput struct {
	ProductID    int
	ProductName  string
	RequestedQty int
	// AvailableQty is nil when the product does not track stock.
	AvailableQty *int
	// Missing marks a product that no longer resolves upstream.
	Missing bool
}

// StockViolationDetail exposes the data returned to callers when a validation fails.
type StockViolationDetail struct {
	ProductID    int    `json:"product_id"`
	ProductName  string `json:"product_name,omitempty"`
	AvailableQty int    `json:"available_qty"`
	RequestedQty int    `json:"requested_qty"`
}

// ValidateStock runs the all-or-nothing pre-submission pass: a single missing
// product or oversold line fails the whole set.
func ValidateStock(items []StockValidationInput) error {
	for _, item := range items {
		if item.Missing {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %q is no longer available", item.ProductName)).WithDetails(map[string]any{
				"product_id":   item.ProductID,
				"product_name": item.ProductName,
			})
		}
	}

	var violations []StockViolationDetail
	for _, item := range items {
		if item.AvailableQty == nil {
			continue
		}
		if item.RequestedQty > *item.AvailableQty {
			violations = append(violations, StockViolationDetail{
				ProductID:    item.ProductID,
				ProductName:  item.ProductName,
				AvailableQty: *item.AvailableQty,
				RequestedQty: item.RequestedQty,
			})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("insufficient stock for %d item(s)", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}
