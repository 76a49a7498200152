package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ayebare/dukapos/internal/catalog"
	"github.com/ayebare/dukapos/pkg/checkout"
	pkgerrors "github.com/ayebare/dukapos/pkg/errors"
	"github.com/ayebare/dukapos/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State is the lifecycle phase of the cart.
type State string

const (
	StateEmpty       State = "empty"
	StatePopulated   State = "populated"
	StateCheckingOut State = "checking_out"
)

// Drop reasons reported after reconciliation.
const (
	DropReasonProductMissing = "product_missing"
	DropReasonOutOfStock     = "out_of_stock"
)

// LineItem is one product held in the cart. Name, price and image are
// snapshots taken when the item was added; the stock ceiling records the
// availability known at the last reconciliation, nil meaning untracked.
type LineItem struct {
	ID           string          `json:"id"`
	ProductID    int             `json:"product_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image,omitempty"`
	Quantity     int             `json:"quantity"`
	StockCeiling *int            `json:"stock_ceiling,omitempty"`
}

// Snapshot is a consistent read of the whole cart.
type Snapshot struct {
	Items       []LineItem
	Subtotal    decimal.Decimal
	Total       decimal.Decimal
	State       State
	CheckingOut bool
}

// ReconcileReport summarizes what initialization changed about the restored cart.
type ReconcileReport struct {
	Dropped []DroppedLineItem `json:"dropped"`
	Clamped []ClampedLineItem `json:"clamped"`
}

type DroppedLineItem struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
}

type ClampedLineItem struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	From      int    `json:"from"`
	To        int    `json:"to"`
}

// UpdateResult reports what a quantity update actually did: a non-positive
// quantity removes the item, and a request above the stock ceiling is clamped
// with the limit echoed back.
type UpdateResult struct {
	Item    *LineItem `json:"item,omitempty"`
	Removed bool      `json:"removed"`
	Clamped bool      `json:"clamped"`
	Limit   int       `json:"limit,omitempty"`
}

// CheckoutInput carries the order fields that are not derived from the cart.
type CheckoutInput struct {
	CustomerID         int
	PaymentMethod      string
	PaymentMethodTitle string
	SetPaid            bool
	CustomerNote       string
}

// Params wires the cart store's dependencies.
type Params struct {
	Storage    Storage
	Products   ProductLoader
	Orders     OrderSubmitter
	Logger     *logger.Logger
	StorageKey string
}

// Store holds the cart for a single terminal. Every mutation persists the new
// state; a storage failure is logged and the in-memory cart stays the source
// of truth for the session.
type Store struct {
	storage    Storage
	products   ProductLoader
	orders     OrderSubmitter
	logg       *logger.Logger
	storageKey string

	mu          sync.Mutex
	items       []LineItem
	initialized bool
	checkingOut bool
}

// NewStore builds the cart store backed by the provided stack.
func NewStore(params Params) (*Store, error) {
	if params.Storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	key := params.StorageKey
	if key == "" {
		key = "cart"
	}
	return &Store{
		storage:    params.Storage,
		products:   params.Products,
		orders:     params.Orders,
		logg:       params.Logger,
		storageKey: key,
	}, nil
}

// Initialize restores the persisted cart and reconciles it against live
// product data: snapshots are refreshed, quantities clamped to current stock,
// and items whose product no longer resolves are dropped. Mutations are
// rejected until this completes.
func (s *Store) Initialize(ctx context.Context) (*ReconcileReport, error) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart already initialized")
	}
	s.mu.Unlock()

	report := &ReconcileReport{}

	raw, found, readErr := s.storage.ReadValue(ctx, s.storageKey)
	if readErr != nil {
		s.logg.Error(ctx, "cart.restore.read_failed", readErr)
		found = false
	}

	var restored []LineItem
	if found && raw != "" {
		if err := json.Unmarshal([]byte(raw), &restored); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.restore.corrupt_payload")
			restored = nil
		}
	}

	reconciled := make([]LineItem, 0, len(restored))
	for _, item := range restored {
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil || product == nil {
			report.Dropped = append(report.Dropped, DroppedLineItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Reason:    DropReasonProductMissing,
			})
			s.logDrop(ctx, item.ProductID, DropReasonProductMissing)
			continue
		}

		item.Name = product.Name
		item.Image = product.PrimaryImage()
		if price, perr := decimal.NewFromString(product.Price); perr == nil {
			item.Price = price
		}
		item.StockCeiling = cloneCeiling(product.StockQuantity)

		if !product.InStock() {
			report.Dropped = append(report.Dropped, DroppedLineItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Reason:    DropReasonOutOfStock,
			})
			s.logDrop(ctx, item.ProductID, DropReasonOutOfStock)
			continue
		}
		if item.StockCeiling != nil && item.Quantity > *item.StockCeiling {
			report.Clamped = append(report.Clamped, ClampedLineItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				From:      item.Quantity,
				To:        *item.StockCeiling,
			})
			item.Quantity = *item.StockCeiling
		}
		reconciled = append(reconciled, item)
	}

	s.mu.Lock()
	s.items = reconciled
	s.initialized = true
	// A failed read means the durable payload was never loaded; writing the
	// empty reconciled state now would destroy it once storage recovers.
	if readErr == nil {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	return report, nil
}

// AddToCart merges the product into the cart: an existing line for the same
// product gains one unit, otherwise a new line starts at quantity one.
func (s *Store) AddToCart(ctx context.Context, product *catalog.Product) (*LineItem, error) {
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}
	price, err := decimal.NewFromString(product.Price)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product has no usable price").WithDetails(map[string]any{
			"product_id": product.ID,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return nil, err
	}

	ceiling := cloneCeiling(product.StockQuantity)

	for i := range s.items {
		if s.items[i].ProductID != product.ID {
			continue
		}
		if ceiling != nil && s.items[i].Quantity+1 > *ceiling {
			return nil, stockExceeded(product.ID, product.Name, *ceiling, s.items[i].Quantity+1)
		}
		s.items[i].StockCeiling = ceiling
		s.items[i].Quantity++
		s.persistLocked(ctx)
		item := s.items[i]
		return &item, nil
	}

	if !product.InStock() {
		return nil, stockExceeded(product.ID, product.Name, 0, 1)
	}

	item := LineItem{
		ID:           uuid.NewString(),
		ProductID:    product.ID,
		Name:         product.Name,
		Price:        price,
		Image:        product.PrimaryImage(),
		Quantity:     1,
		StockCeiling: ceiling,
	}
	s.items = append(s.items, item)
	s.persistLocked(ctx)
	return &item, nil
}

// UpdateQuantity sets an item's quantity. Zero or less removes the item;
// a value above the known stock ceiling is clamped to the ceiling and the
// limit reported instead of failing the mutation.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) (*UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return nil, err
	}

	idx := -1
	for i := range s.items {
		if s.items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found").WithDetails(map[string]any{
			"item_id": itemID,
		})
	}

	if quantity <= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		s.persistLocked(ctx)
		return &UpdateResult{Removed: true}, nil
	}

	result := &UpdateResult{}
	if ceiling := s.items[idx].StockCeiling; ceiling != nil && quantity > *ceiling {
		quantity = *ceiling
		result.Clamped = true
		result.Limit = *ceiling
	}
	s.items[idx].Quantity = quantity
	s.persistLocked(ctx)
	item := s.items[idx]
	result.Item = &item
	return result, nil
}

// RemoveFromCart deletes the item. Removing an unknown ID is a no-op.
func (s *Store) RemoveFromCart(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return err
	}

	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked(ctx)
			return nil
		}
	}
	return nil
}

// ClearCart empties the cart unconditionally.
func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return err
	}

	s.items = nil
	s.persistLocked(ctx)
	return nil
}

// Checkout revalidates every line against live stock and submits the order.
// The validation is all-or-nothing: one failing line aborts the whole
// checkout and the cart stays populated. Only a confirmed remote order
// empties the cart.
func (s *Store) Checkout(ctx context.Context, input CheckoutInput) (*catalog.Order, error) {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart not initialized")
	}
	if s.checkingOut {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already in progress")
	}
	if len(s.items) == 0 {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	s.checkingOut = true
	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	s.mu.Unlock()

	order, err := s.submit(ctx, items, input)

	s.mu.Lock()
	s.checkingOut = false
	if err == nil {
		s.items = nil
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	return order, err
}

func (s *Store) submit(ctx context.Context, items []LineItem, input CheckoutInput) (*catalog.Order, error) {
	validation := make([]checkout.StockValidationInput, 0, len(items))
	for _, item := range items {
		entry := checkout.StockValidationInput{
			ProductID:    item.ProductID,
			ProductName:  item.Name,
			RequestedQty: item.Quantity,
		}
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil || product == nil {
			entry.Missing = true
		} else {
			entry.ProductName = product.Name
			entry.AvailableQty = cloneCeiling(product.StockQuantity)
		}
		validation = append(validation, entry)
	}
	if err := checkout.ValidateStock(validation); err != nil {
		return nil, err
	}

	lines := make([]catalog.CreateOrderLineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, catalog.CreateOrderLineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := s.orders.CreateOrder(ctx, catalog.CreateOrderInput{
		PaymentMethod:      input.PaymentMethod,
		PaymentMethodTitle: input.PaymentMethodTitle,
		SetPaid:            input.SetPaid,
		CustomerID:         input.CustomerID,
		CustomerNote:       input.CustomerNote,
		LineItems:          lines,
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Snapshot returns a consistent copy of the cart with recomputed totals.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]LineItem, len(s.items))
	copy(items, s.items)

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return Snapshot{
		Items:       items,
		Subtotal:    subtotal,
		Total:       subtotal,
		State:       s.stateLocked(),
		CheckingOut: s.checkingOut,
	}
}

func (s *Store) stateLocked() State {
	switch {
	case s.checkingOut:
		return StateCheckingOut
	case len(s.items) == 0:
		return StateEmpty
	default:
		return StatePopulated
	}
}

func (s *Store) mutableLocked() error {
	if !s.initialized {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cart not initialized")
	}
	if s.checkingOut {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout in progress")
	}
	return nil
}

func (s *Store) persistLocked(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []LineItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		s.logg.Error(ctx, "cart.persist.marshal_failed", err)
		return
	}
	if err := s.storage.WriteValue(ctx, s.storageKey, string(payload)); err != nil {
		s.logg.Error(ctx, "cart.persist.write_failed", err)
	}
}

func (s *Store) logDrop(ctx context.Context, productID int, reason string) {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"product_id": productID,
		"reason":     reason,
	})
	s.logg.Warn(ctx, "cart.reconcile.item_dropped")
}

func cloneCeiling(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func stockExceeded(productID int, name string, available, requested int) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("only %d of %q available", available, name)).WithDetails(map[string]any{
		"product_id":    productID,
		"product_name":  name,
		"available_qty": available,
		"requested_qty": requested,
	})
}
