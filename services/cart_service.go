package services

import (
	"context"
	"fmt"
	"sync"

	"storefront/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartStore owns the ordered line items of one session's cart. Product ids
// are unique and every quantity is at least 1.
type CartStore struct {
	mu       sync.RWMutex
	items    []models.CartItem
	notifier *Notifier
	faults   FaultInjector
	logger   *zap.Logger
}

func NewCartStore(notifier *Notifier, faults FaultInjector, logger *zap.Logger) *CartStore {
	if faults == nil {
		faults = NoFaults{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartStore{notifier: notifier, faults: faults, logger: logger}
}

// Add appends the product or accumulates onto its existing line. Quantities
// below 1 count as 1 and a line never grows past the product's stock or
// models.MaxLineQuantity.
func (s *CartStore) Add(ctx context.Context, product models.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	if err := s.faults.Inject(ctx, OpAddToCart, product.Title); err != nil {
		s.notifier.Error(err.Error())
		return err
	}

	limit := lineLimit(product.Stock)

	s.mu.Lock()
	if idx := s.indexLocked(product.ID); idx >= 0 {
		s.items[idx].Quantity = addCapped(s.items[idx].Quantity, quantity, limit)
	} else {
		s.items = append(s.items, models.CartItem{
			ProductID: product.ID,
			Title:     product.Title,
			UnitPrice: product.Price,
			Image:     product.Image,
			Category:  product.Category,
			Quantity:  min(quantity, limit),
		})
	}
	s.mu.Unlock()

	s.logger.Debug("cart item added", zap.Int("product_id", product.ID), zap.Int("quantity", quantity))

	unit := "items"
	if quantity == 1 {
		unit = "item"
	}
	s.notifier.Success(fmt.Sprintf("%s added to cart (%d %s)", product.Title, quantity, unit))
	return nil
}

// UpdateQuantity sets the quantity of an existing line, capped at
// models.MaxLineQuantity; zero or less removes it and an unknown product id is
// ignored.
func (s *CartStore) UpdateQuantity(productID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(productID)
	if idx < 0 {
		return
	}
	if quantity <= 0 {
		s.removeAtLocked(idx)
		return
	}
	s.items[idx].Quantity = min(quantity, models.MaxLineQuantity)
}

func (s *CartStore) Remove(productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexLocked(productID); idx >= 0 {
		s.removeAtLocked(idx)
	}
}

func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// RemoveOrdered takes the given lines out of the cart, subtracting their
// quantities and dropping lines that reach zero. Anything added since the
// lines were read stays.
func (s *CartStore) RemoveOrdered(ordered []models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range ordered {
		idx := s.indexLocked(line.ProductID)
		if idx < 0 {
			continue
		}
		if s.items[idx].Quantity <= line.Quantity {
			s.removeAtLocked(idx)
			continue
		}
		s.items[idx].Quantity -= line.Quantity
	}
}

func (s *CartStore) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return subtotal(s.items)
}

func (s *CartStore) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0
}

// Count is the number of units across all lines.
func (s *CartStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

func (s *CartStore) Items() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CartItem(nil), s.items...)
}

func (s *CartStore) Item(productID int) (models.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexLocked(productID); idx >= 0 {
		return s.items[idx], true
	}
	return models.CartItem{}, false
}

func (s *CartStore) Snapshot() models.Cart {
	items := s.Items()
	sub := subtotal(items)

	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	if items == nil {
		items = []models.CartItem{}
	}
	return models.Cart{
		Items:     items,
		ItemCount: count,
		Subtotal:  sub,
		Totals:    ComputeTotals(sub),
	}
}

func (s *CartStore) indexLocked(productID int) int {
	for i, item := range s.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *CartStore) removeAtLocked(idx int) {
	s.items = append(s.items[:idx], s.items[idx+1:]...)
}

func lineLimit(stock int) int {
	if stock > 0 && stock < models.MaxLineQuantity {
		return stock
	}
	return models.MaxLineQuantity
}

func addCapped(existing, quantity, limit int) int {
	if quantity > limit-existing {
		return limit
	}
	return existing + quantity
}

func subtotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
