package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"storefront-bff/internal/domain"
	"storefront-bff/pkg/logger"

	"github.com/shopspring/decimal"
)

// Cart holds the shopper's line items. Every mutation writes the full line
// list through the repository before it returns; a failed write is logged and
// the in-memory state stays authoritative.
//
// A cart whose snapshot could not be read is degraded: it works from memory
// and never writes, so the snapshot it failed to read is not overwritten.
type Cart struct {
	mu       sync.Mutex
	lines    []domain.CartLine
	repo     Repository[domain.CartState]
	degraded bool
}

// NewCart hydrates a cart from repo. Absent, unreadable or corrupt data
// produces an empty cart.
func NewCart(ctx context.Context, repo Repository[domain.CartState]) *Cart {
	c := &Cart{repo: repo}
	lctx, cancel := detach(ctx)
	defer cancel()
	state, err := repo.Load(lctx)
	if err != nil {
		event := logger.WithContext(ctx).Warn().Err(err).Str("key", domain.CartStorageKey)
		if errors.Is(err, domain.ErrCorruptSnapshot) {
			event.Msg("Discarding corrupt cart snapshot")
		} else {
			c.degraded = true
			event.Msg("Cart storage unavailable, running from memory")
		}
		return c
	}
	c.lines = sanitizeLines(state.Items)
	return c
}

// Degraded reports whether hydration failed and writes are suppressed.
func (c *Cart) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degraded
}

// sanitizeLines drops lines a well-behaved store could never have written:
// non-positive quantities, empty ids and duplicates after the first.
func sanitizeLines(in []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, l := range in {
		if l.ID == "" || l.Quantity <= 0 {
			continue
		}
		if _, dup := seen[l.ID]; dup {
			continue
		}
		seen[l.ID] = struct{}{}
		out = append(out, l)
	}
	return out
}

// AddItem increments the line for product by qty, creating it with a fresh
// snapshot when absent. qty must be positive.
func (c *Cart) AddItem(ctx context.Context, product domain.ProductSnapshot, qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(product.ID); i >= 0 {
		c.lines[i].Quantity += qty
	} else {
		c.lines = append(c.lines, domain.CartLine{ProductSnapshot: product, Quantity: qty})
	}
	c.persist(ctx)
	return nil
}

// RemoveItem deletes the line for productID. Removing an absent line is a no-op.
func (c *Cart) RemoveItem(ctx context.Context, productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(ctx, productID)
}

func (c *Cart) removeLocked(ctx context.Context, productID string) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	c.persist(ctx)
}

// UpdateQuantity sets the absolute quantity of an existing line. qty <= 0
// removes the line. Unknown products are ignored.
func (c *Cart) UpdateQuantity(ctx context.Context, productID string, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if qty <= 0 {
		c.removeLocked(ctx, productID)
		return
	}
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.lines[i].Quantity = qty
	c.persist(ctx)
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.persist(ctx)
}

// RemoveOrdered subtracts the quantities of ordered from the cart, dropping
// lines that reach zero. Lines added or increased after ordered was captured
// keep the difference.
func (c *Cart) RemoveOrdered(ctx context.Context, ordered []domain.CartLine) {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := false
	for _, o := range ordered {
		i := c.indexOf(o.ID)
		if i < 0 {
			continue
		}
		c.lines[i].Quantity -= o.Quantity
		changed = true
	}
	if !changed {
		return
	}
	c.lines = slices.DeleteFunc(c.lines, func(l domain.CartLine) bool {
		return l.Quantity <= 0
	})
	c.persist(ctx)
}

// Quantity returns the quantity held for productID, or 0.
func (c *Cart) Quantity(productID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(productID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice sums price * quantity over all lines.
func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return linesTotal(c.lines).InexactFloat64()
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.lines)
}

// State returns the persisted form of the cart.
func (c *Cart) State() domain.CartState {
	return domain.CartState{Items: c.Lines()}
}

func (c *Cart) indexOf(productID string) int {
	return slices.IndexFunc(c.lines, func(l domain.CartLine) bool {
		return l.ID == productID
	})
}

func (c *Cart) persist(ctx context.Context) {
	if c.degraded {
		logger.WithContext(ctx).Debug().Str("key", domain.CartStorageKey).Msg("Cart degraded, skipping save")
		return
	}
	state := domain.CartState{Items: slices.Clone(c.lines)}
	if state.Items == nil {
		state.Items = []domain.CartLine{}
	}
	sctx, cancel := detach(ctx)
	defer cancel()
	if err := c.repo.Save(sctx, state); err != nil {
		logger.WithContext(ctx).Error().Err(err).
			Str("key", domain.CartStorageKey).
			Int("lines", len(state.Items)).
			Msg("Cart persistence failed, keeping in-memory state")
	}
}

func linesTotal(lines []domain.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// LinesTotal sums the subtotals of lines with decimal arithmetic.
func LinesTotal(lines []domain.CartLine) float64 {
	return linesTotal(lines).InexactFloat64()
}
