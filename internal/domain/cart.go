package domain

// CartStorageKey is the key the cart snapshot is persisted under.
const CartStorageKey = "cart-storage"

// CartLine is a (product, quantity) pairing. Quantity is always >= 1 for a
// line that exists in a cart.
type CartLine struct {
	ProductSnapshot
	Quantity int `json:"quantity"`
}

// Subtotal returns price * quantity for the line.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// AtStockLimit reports whether the line already holds every unit the snapshot
// said was in stock. The store does not enforce this; callers use it to
// disable increment controls.
func (l CartLine) AtStockLimit() bool {
	return l.Quantity >= l.Stock
}

// CartState is the persisted shape of a cart.
type CartState struct {
	Items []CartLine `json:"items"`
}
