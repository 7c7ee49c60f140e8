package domain

// ProductSnapshot is the denormalized copy of a product taken when it is added
// to the cart or favorited. It is never refreshed from the catalog.
type ProductSnapshot struct {
	ID       string  `json:"productId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}

// Product is a catalog entry as served by the commerce backend.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	OldPrice    *float64 `json:"oldPrice,omitempty"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand,omitempty"`
}

// Snapshot captures the fields the cart and favorites need to render the
// product without the catalog.
func (p Product) Snapshot() ProductSnapshot {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	return ProductSnapshot{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Stock:    p.Stock,
		Image:    image,
		Category: p.Category,
	}
}

// InStock reports whether the backend has any units left.
func (p Product) InStock() bool {
	return p.Stock > 0
}
