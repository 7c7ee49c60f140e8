package domain

import "time"

// CustomerInfo is collected on the checkout form.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	City    string `json:"city"`
	Address string `json:"address"`
	Comment string `json:"comment,omitempty"`
}

// OrderItem is a cart line as submitted to the backend, priced from the
// snapshot taken at add time.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// OrderRequest is the POST /orders payload.
type OrderRequest struct {
	IdempotencyKey string       `json:"idempotencyKey"`
	Customer       CustomerInfo `json:"customer"`
	Items          []OrderItem  `json:"items"`
	TotalItems     int          `json:"totalItems"`
	Total          float64      `json:"total"`
}

// OrderConfirmation is what the backend returns for an accepted order.
type OrderConfirmation struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}
