package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"storefront-bff/internal/domain"
	"storefront-bff/internal/store"
	"storefront-bff/pkg/logger"
	"storefront-bff/pkg/utils"
)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

// OrderGateway submits orders to the commerce backend.
type OrderGateway interface {
	CreateOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderConfirmation, error)
}

type CheckoutUsecase struct {
	orders OrderGateway
}

func NewCheckoutUsecase(orders OrderGateway) *CheckoutUsecase {
	return &CheckoutUsecase{orders: orders}
}

// Checkout submits the cart as an order. Once the backend accepts it the
// submitted lines are taken out of the cart; anything added while the order
// was in flight stays.
func (u *CheckoutUsecase) Checkout(ctx context.Context, cart *store.Cart, customer domain.CustomerInfo) (*domain.OrderConfirmation, error) {
	customer, err := ValidateCustomer(customer)
	if err != nil {
		return nil, err
	}

	lines := cart.Lines()
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	req := domain.OrderRequest{
		IdempotencyKey: utils.GenerateUUID(),
		Customer:       customer,
		Items:          make([]domain.OrderItem, 0, len(lines)),
		Total:          store.LinesTotal(lines),
	}
	for _, l := range lines {
		req.Items = append(req.Items, domain.OrderItem{
			ProductID: l.ID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
		req.TotalItems += l.Quantity
	}

	confirmation, err := u.orders.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	cart.RemoveOrdered(ctx, lines)
	logger.WithContext(ctx).Info().
		Str("order_id", confirmation.ID).
		Str("idempotency_key", req.IdempotencyKey).
		Int("items", req.TotalItems).
		Float64("total", req.Total).
		Msg("Order placed")
	return confirmation, nil
}

// ValidateCustomer trims every field, normalizes the phone and checks the
// required fields.
func ValidateCustomer(c domain.CustomerInfo) (domain.CustomerInfo, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.City = strings.TrimSpace(c.City)
	c.Address = strings.TrimSpace(c.Address)
	c.Comment = strings.TrimSpace(c.Comment)

	if c.Name == "" {
		return c, fmt.Errorf("%w: name is required", domain.ErrInvalidCustomer)
	}
	phone, err := NormalizePhone(c.Phone)
	if err != nil {
		return c, err
	}
	c.Phone = phone
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return c, fmt.Errorf("%w: invalid email", domain.ErrInvalidCustomer)
		}
	}
	if c.City == "" {
		return c, fmt.Errorf("%w: city is required", domain.ErrInvalidCustomer)
	}
	if c.Address == "" {
		return c, fmt.Errorf("%w: address is required", domain.ErrInvalidCustomer)
	}
	return c, nil
}

// NormalizePhone strips mask characters and returns the number as "+digits".
func NormalizePhone(raw string) (string, error) {
	digits := utils.DigitsOnly(raw)
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return "", fmt.Errorf("%w: phone must have %d-%d digits", domain.ErrInvalidCustomer, minPhoneDigits, maxPhoneDigits)
	}
	return "+" + digits, nil
}
