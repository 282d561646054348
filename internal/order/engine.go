package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/afmobile/storefront-core/internal/auth"
	"github.com/afmobile/storefront-core/internal/cart"
)

// Engine is the order state machine. It creates orders from the materialized
// cart and advances their status along the legal transition graph.
type Engine struct {
	repo        Repository
	cart        *cart.Service
	users       auth.Provider
	deliveryFee float64
	now         func() time.Time
}

func NewEngine(repo Repository, cartSvc *cart.Service, users auth.Provider, deliveryFee float64) *Engine {
	return &Engine{
		repo:        repo,
		cart:        cartSvc,
		users:       users,
		deliveryFee: deliveryFee,
		now:         time.Now,
	}
}

// Create materializes the user's cart into a new PENDING order. Items are
// copied by value so the order survives later cart or catalog changes.
// Although adding to the cart is permissive, checkout re-validates every
// line's demand against the current stock snapshot and rejects on shortfall.
// The cart is cleared once the order is persisted.
func (e *Engine) Create(ctx context.Context, info DeliveryInfo) (Order, error) {
	userID, err := e.users.UserID(ctx)
	if err != nil {
		return Order{}, err
	}

	items, err := e.cart.ItemsWithAvailability(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}
	for _, item := range items {
		if !item.Available {
			return Order{}, fmt.Errorf("%w: product %s", ErrInsufficientStock, item.ProductID)
		}
	}

	lines := make([]Line, 0, len(items))
	var subtotal float64
	for _, item := range items {
		lines = append(lines, Line{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductImageURL: item.ProductImageURL,
			ProductPrice:    item.ProductPrice,
			Quantity:        item.Quantity,
		})
		subtotal += item.TotalPrice()
	}

	o := Order{
		UserID:          userID,
		UserName:        info.UserName,
		UserEmail:       info.UserEmail,
		DeliveryAddress: info.DeliveryAddress,
		PhoneNumber:     info.PhoneNumber,
		Items:           lines,
		Subtotal:        subtotal,
		DeliveryFee:     e.deliveryFee,
		TotalAmount:     subtotal + e.deliveryFee,
		PaymentStatus:   PaymentPending,
		Status:          StatusPending,
		CreatedAt:       e.now().UTC(),
		Notes:           info.Notes,
	}

	created, err := e.repo.Create(ctx, o)
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}

	if err := e.cart.Clear(ctx); err != nil {
		// The order exists; a stale cart is recoverable, losing the order is not.
		log.Printf("order: cart clear after checkout failed for user %s: %v", userID, err)
	}
	return created, nil
}

// MarkPaid records the customer's payment. Valid only while both statuses
// are PENDING, so a second MarkPaid on the same order fails.
func (e *Engine) MarkPaid(ctx context.Context, orderID string) (Order, error) {
	userID, err := e.users.UserID(ctx)
	if err != nil {
		return Order{}, err
	}
	return e.repo.Transition(ctx, orderID, func(o Order) (Order, error) {
		if o.UserID != userID {
			return Order{}, ErrNotFound
		}
		if !o.CanBePaid() {
			return Order{}, ErrInvalidTransition
		}
		now := e.now().UTC()
		o.PaymentStatus = PaymentPaid
		o.Status = StatusPaid
		o.PaidAt = &now
		return o, nil
	})
}

// Cancel is the only side exit and is allowed only before payment.
func (e *Engine) Cancel(ctx context.Context, orderID string) (Order, error) {
	userID, err := e.users.UserID(ctx)
	if err != nil {
		return Order{}, err
	}
	return e.repo.Transition(ctx, orderID, func(o Order) (Order, error) {
		if o.UserID != userID {
			return Order{}, ErrNotFound
		}
		if o.PaymentStatus != PaymentPending {
			return Order{}, ErrCannotCancelPaid
		}
		if o.Status != StatusPending {
			return Order{}, ErrInvalidTransition
		}
		o.Status = StatusCancelled
		return o, nil
	})
}

// Approve advances PAID → APPROVED. Fulfillment transitions are operator
// actions and are not scoped to the order's owner.
func (e *Engine) Approve(ctx context.Context, orderID string) (Order, error) {
	return e.advance(ctx, orderID, StatusPaid, StatusApproved)
}

// Ship advances APPROVED → SHIPPED.
func (e *Engine) Ship(ctx context.Context, orderID string) (Order, error) {
	return e.advance(ctx, orderID, StatusApproved, StatusShipped)
}

// Deliver advances SHIPPED → DELIVERED.
func (e *Engine) Deliver(ctx context.Context, orderID string) (Order, error) {
	return e.advance(ctx, orderID, StatusShipped, StatusDelivered)
}

func (e *Engine) advance(ctx context.Context, orderID string, from, to Status) (Order, error) {
	return e.repo.Transition(ctx, orderID, func(o Order) (Order, error) {
		if o.Status != from {
			return Order{}, ErrInvalidTransition
		}
		now := e.now().UTC()
		o.Status = to
		switch to {
		case StatusApproved:
			o.ApprovedAt = &now
		case StatusShipped:
			o.ShippedAt = &now
		case StatusDelivered:
			o.DeliveredAt = &now
		}
		return o, nil
	})
}

// Get returns one of the current user's orders.
func (e *Engine) Get(ctx context.Context, orderID string) (Order, error) {
	userID, err := e.users.UserID(ctx)
	if err != nil {
		return Order{}, err
	}
	o, err := e.repo.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if o.UserID != userID {
		return Order{}, ErrNotFound
	}
	return o, nil
}

// ListForUser returns the current user's orders, newest first.
func (e *Engine) ListForUser(ctx context.Context) ([]Order, error) {
	userID, err := e.users.UserID(ctx)
	if err != nil {
		return nil, err
	}
	return e.repo.ListByUser(ctx, userID)
}
