package order

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrCannotCancelPaid  = errors.New("cannot cancel paid orders")
	ErrInsufficientStock = errors.New("insufficient stock for cart items")
)

// PaymentStatus tracks the payment side of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentVerified PaymentStatus = "VERIFIED"
)

// Status tracks fulfillment. Legal transitions move one step forward along
// PENDING → PAID → APPROVED → SHIPPED → DELIVERED, with PENDING → CANCELLED
// as the only side exit. Nothing moves backward or skips a step.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusApproved  Status = "APPROVED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Line is one product inside an order, copied by value from the cart at
// order-creation time. Never mutated afterwards.
type Line struct {
	ProductID       string  `json:"productId"`
	ProductName     string  `json:"productName"`
	ProductImageURL string  `json:"productImageUrl"`
	ProductPrice    float64 `json:"productPrice"`
	Quantity        int     `json:"quantity"`
}

func (l Line) TotalPrice() float64 {
	return l.ProductPrice * float64(l.Quantity)
}

// DeliveryInfo is the contact and shipping snapshot captured at checkout.
type DeliveryInfo struct {
	UserName        string `json:"userName"`
	UserEmail       string `json:"userEmail"`
	DeliveryAddress string `json:"deliveryAddress"`
	PhoneNumber     string `json:"phoneNumber"`
	Notes           string `json:"notes"`
}

// Order is a permanent historical record: items and totals are fixed at
// creation, only the status fields and their timestamps ever change.
type Order struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	UserName        string        `json:"userName"`
	UserEmail       string        `json:"userEmail"`
	DeliveryAddress string        `json:"deliveryAddress"`
	PhoneNumber     string        `json:"phoneNumber"`
	Items           []Line        `json:"items"`
	Subtotal        float64       `json:"subtotal"`
	DeliveryFee     float64       `json:"deliveryFee"`
	TotalAmount     float64       `json:"totalAmount"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	Status          Status        `json:"orderStatus"`
	CreatedAt       time.Time     `json:"createdAt"`
	PaidAt          *time.Time    `json:"paidAt,omitempty"`
	ApprovedAt      *time.Time    `json:"approvedAt,omitempty"`
	ShippedAt       *time.Time    `json:"shippedAt,omitempty"`
	DeliveredAt     *time.Time    `json:"deliveredAt,omitempty"`
	Notes           string        `json:"notes"`
}

// CanBePaid reports whether the order is still awaiting its payment.
func (o Order) CanBePaid() bool {
	return o.PaymentStatus == PaymentPending && o.Status == StatusPending
}

// AwaitingApproval reports whether the order is paid and waiting for admin
// approval.
func (o Order) AwaitingApproval() bool {
	return o.PaymentStatus == PaymentPaid && o.Status == StatusPaid
}

// StatusDescription maps the order status to the text shown to the customer.
func (o Order) StatusDescription() string {
	switch o.Status {
	case StatusPending:
		return "Waiting for payment"
	case StatusPaid:
		return "Payment received - Waiting for admin approval"
	case StatusApproved:
		return "Order approved - Preparing for shipment"
	case StatusShipped:
		return "Order shipped - On the way"
	case StatusDelivered:
		return "Order delivered"
	case StatusCancelled:
		return "Order cancelled"
	default:
		return "Unknown status"
	}
}
