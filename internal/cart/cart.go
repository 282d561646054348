package cart

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("cart line not found")

// Line is one product entry in a user's cart. Name, price and image are
// snapshotted when the line is first created; a later catalog price change
// does not rewrite them. Staleness is surfaced through availability instead.
type Line struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	ProductID       string    `json:"productId"`
	ProductName     string    `json:"productName"`
	ProductPrice    float64   `json:"productPrice"`
	ProductImageURL string    `json:"productImageUrl"`
	Quantity        int       `json:"quantity"`
	AddedAt         time.Time `json:"addedAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (l Line) TotalPrice() float64 {
	return l.ProductPrice * float64(l.Quantity)
}

// LineWithAvailability joins a cart line with the current catalog snapshot.
// It is recomputed on every read and never persisted. CurrentStock is nil
// when the product is no longer in the local catalog.
type LineWithAvailability struct {
	Line
	CurrentStock *int `json:"currentStock"`
	Available    bool `json:"available"`
}

// Summary is derived by summation over the current lines on every call.
type Summary struct {
	Count    int     `json:"count"`
	Subtotal float64 `json:"subtotal"`
}
