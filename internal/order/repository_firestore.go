package order

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreRepository stores orders in the `orders` collection. Status
// transitions run inside Firestore transactions so two concurrent writers
// cannot both advance the same order.
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

func (r *FirestoreRepository) col() *firestore.CollectionRef {
	return r.client.Collection("orders")
}

type orderDoc struct {
	UserID          string     `firestore:"userId"`
	UserName        string     `firestore:"userName"`
	UserEmail       string     `firestore:"userEmail"`
	DeliveryAddress string     `firestore:"deliveryAddress"`
	PhoneNumber     string     `firestore:"phoneNumber"`
	Items           []lineDoc  `firestore:"items"`
	Subtotal        float64    `firestore:"subtotal"`
	DeliveryFee     float64    `firestore:"deliveryFee"`
	TotalAmount     float64    `firestore:"totalAmount"`
	PaymentStatus   string     `firestore:"paymentStatus"`
	OrderStatus     string     `firestore:"orderStatus"`
	CreatedAt       time.Time  `firestore:"createdAt"`
	PaidAt          *time.Time `firestore:"paidAt"`
	ApprovedAt      *time.Time `firestore:"approvedAt"`
	ShippedAt       *time.Time `firestore:"shippedAt"`
	DeliveredAt     *time.Time `firestore:"deliveredAt"`
	Notes           string     `firestore:"notes"`
}

type lineDoc struct {
	ProductID       string  `firestore:"productId"`
	ProductName     string  `firestore:"productName"`
	ProductImageURL string  `firestore:"productImageUrl"`
	ProductPrice    float64 `firestore:"productPrice"`
	Quantity        int     `firestore:"quantity"`
}

func docFromOrder(o Order) orderDoc {
	items := make([]lineDoc, 0, len(o.Items))
	for _, l := range o.Items {
		items = append(items, lineDoc(l))
	}
	return orderDoc{
		UserID:          o.UserID,
		UserName:        o.UserName,
		UserEmail:       o.UserEmail,
		DeliveryAddress: o.DeliveryAddress,
		PhoneNumber:     o.PhoneNumber,
		Items:           items,
		Subtotal:        o.Subtotal,
		DeliveryFee:     o.DeliveryFee,
		TotalAmount:     o.TotalAmount,
		PaymentStatus:   string(o.PaymentStatus),
		OrderStatus:     string(o.Status),
		CreatedAt:       o.CreatedAt,
		PaidAt:          o.PaidAt,
		ApprovedAt:      o.ApprovedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		Notes:           o.Notes,
	}
}

func (d orderDoc) toOrder(id string) Order {
	items := make([]Line, 0, len(d.Items))
	for _, l := range d.Items {
		items = append(items, Line(l))
	}
	return Order{
		ID:              id,
		UserID:          d.UserID,
		UserName:        d.UserName,
		UserEmail:       d.UserEmail,
		DeliveryAddress: d.DeliveryAddress,
		PhoneNumber:     d.PhoneNumber,
		Items:           items,
		Subtotal:        d.Subtotal,
		DeliveryFee:     d.DeliveryFee,
		TotalAmount:     d.TotalAmount,
		PaymentStatus:   PaymentStatus(d.PaymentStatus),
		Status:          Status(d.OrderStatus),
		CreatedAt:       d.CreatedAt,
		PaidAt:          d.PaidAt,
		ApprovedAt:      d.ApprovedAt,
		ShippedAt:       d.ShippedAt,
		DeliveredAt:     d.DeliveredAt,
		Notes:           d.Notes,
	}
}

func (r *FirestoreRepository) Create(ctx context.Context, o Order) (Order, error) {
	ref := r.col().NewDoc()
	if _, err := ref.Create(ctx, docFromOrder(o)); err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	o.ID = ref.ID
	return o, nil
}

func (r *FirestoreRepository) Get(ctx context.Context, id string) (Order, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	var doc orderDoc
	if err := snap.DataTo(&doc); err != nil {
		return Order{}, fmt.Errorf("parse order %s: %w", id, err)
	}
	return doc.toOrder(id), nil
}

func (r *FirestoreRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	it := r.col().
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer it.Stop()

	out := make([]Order, 0)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list orders: %w", err)
		}
		var doc orderDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("parse order %s: %w", snap.Ref.ID, err)
		}
		out = append(out, doc.toOrder(snap.Ref.ID))
	}
	return out, nil
}

func (r *FirestoreRepository) Transition(ctx context.Context, id string, apply func(Order) (Order, error)) (Order, error) {
	ref := r.col().Doc(id)
	var result Order
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		var doc orderDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("parse order %s: %w", id, err)
		}
		next, err := apply(doc.toOrder(id))
		if err != nil {
			return err
		}
		if err := tx.Set(ref, docFromOrder(next)); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return result, nil
}
