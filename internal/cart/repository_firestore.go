package cart

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreRepository stores cart lines as documents in the `cart`
// collection, one document per (user, product).
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

func (r *FirestoreRepository) col() *firestore.CollectionRef {
	return r.client.Collection("cart")
}

type lineDoc struct {
	UserID          string    `firestore:"userId"`
	ProductID       string    `firestore:"productId"`
	ProductName     string    `firestore:"productName"`
	ProductPrice    float64   `firestore:"productPrice"`
	ProductImageURL string    `firestore:"productImageUrl"`
	Quantity        int       `firestore:"quantity"`
	AddedAt         time.Time `firestore:"addedAt"`
	UpdatedAt       time.Time `firestore:"updatedAt"`
}

func (d lineDoc) toLine(id string) Line {
	return Line{
		ID:              id,
		UserID:          d.UserID,
		ProductID:       d.ProductID,
		ProductName:     d.ProductName,
		ProductPrice:    d.ProductPrice,
		ProductImageURL: d.ProductImageURL,
		Quantity:        d.Quantity,
		AddedAt:         d.AddedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// AddOrMerge runs the find-or-create inside a Firestore transaction, so two
// concurrent adds for the same (user, product) cannot both create a line
// even when they come from different devices.
func (r *FirestoreRepository) AddOrMerge(ctx context.Context, line Line) (Line, error) {
	var result Line
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		query := r.col().
			Where("userId", "==", line.UserID).
			Where("productId", "==", line.ProductID).
			Limit(1)
		docs, err := tx.Documents(query).GetAll()
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if len(docs) > 0 {
			var existing lineDoc
			if err := docs[0].DataTo(&existing); err != nil {
				return fmt.Errorf("parse cart line %s: %w", docs[0].Ref.ID, err)
			}
			existing.Quantity += line.Quantity
			existing.UpdatedAt = now
			if err := tx.Update(docs[0].Ref, []firestore.Update{
				{Path: "quantity", Value: existing.Quantity},
				{Path: "updatedAt", Value: now},
			}); err != nil {
				return err
			}
			result = existing.toLine(docs[0].Ref.ID)
			return nil
		}

		ref := r.col().NewDoc()
		doc := lineDoc{
			UserID:          line.UserID,
			ProductID:       line.ProductID,
			ProductName:     line.ProductName,
			ProductPrice:    line.ProductPrice,
			ProductImageURL: line.ProductImageURL,
			Quantity:        line.Quantity,
			AddedAt:         now,
			UpdatedAt:       now,
		}
		if err := tx.Create(ref, doc); err != nil {
			return err
		}
		result = doc.toLine(ref.ID)
		return nil
	})
	if err != nil {
		return Line{}, err
	}
	return result, nil
}

func (r *FirestoreRepository) ListByUser(ctx context.Context, userID string) ([]Line, error) {
	it := r.col().
		Where("userId", "==", userID).
		OrderBy("addedAt", firestore.Desc).
		Documents(ctx)
	defer it.Stop()

	out := make([]Line, 0)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list cart: %w", err)
		}
		var doc lineDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("parse cart line %s: %w", snap.Ref.ID, err)
		}
		out = append(out, doc.toLine(snap.Ref.ID))
	}
	return out, nil
}

func (r *FirestoreRepository) Get(ctx context.Context, userID, lineID string) (Line, error) {
	snap, err := r.col().Doc(lineID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Line{}, ErrNotFound
		}
		return Line{}, err
	}
	var doc lineDoc
	if err := snap.DataTo(&doc); err != nil {
		return Line{}, fmt.Errorf("parse cart line %s: %w", lineID, err)
	}
	if doc.UserID != userID {
		return Line{}, ErrNotFound
	}
	return doc.toLine(lineID), nil
}

func (r *FirestoreRepository) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) error {
	ref := r.col().Doc(lineID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		var doc lineDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("parse cart line %s: %w", lineID, err)
		}
		if doc.UserID != userID {
			return ErrNotFound
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "quantity", Value: quantity},
			{Path: "updatedAt", Value: time.Now().UTC()},
		})
	})
}

func (r *FirestoreRepository) Delete(ctx context.Context, userID, lineID string) error {
	snap, err := r.col().Doc(lineID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return err
	}
	var doc lineDoc
	if err := snap.DataTo(&doc); err != nil {
		return fmt.Errorf("parse cart line %s: %w", lineID, err)
	}
	if doc.UserID != userID {
		return ErrNotFound
	}
	_, err = snap.Ref.Delete(ctx)
	return err
}

func (r *FirestoreRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	it := r.col().Where("userId", "==", userID).Documents(ctx)
	defer it.Stop()

	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		job, err := bw.Delete(snap.Ref)
		if err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
	}
	return nil
}
