package catalog

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// RemoteDocument is one raw record from the remote product collection.
type RemoteDocument struct {
	ID   string
	Data map[string]any
}

// RemoteSource fetches the full product set from the authoritative store.
// It does no caching and no parsing beyond exposing raw field maps.
type RemoteSource interface {
	FetchAll(ctx context.Context) ([]RemoteDocument, error)
}

// FirestoreSource reads the whole `products` collection.
type FirestoreSource struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreSource(client *firestore.Client) *FirestoreSource {
	return &FirestoreSource{client: client, collection: "products"}
}

func (s *FirestoreSource) FetchAll(ctx context.Context) ([]RemoteDocument, error) {
	it := s.client.Collection(s.collection).Documents(ctx)
	defer it.Stop()

	out := make([]RemoteDocument, 0)
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetch products: %w", err)
		}
		out = append(out, RemoteDocument{ID: doc.Ref.ID, Data: doc.Data()})
	}
	return out, nil
}
