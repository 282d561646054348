package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/afmobile/storefront-core/internal/auth"
	"github.com/afmobile/storefront-core/internal/catalog"
)

// Service orchestrates cart operations for the authenticated user. It snapshots
// product details at add time and joins the live catalog only for availability.
type Service struct {
	repo    Repository
	catalog catalog.Store
	users   auth.Provider
}

func NewService(repo Repository, cat catalog.Store, users auth.Provider) *Service {
	return &Service{repo: repo, catalog: cat, users: users}
}

// Add puts quantity units of the product in the user's cart, merging with an
// existing line by summing quantities. No stock check happens here; shortage
// surfaces at read time through availability and is enforced at checkout.
// A zero quantity just returns the current cart.
func (s *Service) Add(ctx context.Context, productID string, quantity int) ([]Line, error) {
	userID, err := s.users.UserID(ctx)
	if err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, fmt.Errorf("add to cart: negative quantity %d", quantity)
	}
	if quantity == 0 {
		return s.repo.ListByUser(ctx, userID)
	}

	product, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	line := Line{
		UserID:          userID,
		ProductID:       product.ID,
		ProductName:     product.Name,
		ProductPrice:    product.Price,
		ProductImageURL: product.ImageURL,
		Quantity:        quantity,
	}
	if _, err := s.repo.AddOrMerge(ctx, line); err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return s.repo.ListByUser(ctx, userID)
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less is
// equivalent to removal, not an error.
func (s *Service) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	userID, err := s.users.UserID(ctx)
	if err != nil {
		return err
	}
	if quantity <= 0 {
		return s.repo.Delete(ctx, userID, lineID)
	}
	return s.repo.UpdateQuantity(ctx, userID, lineID, quantity)
}

// Remove deletes one line. Removing a line that no longer exists is a success.
func (s *Service) Remove(ctx context.Context, lineID string) error {
	userID, err := s.users.UserID(ctx)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, lineID)
}

// Clear deletes every line for the current user.
func (s *Service) Clear(ctx context.Context) error {
	userID, err := s.users.UserID(ctx)
	if err != nil {
		return err
	}
	return s.repo.DeleteAllForUser(ctx, userID)
}

func (s *Service) Items(ctx context.Context) ([]Line, error) {
	userID, err := s.users.UserID(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

// ItemsWithAvailability joins the cart with the current catalog snapshot.
// A line is available when the product is still in the local catalog and its
// stock covers the line's quantity. Computed fresh on every call.
func (s *Service) ItemsWithAvailability(ctx context.Context) ([]LineWithAvailability, error) {
	lines, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("materialize cart: %w", err)
	}

	out := make([]LineWithAvailability, 0, len(lines))
	for _, l := range lines {
		item := LineWithAvailability{Line: l}
		if p, ok := products[l.ProductID]; ok {
			stock := p.StockLevel
			item.CurrentStock = &stock
			item.Available = stock >= l.Quantity
		}
		out = append(out, item)
	}
	return out, nil
}

// Summarize recomputes count and subtotal by summation over the current lines.
func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	lines, err := s.Items(ctx)
	if err != nil {
		return Summary{}, err
	}
	var sum Summary
	for _, l := range lines {
		sum.Count += l.Quantity
		sum.Subtotal += l.TotalPrice()
	}
	return sum, nil
}
