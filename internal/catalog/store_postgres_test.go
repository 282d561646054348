package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var productCols = []string{"id", "name", "description", "price", "category", "image_url", "sku", "stock_level", "sales_count", "created_at", "updated_at"}

func TestPostgresStore_UpsertAllCommitsWholeBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	store := NewPostgresStore(db)

	now := time.Now().UTC()
	products := []Product{
		{ID: "p1", Name: "A", Price: 10, UpdatedAt: now},
		{ID: "p2", Name: "B", Price: 20, UpdatedAt: now},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO products")
	for _, p := range products {
		prep.ExpectExec().
			WithArgs(p.ID, p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.SKU, p.StockLevel, p.SalesCount, p.CreatedAt, p.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	if err := store.UpsertAll(context.Background(), products); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_UpsertAllRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	store := NewPostgresStore(db)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO products")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	products := []Product{{ID: "p1", Name: "A"}, {ID: "p2", Name: "B"}}
	if err := store.UpsertAll(context.Background(), products); err == nil {
		t.Fatal("expected error when a batch record fails")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_SearchUsesILike(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	store := NewPostgresStore(db)

	rows := sqlmock.NewRows(productCols).
		AddRow("p1", "Salmon Food", "wet", 12.5, "Animal Food", "", "", 3, 0, time.Time{}, time.Time{})
	mock.ExpectQuery("name ILIKE").WithArgs("%salmon%").WillReturnRows(rows)

	got, err := store.Search(context.Background(), "salmon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Salmon Food" {
		t.Fatalf("unexpected result %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_GetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	store := NewPostgresStore(db)

	mock.ExpectQuery("FROM products").WithArgs("missing").WillReturnRows(sqlmock.NewRows(productCols))

	if _, err := store.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresStore_DistinctCategories(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	store := NewPostgresStore(db)

	rows := sqlmock.NewRows([]string{"category"}).AddRow("Animal Food").AddRow("Cat snacks")
	mock.ExpectQuery("SELECT DISTINCT category").WillReturnRows(rows)

	categories, err := store.DistinctCategories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 2 || categories[0] != "Animal Food" {
		t.Fatalf("unexpected categories %v", categories)
	}
}

func TestPostgresStore_GetByIDsEmptyInput(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	store := NewPostgresStore(db)

	got, err := store.GetByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows without a query, got %v", got)
	}
}
