package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrItemNotFound = errors.New("item not found")

// CatalogRepository is a read-only source of local catalog items.
type CatalogRepository interface {
	ListItems(ctx context.Context) ([]models.Item, error)
	GetItem(ctx context.Context, id int) (*models.Item, error)
}

// LocalProducts is the built-in catalog.
var LocalProducts = []models.Item{
	{ID: 1, Title: "Notebook Gamer X", Description: "16GB RAM, RTX 3060", Price: decimal.NewFromInt(4999)},
	{ID: 2, Title: "Teclado Mecânico", Description: "Switches azuis, RGB", Price: decimal.NewFromInt(299)},
	{ID: 3, Title: "Mouse Óptico", Description: "16000 DPI", Price: decimal.NewFromInt(149)},
}

type StaticCatalogRepository struct {
	items []models.Item
}

func NewStaticCatalogRepository(items []models.Item) *StaticCatalogRepository {
	if items == nil {
		items = LocalProducts
	}
	copied := make([]models.Item, len(items))
	copy(copied, items)
	return &StaticCatalogRepository{items: copied}
}

func (r *StaticCatalogRepository) ListItems(ctx context.Context) ([]models.Item, error) {
	items := make([]models.Item, len(r.items))
	copy(items, r.items)
	return items, nil
}

func (r *StaticCatalogRepository) GetItem(ctx context.Context, id int) (*models.Item, error) {
	for _, item := range r.items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, ErrItemNotFound
}

type PostgresCatalogRepository struct {
	db *pgxpool.Pool
}

func NewPostgresCatalogRepository(db *pgxpool.Pool) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

// price is NUMERIC and scans into decimal.Decimal without a float round trip.
const catalogColumns = `id, title, description, price, COALESCE(thumbnail, '')`

func (r *PostgresCatalogRepository) ListItems(ctx context.Context) ([]models.Item, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_items ORDER BY position, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Price, &item.Thumbnail); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresCatalogRepository) GetItem(ctx context.Context, id int) (*models.Item, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_items WHERE id = $1`

	var item models.Item
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.Title, &item.Description, &item.Price, &item.Thumbnail)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog item %d: %w", id, err)
	}
	return &item, nil
}
