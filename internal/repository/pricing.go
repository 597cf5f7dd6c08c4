package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/youssefMoMo/youssef-portfolio/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when an update or delete targets a missing row.
	ErrNotFound = errors.New("row not found")
	// ErrNoFields is returned when an update payload patches nothing.
	ErrNoFields = errors.New("no fields to update")
)

type PricingRepository interface {
	ListActive(ctx context.Context) ([]domain.PricingItem, error)
	ListAll(ctx context.Context) ([]domain.PricingItem, error)
	Create(ctx context.Context, in domain.PricingItemInput) (*domain.PricingItem, error)
	Update(ctx context.Context, id int64, in domain.PricingItemInput) (*domain.PricingItem, error)
	Delete(ctx context.Context, id int64) error
}

type pricingRepository struct {
	db *pgxpool.Pool
}

func NewPricingRepository(db *pgxpool.Pool) PricingRepository {
	return &pricingRepository{db: db}
}

const pricingColumns = `id, title, price, description, features, sort_order, active, created_at, updated_at`

func (r *pricingRepository) ListActive(ctx context.Context) ([]domain.PricingItem, error) {
	query := `
	SELECT ` + pricingColumns + `
	FROM pricing_items
	WHERE active
	ORDER BY sort_order ASC, id ASC`
	return r.list(ctx, query)
}

func (r *pricingRepository) ListAll(ctx context.Context) ([]domain.PricingItem, error) {
	query := `
	SELECT ` + pricingColumns + `
	FROM pricing_items
	ORDER BY sort_order ASC, id ASC`
	return r.list(ctx, query)
}

func (r *pricingRepository) list(ctx context.Context, query string) ([]domain.PricingItem, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing items: %w", err)
	}
	defer rows.Close()

	items := []domain.PricingItem{}
	for rows.Next() {
		var item domain.PricingItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Price, &item.Description,
			&item.Features, &item.SortOrder, &item.Active, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pricing item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *pricingRepository) Create(ctx context.Context, in domain.PricingItemInput) (*domain.PricingItem, error) {
	features := []string{}
	if in.Features != nil {
		features = *in.Features
	}

	query := `
	INSERT INTO pricing_items (title, price, description, features, sort_order, active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	RETURNING ` + pricingColumns

	var item domain.PricingItem
	err := r.db.QueryRow(ctx, query,
		deref(in.Title), deref(in.Price), deref(in.Description),
		features, derefInt(in.SortOrder), derefBool(in.Active, true),
	).Scan(&item.ID, &item.Title, &item.Price, &item.Description,
		&item.Features, &item.SortOrder, &item.Active, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create pricing item: %w", err)
	}
	return &item, nil
}

// Update patches only the fields present in the input; nil fields leave the
// stored columns untouched.
func (r *pricingRepository) Update(ctx context.Context, id int64, in domain.PricingItemInput) (*domain.PricingItem, error) {
	set, args := patchClauses(map[string]any{
		"title":       strPtrArg(in.Title),
		"price":       strPtrArg(in.Price),
		"description": strPtrArg(in.Description),
		"sort_order":  intPtrArg(in.SortOrder),
		"active":      boolPtrArg(in.Active),
	})
	if in.Features != nil {
		set = append(set, fmt.Sprintf("features = $%d", len(args)+1))
		args = append(args, *in.Features)
	}
	if len(set) == 0 {
		return nil, ErrNoFields
	}

	set = append(set, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`
	UPDATE pricing_items
	SET %s
	WHERE id = $%d
	RETURNING `+pricingColumns, strings.Join(set, ", "), len(args))

	var item domain.PricingItem
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&item.ID, &item.Title, &item.Price, &item.Description,
			&item.Features, &item.SortOrder, &item.Active, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update pricing item %d: %w", id, err)
	}
	return &item, nil
}

func (r *pricingRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM pricing_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pricing item %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
