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

type ReviewRepository interface {
	ListActive(ctx context.Context) ([]domain.Review, error)
	ListAll(ctx context.Context) ([]domain.Review, error)
	Create(ctx context.Context, in domain.ReviewInput) (*domain.Review, error)
	Update(ctx context.Context, id int64, in domain.ReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, id int64) error
}

type reviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `id, author, role, quote, rating, avatar_url, sort_order, active, created_at, updated_at`

func (r *reviewRepository) ListActive(ctx context.Context) ([]domain.Review, error) {
	query := `
	SELECT ` + reviewColumns + `
	FROM reviews
	WHERE active
	ORDER BY sort_order ASC, id ASC`
	return r.list(ctx, query)
}

func (r *reviewRepository) ListAll(ctx context.Context) ([]domain.Review, error) {
	query := `
	SELECT ` + reviewColumns + `
	FROM reviews
	ORDER BY sort_order ASC, id ASC`
	return r.list(ctx, query)
}

func (r *reviewRepository) list(ctx context.Context, query string) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(&review.ID, &review.Author, &review.Role, &review.Quote,
			&review.Rating, &review.AvatarURL, &review.SortOrder, &review.Active,
			&review.CreatedAt, &review.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *reviewRepository) Create(ctx context.Context, in domain.ReviewInput) (*domain.Review, error) {
	rating := 5
	if in.Rating != nil {
		rating = *in.Rating
	}

	query := `
	INSERT INTO reviews (author, role, quote, rating, avatar_url, sort_order, active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	RETURNING ` + reviewColumns

	var review domain.Review
	err := r.db.QueryRow(ctx, query,
		deref(in.Author), deref(in.Role), deref(in.Quote), rating,
		deref(in.AvatarURL), derefInt(in.SortOrder), derefBool(in.Active, true),
	).Scan(&review.ID, &review.Author, &review.Role, &review.Quote,
		&review.Rating, &review.AvatarURL, &review.SortOrder, &review.Active,
		&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

// Update patches only the fields present in the input.
func (r *reviewRepository) Update(ctx context.Context, id int64, in domain.ReviewInput) (*domain.Review, error) {
	set, args := patchClauses(map[string]any{
		"author":     strPtrArg(in.Author),
		"role":       strPtrArg(in.Role),
		"quote":      strPtrArg(in.Quote),
		"rating":     intPtrArg(in.Rating),
		"avatar_url": strPtrArg(in.AvatarURL),
		"sort_order": intPtrArg(in.SortOrder),
		"active":     boolPtrArg(in.Active),
	})
	if len(set) == 0 {
		return nil, ErrNoFields
	}

	set = append(set, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`
	UPDATE reviews
	SET %s
	WHERE id = $%d
	RETURNING `+reviewColumns, strings.Join(set, ", "), len(args))

	var review domain.Review
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&review.ID, &review.Author, &review.Role, &review.Quote,
			&review.Rating, &review.AvatarURL, &review.SortOrder, &review.Active,
			&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update review %d: %w", id, err)
	}
	return &review, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
