package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"zenith-store/internal/domain"
)

var ErrReviewNotFound = errors.New("review not found")

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListVisibleByProduct(ctx context.Context, productID int64) ([]domain.Review, error)
	ListAll(ctx context.Context) ([]domain.AdminReview, error)
	ToggleVisibility(ctx context.Context, id int64) (*domain.Review, error)
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `id, product_id, user_id, author, rating, comment, is_hidden, created_at`

func scanReview(row rowScanner, dest *domain.Review, extra ...any) error {
	return row.Scan(append([]any{
		&dest.ID,
		&dest.ProductID,
		&dest.UserID,
		&dest.Author,
		&dest.Rating,
		&dest.Comment,
		&dest.IsHidden,
		&dest.Date,
	}, extra...)...)
}

// Create stores a review. An unknown product yields ErrProductNotFound.
func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (product_id, user_id, author, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_hidden, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		review.ProductID,
		review.UserID,
		review.Author,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.IsHidden, &review.Date)

	if err != nil {
		if hasPgCode(err, pgForeignKeyViolation) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// ListVisibleByProduct returns the non-hidden reviews of a product, newest first
func (r *reviewRepository) ListVisibleByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE product_id = $1 AND NOT is_hidden
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var review domain.Review
		if err := scanReview(rows, &review); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// ListAll returns every review including hidden ones, joined with its product
func (r *reviewRepository) ListAll(ctx context.Context) ([]domain.AdminReview, error) {
	query := `
		SELECT r.id, r.product_id, r.user_id, r.author, r.rating, r.comment, r.is_hidden, r.created_at,
		       p.name, COALESCE(p.images[1], '')
		FROM reviews r
		JOIN products p ON p.id = r.product_id
		ORDER BY r.created_at DESC, r.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.AdminReview{}
	for rows.Next() {
		var review domain.AdminReview
		if err := scanReview(rows, &review.Review, &review.ProductName, &review.ProductImage); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// ToggleVisibility flips is_hidden and returns the updated review
func (r *reviewRepository) ToggleVisibility(ctx context.Context, id int64) (*domain.Review, error) {
	query := `
		UPDATE reviews SET is_hidden = NOT is_hidden
		WHERE id = $1
		RETURNING ` + reviewColumns

	review := &domain.Review{}
	if err := scanReview(r.db.QueryRowContext(ctx, query, id), review); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to toggle review visibility: %w", err)
	}

	return review, nil
}
