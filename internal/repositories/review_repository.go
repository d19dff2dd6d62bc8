package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"gym_club_backend/internal/models"
)

// ReviewRepository defines the interface for class review database operations.
type ReviewRepository interface {
	CreateReview(executor SQLExecutor, review *models.Review) (int64, error)
	FindReviewByID(reviewID int64) (*models.Review, error)
	ListReviewsByClass(classID int64) ([]models.Review, error)
	ListReviewsByUser(userID int64) ([]models.Review, error)
	UpdateReview(executor SQLExecutor, review *models.Review) error
	DeleteReview(executor SQLExecutor, reviewID int64) error
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository.
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

const selectReviewFields = `rv.id, rv.class_id, rv.user_id, u.name, rv.rating, rv.comment, rv.created_at, rv.updated_at
	FROM reviews rv
	JOIN users u ON u.id = rv.user_id`

func scanReviewRow(row scanner) (*models.Review, error) {
	var review models.Review
	err := row.Scan(&review.ID, &review.ClassID, &review.UserID, &review.UserName, &review.Rating,
		&review.Comment, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return nil, wrapScanError(err, "scanning review")
	}
	return &review, nil
}

func (r *reviewRepository) listReviews(query string, arg interface{}) ([]models.Review, error) {
	rows, err := r.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("%w: listing reviews: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		review, err := scanReviewRow(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating reviews: %v", ErrDatabaseError, err)
	}
	return reviews, nil
}

func (r *reviewRepository) CreateReview(executor SQLExecutor, review *models.Review) (int64, error) {
	query := `INSERT INTO reviews (class_id, user_id, rating, comment, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	currentTime := time.Now()
	review.CreatedAt = currentTime
	review.UpdatedAt = currentTime

	err := executor.QueryRow(query, review.ClassID, review.UserID, review.Rating, review.Comment,
		review.CreatedAt, review.UpdatedAt).Scan(&review.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating review")
	}
	return review.ID, nil
}

func (r *reviewRepository) FindReviewByID(reviewID int64) (*models.Review, error) {
	return scanReviewRow(r.db.QueryRow("SELECT "+selectReviewFields+" WHERE rv.id = $1", reviewID))
}

func (r *reviewRepository) ListReviewsByClass(classID int64) ([]models.Review, error) {
	return r.listReviews("SELECT "+selectReviewFields+" WHERE rv.class_id = $1 ORDER BY rv.created_at DESC, rv.id DESC", classID)
}

func (r *reviewRepository) ListReviewsByUser(userID int64) ([]models.Review, error) {
	return r.listReviews("SELECT "+selectReviewFields+" WHERE rv.user_id = $1 ORDER BY rv.created_at DESC, rv.id DESC", userID)
}

func (r *reviewRepository) UpdateReview(executor SQLExecutor, review *models.Review) error {
	review.UpdatedAt = time.Now()
	result, err := executor.Exec(`UPDATE reviews SET rating = $1, comment = $2, updated_at = $3 WHERE id = $4`,
		review.Rating, review.Comment, review.UpdatedAt, review.ID)
	if err != nil {
		return fmt.Errorf("%w: updating review: %v", ErrDatabaseError, err)
	}
	return expectAffected(result, "updating review")
}

func (r *reviewRepository) DeleteReview(executor SQLExecutor, reviewID int64) error {
	result, err := executor.Exec(`DELETE FROM reviews WHERE id = $1`, reviewID)
	if err != nil {
		return fmt.Errorf("%w: deleting review: %v", ErrDatabaseError, err)
	}
	return expectAffected(result, "deleting review")
}
