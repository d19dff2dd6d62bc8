package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"gym_club_backend/internal/models"
	"gym_club_backend/internal/repositories"
)

// ReviewRequest DTO
type ReviewRequest struct {
	Rating  float64 `json:"rating" binding:"required"`
	Comment *string `json:"comment"`
}

// UpdateReviewRequest DTO
type UpdateReviewRequest struct {
	Rating  *float64 `json:"rating"`
	Comment *string  `json:"comment"`
}

// --- ReviewService Interface ---
type ReviewService interface {
	CreateReview(classID, userID int64, req ReviewRequest) (*models.Review, error)
	ListClassReviews(classID int64) (*models.ClassReviews, error)
	MyReviews(userID int64) ([]models.Review, error)
	UpdateReview(reviewID, userID int64, req UpdateReviewRequest) (*models.Review, error)
	DeleteReview(reviewID int64, actor Actor) error
}

type reviewService struct {
	reviewRepo  repositories.ReviewRepository
	classRepo   repositories.ClassRepository
	bookingRepo repositories.BookingRepository
	memberRepo  repositories.MemberRepository
	db          *sql.DB
}

// NewReviewService creates a new instance of ReviewService.
func NewReviewService(reviewRepo repositories.ReviewRepository, classRepo repositories.ClassRepository, bookingRepo repositories.BookingRepository, memberRepo repositories.MemberRepository, db *sql.DB) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		classRepo:   classRepo,
		bookingRepo: bookingRepo,
		memberRepo:  memberRepo,
		db:          db,
	}
}

func validateRating(rating float64) error {
	if math.IsNaN(rating) || rating < models.MinRating || rating > models.MaxRating {
		return validationError("rating must be between %.1f and %.1f", models.MinRating, models.MaxRating)
	}
	return nil
}

// AverageRating is the mean rating rounded to 2 decimals, 0 for no reviews.
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(sum/float64(len(reviews))*100) / 100
}

func (s *reviewService) CreateReview(classID, userID int64, req ReviewRequest) (*models.Review, error) {
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}
	if _, err := s.classRepo.FindClassByID(classID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}

	member, err := s.memberRepo.FindMemberByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReviewNotAllowed
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if _, err := s.bookingRepo.FindBookingByMemberAndClass(s.db, member.ID, classID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReviewNotAllowed
		}
		return nil, fmt.Errorf("failed to check booking: %w", err)
	}

	review := &models.Review{
		ClassID: classID,
		UserID:  userID,
		Rating:  req.Rating,
		Comment: trimmedOrNil(req.Comment),
	}
	if _, err := s.reviewRepo.CreateReview(s.db, review); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return s.getReview(review.ID)
}

func (s *reviewService) getReview(reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.FindReviewByID(reviewID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

func (s *reviewService) ListClassReviews(classID int64) (*models.ClassReviews, error) {
	class, err := s.classRepo.FindClassByID(classID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	reviews, err := s.reviewRepo.ListReviewsByClass(classID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return &models.ClassReviews{
		ClassID:       class.ID,
		ClassName:     class.Name,
		Reviews:       reviews,
		TotalReviews:  len(reviews),
		AverageRating: AverageRating(reviews),
	}, nil
}

func (s *reviewService) MyReviews(userID int64) ([]models.Review, error) {
	reviews, err := s.reviewRepo.ListReviewsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) UpdateReview(reviewID, userID int64, req UpdateReviewRequest) (*models.Review, error) {
	review, err := s.getReview(reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrReviewNotFound
	}
	if req.Rating != nil {
		if err := validateRating(*req.Rating); err != nil {
			return nil, err
		}
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = trimmedOrNil(req.Comment)
	}
	if err := s.reviewRepo.UpdateReview(s.db, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return review, nil
}

// DeleteReview removes a review; only its author or an admin may do so.
func (s *reviewService) DeleteReview(reviewID int64, actor Actor) error {
	review, err := s.getReview(reviewID)
	if err != nil {
		return err
	}
	if review.UserID != actor.UserID && !actor.IsAdmin() {
		return newKindError(ErrForbidden, "you can only delete your own reviews")
	}
	if err := s.reviewRepo.DeleteReview(s.db, reviewID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}
