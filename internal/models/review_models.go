package models

import "time"

// Rating bounds for class reviews.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// Review is a member's rating of a class. One per (class, user).
type Review struct {
	ID        int64     `json:"id" db:"id"`
	ClassID   int64     `json:"class_id" db:"class_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	UserName  *string   `json:"user_name,omitempty"`
	Rating    float64   `json:"rating" db:"rating"`
	Comment   *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ClassReviews is the review listing of a single class.
type ClassReviews struct {
	ClassID       int64    `json:"class_id"`
	ClassName     string   `json:"class_name"`
	Reviews       []Review `json:"reviews"`
	TotalReviews  int      `json:"total_reviews"`
	AverageRating float64  `json:"average_rating"`
}
