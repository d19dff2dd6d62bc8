package handlers

import (
	"net/http"

	"gym_club_backend/internal/services"
	"gym_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReviewHandler holds the review service.
type ReviewHandler struct {
	reviewService services.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(rs services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: rs}
}

// GetMyReviews lists the caller's reviews.
func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	reviews, err := h.reviewService.MyReviews(actor.UserID)
	if err != nil {
		respondServiceError(c, err, "GetMyReviews")
		return
	}
	utils.RespondList(c, reviews, len(reviews))
}

// UpdateReview edits the caller's own review.
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateReviewRequest
	if !bindJSON(c, &req, "UpdateReview") {
		return
	}
	review, err := h.reviewService.UpdateReview(reviewID, actor.UserID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateReview")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Review updated", review)
}

// DeleteReview removes a review (owner or admin).
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.reviewService.DeleteReview(reviewID, actor); err != nil {
		respondServiceError(c, err, "DeleteReview")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Review deleted", nil)
}
