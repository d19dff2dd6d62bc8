package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"gym_club_backend/internal/models"
	"gym_club_backend/internal/services"
	"gym_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClassHandler serves the public class catalogue and class management.
type ClassHandler struct {
	classService  services.ClassService
	reviewService services.ReviewService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(cs services.ClassService, rs services.ReviewService) *ClassHandler {
	return &ClassHandler{classService: cs, reviewService: rs}
}

// parseClassFilters reads the optional list filters from the query string.
func parseClassFilters(c *gin.Context) (models.ClassFilters, bool) {
	var filters models.ClassFilters
	if trainerIDStr := c.Query("trainer_id"); trainerIDStr != "" {
		id, err := utils.StrToInt64(trainerIDStr)
		if err != nil {
			utils.RespondValidationFailed(c, "Invalid trainer_id format.")
			return filters, false
		}
		filters.TrainerID = &id
	}
	if classType := strings.TrimSpace(c.Query("class_type")); classType != "" {
		filters.ClassType = &classType
	}
	if difficulty := strings.TrimSpace(c.Query("difficulty")); difficulty != "" {
		filters.Difficulty = &difficulty
	}
	if dateFromStr := c.Query("date_from"); dateFromStr != "" {
		from, err := time.ParseInLocation(models.DateLayout, dateFromStr, time.Local)
		if err != nil {
			utils.RespondValidationFailed(c, "Invalid date_from format. Use YYYY-MM-DD.")
			return filters, false
		}
		filters.ScheduleFrom = &from
	}
	if dateToStr := c.Query("date_to"); dateToStr != "" {
		to, err := time.ParseInLocation(models.DateLayout, dateToStr, time.Local)
		if err != nil {
			utils.RespondValidationFailed(c, "Invalid date_to format. Use YYYY-MM-DD.")
			return filters, false
		}
		// inclusive of the whole day
		to = to.AddDate(0, 0, 1)
		filters.ScheduleTo = &to
	}
	return filters, true
}

// ListClasses lists classes matching the query filters.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	filters, ok := parseClassFilters(c)
	if !ok {
		return
	}
	classes, err := h.classService.ListClasses(filters)
	if err != nil {
		respondServiceError(c, err, "ListClasses")
		return
	}
	utils.RespondList(c, classes, len(classes))
}

// GetClass returns one class.
func (h *ClassHandler) GetClass(c *gin.Context) {
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	class, err := h.classService.GetClass(classID)
	if err != nil {
		respondServiceError(c, err, "GetClass")
		return
	}
	utils.RespondOK(c, class)
}

// GetAvailableSlots returns capacity minus bookings for a class.
func (h *ClassHandler) GetAvailableSlots(c *gin.Context) {
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	slots, err := h.classService.GetAvailableSlots(classID)
	if err != nil {
		respondServiceError(c, err, "GetAvailableSlots")
		return
	}
	utils.RespondOK(c, gin.H{"class_id": classID, "available_slots": slots})
}

// GetParticipants lists the members booked into a class (owner trainer or admin).
func (h *ClassHandler) GetParticipants(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	members, err := h.classService.GetClassMembers(classID, actor)
	if err != nil {
		respondServiceError(c, err, "GetParticipants")
		return
	}
	utils.RespondList(c, members, len(members))
}

// CreateClass creates a class owned by the calling trainer.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req services.CreateClassRequest
	if !bindJSON(c, &req, "CreateClass") {
		return
	}
	class, err := h.classService.CreateClass(actor.UserID, req)
	if err != nil {
		respondServiceError(c, err, "CreateClass")
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "Class created", class)
}

// UpdateClass updates a class owned by the calling trainer.
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateClassRequest
	if !bindJSON(c, &req, "UpdateClass") {
		return
	}
	class, err := h.classService.UpdateClass(classID, actor.UserID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateClass")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Class updated", class)
}

// DeleteClass deletes a class. Classes with bookings need ?cascade=true.
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	cascade, _ := strconv.ParseBool(c.DefaultQuery("cascade", "false"))
	if err := h.classService.DeleteClass(classID, actor, cascade); err != nil {
		respondServiceError(c, err, "DeleteClass")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Class deleted", nil)
}

// GetReviews lists a class's reviews with the average rating.
func (h *ClassHandler) GetReviews(c *gin.Context) {
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reviews, err := h.reviewService.ListClassReviews(classID)
	if err != nil {
		respondServiceError(c, err, "GetReviews")
		return
	}
	utils.RespondOK(c, reviews)
}

// CreateReview posts the caller's review of a class.
func (h *ClassHandler) CreateReview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.ReviewRequest
	if !bindJSON(c, &req, "CreateReview") {
		return
	}
	review, err := h.reviewService.CreateReview(classID, actor.UserID, req)
	if err != nil {
		respondServiceError(c, err, "CreateReview")
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "Review submitted", review)
}
