package handlers

import (
	"net/http"

	"gym_club_backend/internal/services"
	"gym_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TrainerHandler serves the trainer's own class management views.
type TrainerHandler struct {
	classService services.ClassService
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(cs services.ClassService) *TrainerHandler {
	return &TrainerHandler{classService: cs}
}

// GetMyClasses lists the trainer's classes with their rosters.
// Classes that have already ended are cleaned up first.
func (h *TrainerHandler) GetMyClasses(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	classes, err := h.classService.ListTrainerClasses(actor.UserID)
	if err != nil {
		respondServiceError(c, err, "GetMyClasses")
		return
	}
	utils.RespondList(c, classes, len(classes))
}

// CleanupExpiredClasses removes the trainer's finished classes,
// marking unrecorded bookings absent.
func (h *TrainerHandler) CleanupExpiredClasses(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	cleaned, err := h.classService.CleanupExpiredClasses(actor.UserID)
	if err != nil {
		respondServiceError(c, err, "CleanupExpiredClasses")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Expired classes cleaned up", gin.H{
		"deleted_classes": cleaned,
		"count":           len(cleaned),
	})
}

func (h *TrainerHandler) GetClassMembers(c *gin.Context) {
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
		respondServiceError(c, err, "GetClassMembers")
		return
	}
	utils.RespondList(c, members, len(members))
}

// RemoveMember deletes a booking from one of the trainer's classes.
func (h *TrainerHandler) RemoveMember(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "booking_id")
	if !ok {
		return
	}
	if err := h.classService.RemoveMember(classID, bookingID, actor.UserID); err != nil {
		respondServiceError(c, err, "RemoveMember")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Member removed from class", nil)
}
