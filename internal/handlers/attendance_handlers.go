package handlers

import (
	"net/http"

	"gym_club_backend/internal/services"
	"gym_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AttendanceHandler holds the attendance service.
type AttendanceHandler struct {
	attendanceService services.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(as services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: as}
}

// MarkAttendance records attendance for a booking in one of the trainer's classes.
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req services.MarkAttendanceRequest
	if !bindJSON(c, &req, "MarkAttendance") {
		return
	}
	attendance, err := h.attendanceService.MarkAttendance(req.BookingID, actor.UserID, *req.Attended)
	if err != nil {
		respondServiceError(c, err, "MarkAttendance")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Attendance recorded", attendance)
}

// MarkClassAttendance is the nested trainer route
// /trainer/classes/:id/attendance/:booking_id.
func (h *AttendanceHandler) MarkClassAttendance(c *gin.Context) {
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
	var req struct {
		Attended *bool `json:"attended" binding:"required"`
	}
	if !bindJSON(c, &req, "MarkClassAttendance") {
		return
	}
	attendance, err := h.attendanceService.MarkClassAttendance(classID, bookingID, actor.UserID, *req.Attended)
	if err != nil {
		respondServiceError(c, err, "MarkClassAttendance")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Attendance recorded", attendance)
}

// GetMyAttendance returns the calling member's attendance history and statistics.
func (h *AttendanceHandler) GetMyAttendance(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	report, err := h.attendanceService.MyAttendance(actor.UserID)
	if err != nil {
		respondServiceError(c, err, "GetMyAttendance")
		return
	}
	utils.RespondOK(c, report)
}

// GetClassAttendance returns attendance for a class (owner trainer or admin).
func (h *AttendanceHandler) GetClassAttendance(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	report, err := h.attendanceService.ClassAttendance(classID, actor)
	if err != nil {
		respondServiceError(c, err, "GetClassAttendance")
		return
	}
	utils.RespondOK(c, report)
}
