package handlers

import (
	"net/http"

	"gym_club_backend/internal/models"
	"gym_club_backend/internal/services"
	"gym_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler holds the booking service.
type BookingHandler struct {
	bookingService services.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bs services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bs}
}

// CreateBooking books the calling member into a class.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req services.CreateBookingRequest
	if !bindJSON(c, &req, "CreateBooking") {
		return
	}
	booking, err := h.bookingService.CreateBooking(actor.UserID, req.ClassID)
	if err != nil {
		respondServiceError(c, err, "CreateBooking")
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "Class booked successfully", booking)
}

// GetMyBookings lists the calling member's bookings.
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	bookings, err := h.bookingService.ListForMember(actor.UserID)
	if err != nil {
		respondServiceError(c, err, "GetMyBookings")
		return
	}
	utils.RespondList(c, bookings, len(bookings))
}

// GetBookingByID returns a booking visible to the caller.
func (h *BookingHandler) GetBookingByID(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	booking, err := h.bookingService.GetBooking(bookingID, actor)
	if err != nil {
		respondServiceError(c, err, "GetBookingByID")
		return
	}
	utils.RespondOK(c, booking)
}

// CancelBooking deletes one of the calling member's bookings.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.bookingService.CancelBooking(bookingID, actor.UserID); err != nil {
		respondServiceError(c, err, "CancelBooking")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Booking cancelled", nil)
}

// GetBookings lists all bookings, filtered by member_id or class_id (admin).
func (h *BookingHandler) GetBookings(c *gin.Context) {
	var filters models.BookingFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, "Invalid query parameters: "+err.Error())
		return
	}
	bookings, err := h.bookingService.ListAll(filters)
	if err != nil {
		respondServiceError(c, err, "GetBookings")
		return
	}
	utils.RespondList(c, bookings, len(bookings))
}

// GetClassBookings lists the bookings of one class (admin).
func (h *BookingHandler) GetClassBookings(c *gin.Context) {
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookings, err := h.bookingService.ListForClass(classID)
	if err != nil {
		respondServiceError(c, err, "GetClassBookings")
		return
	}
	utils.RespondList(c, bookings, len(bookings))
}
