package handlers

import (
	"net/http"

	"gym_club_backend/internal/services"
	"gym_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MembershipHandler holds the membership service.
type MembershipHandler struct {
	membershipService services.MembershipService
}

// NewMembershipHandler creates a new MembershipHandler.
func NewMembershipHandler(ms services.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: ms}
}

// GetPlans lists the membership plans.
func (h *MembershipHandler) GetPlans(c *gin.Context) {
	plans := h.membershipService.GetPlans()
	utils.RespondList(c, plans, len(plans))
}

// GetStatus returns the caller's membership status.
func (h *MembershipHandler) GetStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	status, err := h.membershipService.GetMembershipStatus(actor.UserID)
	if err != nil {
		respondServiceError(c, err, "GetMembershipStatus")
		return
	}
	utils.RespondOK(c, status)
}

// Subscribe activates a plan directly, without a payment.
func (h *MembershipHandler) Subscribe(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req services.SubscribeRequest
	if !bindJSON(c, &req, "Subscribe") {
		return
	}
	status, err := h.membershipService.Subscribe(actor.UserID, req.PlanID)
	if err != nil {
		respondServiceError(c, err, "Subscribe")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Membership activated", status)
}

// ListMembers lists every member with a reconciled status (admin).
func (h *MembershipHandler) ListMembers(c *gin.Context) {
	members, err := h.membershipService.ListMembers()
	if err != nil {
		respondServiceError(c, err, "ListMembers")
		return
	}
	utils.RespondList(c, members, len(members))
}

// GrantMembership sets a member's plan (admin).
func (h *MembershipHandler) GrantMembership(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.GrantMembershipRequest
	if !bindJSON(c, &req, "GrantMembership") {
		return
	}
	status, err := h.membershipService.GrantMembership(userID, req.MembershipPlan)
	if err != nil {
		respondServiceError(c, err, "GrantMembership")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Membership updated", status)
}
