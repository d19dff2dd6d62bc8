package handlers

import (
	"net/http"

	"gym_club_backend/internal/services"
	"gym_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Register handles account sign-up.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !bindJSON(c, &req, "Register") {
		return
	}
	resp, err := h.authService.Register(req)
	if err != nil {
		respondServiceError(c, err, "Register")
		return
	}
	message := "Registration successful"
	if resp.Token == "" {
		message = "Registration successful. Your trainer account is awaiting admin approval."
	}
	utils.RespondMessage(c, http.StatusCreated, message, resp)
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req, "Login") {
		return
	}
	resp, err := h.authService.Login(req)
	if err != nil {
		respondServiceError(c, err, "Login")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Login successful", resp)
}

// Logout is stateless; the client discards its token.
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.RespondMessage(c, http.StatusOK, "Logout successful", nil)
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(actor.UserID)
	if err != nil {
		respondServiceError(c, err, "Me")
		return
	}
	utils.RespondOK(c, user)
}

// UpdateProfile handles updates to name, phone and address.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req services.UpdateProfileRequest
	if !bindJSON(c, &req, "UpdateProfile") {
		return
	}
	user, err := h.authService.UpdateProfile(actor.UserID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateProfile")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Profile updated", user)
}

// ChangePassword handles password changes.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req services.ChangePasswordRequest
	if !bindJSON(c, &req, "ChangePassword") {
		return
	}
	if err := h.authService.ChangePassword(actor.UserID, req); err != nil {
		respondServiceError(c, err, "ChangePassword")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Password changed", nil)
}
