package handlers

import (
	"net/http"

	"gym_club_backend/internal/services"
	"gym_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler serves admin account management and trainer approval.
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us services.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// GetUsers lists accounts, optionally filtered by ?role=.
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Query("role"))
	if err != nil {
		respondServiceError(c, err, "GetUsers")
		return
	}
	utils.RespondList(c, users, len(users))
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetUser(userID)
	if err != nil {
		respondServiceError(c, err, "GetUserByID")
		return
	}
	utils.RespondOK(c, user)
}

// DeleteUser removes an account and everything it owns.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(userID, actor.UserID); err != nil {
		respondServiceError(c, err, "DeleteUser")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "User deleted", nil)
}

// GetTrainers lists trainers, optionally filtered by ?status=.
func (h *UserHandler) GetTrainers(c *gin.Context) {
	trainers, err := h.userService.ListTrainers(c.Query("status"))
	if err != nil {
		respondServiceError(c, err, "GetTrainers")
		return
	}
	utils.RespondList(c, trainers, len(trainers))
}

func (h *UserHandler) ApproveTrainer(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	trainerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	trainer, err := h.userService.ApproveTrainer(trainerID, actor.UserID)
	if err != nil {
		respondServiceError(c, err, "ApproveTrainer")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Trainer approved", trainer)
}

// RejectTrainer rejects a pending trainer. The reason is optional.
func (h *UserHandler) RejectTrainer(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	trainerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.RejectTrainerRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req, "RejectTrainer") {
		return
	}
	trainer, err := h.userService.RejectTrainer(trainerID, actor.UserID, req.Reason)
	if err != nil {
		respondServiceError(c, err, "RejectTrainer")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Trainer rejected", trainer)
}
