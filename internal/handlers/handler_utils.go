package handlers

import (
	"errors"
	"net/http"

	"gym_club_backend/internal/middleware"
	"gym_club_backend/internal/services"
	"gym_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps a service error onto the envelope. Anything that
// does not wrap a known kind is logged and reported as a generic 500.
func respondServiceError(c *gin.Context, err error, operation string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error()))
	case errors.Is(err, services.ErrAuthRequired):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error()))
	case errors.Is(err, services.ErrForbidden):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, err.Error()))
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error()))
	case errors.Is(err, services.ErrConflict):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConflict, err.Error()))
	default:
		utils.LogError(err, operation+": unexpected error")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Internal server error"))
	}
}

// bindJSON binds the request body, answering 400 on failure.
func bindJSON(c *gin.Context, req interface{}, operation string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.LogDebug(operation+": failed to bind JSON", map[string]interface{}{"error": err.Error()})
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := utils.StrToInt64(c.Param(name))
	if err != nil || id <= 0 {
		utils.RespondValidationFailed(c, "Invalid "+name+" format.")
		return 0, false
	}
	return id, true
}

// currentActor returns the caller or answers 401 when the context has none.
func currentActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required"))
		return services.Actor{}, false
	}
	return actor, true
}
