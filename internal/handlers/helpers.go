package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"depot_backend/internal/repositories"
	"depot_backend/internal/services"
	"depot_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// actorFromContext builds the service-level Actor from the claims the auth
// middleware stored on the context.
func actorFromContext(c *gin.Context) services.Actor {
	actor := services.Actor{}
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(int64); ok {
			actor.ID = id
		}
	}
	if v, ok := c.Get("username"); ok {
		if name, ok := v.(string); ok {
			actor.Name = name
		}
	}
	if v, ok := c.Get("userRole"); ok {
		if role, ok := v.(string); ok {
			actor.Role = role
		}
	}
	return actor
}

// respondServiceError maps the service error taxonomy onto HTTP responses.
func respondServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, message, err.Error()))
	case errors.Is(err, services.ErrItemNotFound), errors.Is(err, services.ErrEntryNotFound), errors.Is(err, repositories.ErrNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, message, err.Error()))
	case errors.Is(err, services.ErrUnauthorized):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, message, err.Error()))
	case errors.Is(err, services.ErrCyclicRecipe):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, message, err.Error()))
	case errors.Is(err, services.ErrUniqueKeyExhausted), errors.Is(err, repositories.ErrDuplicateKey):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, message, err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, message, "Internal error"))
	}
}

func parsePagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 50
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if sizeStr := c.Query("page_size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 {
			pageSize = s
		}
	}
	return page, pageSize
}
