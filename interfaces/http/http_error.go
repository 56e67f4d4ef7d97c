package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lently/domain/model"
	"lently/infrastructure/logger"
)

// writeError maps domain sentinel errors onto HTTP statuses. Anything
// unrecognized is reported as an internal error without leaking details.
func writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidSourceReference):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrQuotaExceeded):
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		logger.GetLogger().WithField("path", ctx.FullPath()).WithField("error", err).Error("Request failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// requireUser returns the authenticated user id, aborting with 401 when the
// middleware did not set one.
func requireUser(ctx *gin.Context) (string, bool) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: missing user_id"})
		return "", false
	}
	return userID, true
}
