package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lently/usecase"
)

type IAlertHandler interface {
	ListAlerts(ctx *gin.Context)
	MarkRead(ctx *gin.Context)
	CheckVideo(ctx *gin.Context)
}

type AlertHandler struct {
	alertUsecase usecase.IAlertUsecase
}

func NewAlertHandler(alertUsecase usecase.IAlertUsecase) IAlertHandler {
	return &AlertHandler{alertUsecase: alertUsecase}
}

// ListAlerts supports ?unread=true to filter unread alerts.
func (h *AlertHandler) ListAlerts(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	alerts, err := h.alertUsecase.ListAlerts(ctx.Request.Context(), userID, ctx.Query("unread") == "true")
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"alerts": alerts, "total": len(alerts)})
}

func (h *AlertHandler) MarkRead(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	if err := h.alertUsecase.MarkRead(ctx.Request.Context(), userID, ctx.Param("alertId")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"read": true})
}

// CheckVideo triggers the alert checks for one video outside the sync cycle.
func (h *AlertHandler) CheckVideo(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	if err := h.alertUsecase.CheckVideo(ctx.Request.Context(), userID, ctx.Param("videoId")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"checked": true})
}
