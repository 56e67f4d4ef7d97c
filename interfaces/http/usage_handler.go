package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lently/domain/dto"
	"lently/usecase"
)

type IUsageHandler interface {
	GetUsage(ctx *gin.Context)
	UpdatePlan(ctx *gin.Context)
}

type UsageHandler struct {
	usageUsecase usecase.IUsageUsecase
}

func NewUsageHandler(usageUsecase usecase.IUsageUsecase) IUsageHandler {
	return &UsageHandler{usageUsecase: usageUsecase}
}

func (h *UsageHandler) GetUsage(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	res, err := h.usageUsecase.GetUsage(ctx.Request.Context(), userID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func (h *UsageHandler) UpdatePlan(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	var req dto.UpdatePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.usageUsecase.UpdatePlan(ctx.Request.Context(), userID, req.Plan); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"plan": req.Plan})
}
