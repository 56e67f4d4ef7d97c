package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lently/domain/dto"
	"lently/usecase"
)

type ISyncHandler interface {
	AnalyzeVideo(ctx *gin.Context)
	GetJobStatus(ctx *gin.Context)
	ReanalyzeVideo(ctx *gin.Context)
}

type SyncHandler struct {
	syncUsecase usecase.ISyncUsecase
}

func NewSyncHandler(syncUsecase usecase.ISyncUsecase) ISyncHandler {
	return &SyncHandler{syncUsecase: syncUsecase}
}

// AnalyzeVideo starts a sync job for the URL in the request body. The job id
// comes back immediately; progress is polled or streamed.
func (h *SyncHandler) AnalyzeVideo(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	var req dto.AnalyzeVideoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.syncUsecase.StartSync(ctx.Request.Context(), userID, req.YouTubeURL)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusAccepted, res)
}

func (h *SyncHandler) GetJobStatus(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	res, err := h.syncUsecase.GetJobStatus(ctx.Request.Context(), userID, ctx.Param("jobId"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func (h *SyncHandler) ReanalyzeVideo(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	res, err := h.syncUsecase.Reanalyze(ctx.Request.Context(), userID, ctx.Param("videoId"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusAccepted, res)
}
