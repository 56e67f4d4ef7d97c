package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lently/infrastructure/filecsv"
	"lently/infrastructure/logger"
	"lently/usecase"
)

type IVideoHandler interface {
	ListVideos(ctx *gin.Context)
	GetVideo(ctx *gin.Context)
	ListComments(ctx *gin.Context)
	ExportComments(ctx *gin.Context)
	CommonQuestions(ctx *gin.Context)
}

type VideoHandler struct {
	syncUsecase  usecase.ISyncUsecase
	replyUsecase usecase.IReplyUsecase
}

func NewVideoHandler(syncUsecase usecase.ISyncUsecase, replyUsecase usecase.IReplyUsecase) IVideoHandler {
	return &VideoHandler{syncUsecase: syncUsecase, replyUsecase: replyUsecase}
}

func (h *VideoHandler) ListVideos(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	res, err := h.syncUsecase.ListVideos(ctx.Request.Context(), userID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func (h *VideoHandler) GetVideo(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	video, err := h.syncUsecase.GetVideo(ctx.Request.Context(), userID, ctx.Param("videoId"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, video)
}

// ListComments supports ?category= and ?limit= query filters.
func (h *VideoHandler) ListComments(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	limit := 100
	if raw := ctx.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	res, err := h.syncUsecase.ListComments(ctx.Request.Context(), userID, ctx.Param("videoId"), ctx.Query("category"), limit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

// ExportComments downloads the video's comments as a CSV file.
func (h *VideoHandler) ExportComments(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	videoID := ctx.Param("videoId")
	res, err := h.syncUsecase.ListComments(ctx.Request.Context(), userID, videoID, ctx.Query("category"), 0)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-comments.csv", videoID))
	if err := filecsv.WriteComments(ctx.Writer, res.Comments); err != nil {
		logger.GetLogger().WithField("videoId", videoID).WithField("error", err).Error("CSV export failed")
	}
}

func (h *VideoHandler) CommonQuestions(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	// Ownership gate before reading another user's comment pool.
	if _, err := h.syncUsecase.GetVideo(ctx.Request.Context(), userID, ctx.Param("videoId")); err != nil {
		writeError(ctx, err)
		return
	}
	questions, err := h.replyUsecase.ExtractCommonQuestions(ctx.Request.Context(), ctx.Param("videoId"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"questions": questions})
}
