package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lently/domain/dto"
	"lently/usecase"
)

type IReplyHandler interface {
	GenerateReply(ctx *gin.Context)
	ListReplies(ctx *gin.Context)
	UseReply(ctx *gin.Context)
	PostReply(ctx *gin.Context)
}

type ReplyHandler struct {
	replyUsecase usecase.IReplyUsecase
}

func NewReplyHandler(replyUsecase usecase.IReplyUsecase) IReplyHandler {
	return &ReplyHandler{replyUsecase: replyUsecase}
}

func (h *ReplyHandler) GenerateReply(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	var req dto.GenerateReplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	reply, err := h.replyUsecase.GenerateReply(ctx.Request.Context(), userID, req.Question, req.VideoID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, reply)
}

func (h *ReplyHandler) ListReplies(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	replies, err := h.replyUsecase.ListReplies(ctx.Request.Context(), userID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"replies": replies, "total": len(replies)})
}

func (h *ReplyHandler) UseReply(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	if err := h.replyUsecase.UseReply(ctx.Request.Context(), userID, ctx.Param("replyId")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"used": true})
}

// PostReply publishes the reply under the given YouTube comment.
func (h *ReplyHandler) PostReply(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	var req dto.PostReplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.replyUsecase.PostReply(ctx.Request.Context(), userID, ctx.Param("replyId"), req.ParentCommentID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"posted": true})
}
