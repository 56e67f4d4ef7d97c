package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lently/domain/dto"
	"lently/usecase"
)

type IChatHandler interface {
	Ask(ctx *gin.Context)
	SuggestedQuestions(ctx *gin.Context)
	ClearCache(ctx *gin.Context)
}

type ChatHandler struct {
	chatUsecase usecase.IChatUsecase
}

func NewChatHandler(chatUsecase usecase.IChatUsecase) IChatHandler {
	return &ChatHandler{chatUsecase: chatUsecase}
}

func (h *ChatHandler) Ask(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	var req dto.AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	res, err := h.chatUsecase.Ask(ctx.Request.Context(), userID, &req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func (h *ChatHandler) SuggestedQuestions(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.chatUsecase.SuggestedQuestions())
}

func (h *ChatHandler) ClearCache(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	if err := h.chatUsecase.ClearAnswerCache(ctx.Request.Context(), userID, ctx.Param("videoId")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cleared": true})
}
