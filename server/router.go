package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lently/domain/repository"
	"lently/infrastructure/realtime"
	httpHandler "lently/interfaces/http"
	"lently/interfaces/middleware"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	syncHandler httpHandler.ISyncHandler,
	videoHandler httpHandler.IVideoHandler,
	chatHandler httpHandler.IChatHandler,
	alertHandler httpHandler.IAlertHandler,
	replyHandler httpHandler.IReplyHandler,
	usageHandler httpHandler.IUsageHandler,
	progressHub *realtime.Hub,
	userRepository repository.IUser,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "https://app.lently.io"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository))

	// Sync pipeline
	api.POST("/videos/analyze", syncHandler.AnalyzeVideo)
	api.GET("/sync/jobs/:jobId", syncHandler.GetJobStatus)
	api.POST("/videos/:videoId/reanalyze", syncHandler.ReanalyzeVideo)
	api.GET("/sync/events", progressHub.Serve)

	// Videos and comments
	api.GET("/videos", videoHandler.ListVideos)
	api.GET("/videos/:videoId", videoHandler.GetVideo)
	api.GET("/videos/:videoId/comments", videoHandler.ListComments)
	api.GET("/videos/:videoId/comments/export", videoHandler.ExportComments)
	api.GET("/videos/:videoId/common-questions", videoHandler.CommonQuestions)

	// Chat
	api.POST("/chat/ask", chatHandler.Ask)
	api.GET("/chat/suggested-questions", chatHandler.SuggestedQuestions)
	api.DELETE("/videos/:videoId/answer-cache", chatHandler.ClearCache)

	// Alerts
	api.GET("/alerts", alertHandler.ListAlerts)
	api.POST("/alerts/:alertId/read", alertHandler.MarkRead)
	api.POST("/videos/:videoId/alerts/check", alertHandler.CheckVideo)

	// AI replies
	api.POST("/replies/generate", replyHandler.GenerateReply)
	api.GET("/replies", replyHandler.ListReplies)
	api.POST("/replies/:replyId/use", replyHandler.UseReply)
	api.POST("/replies/:replyId/post", replyHandler.PostReply)

	// Usage and plan
	api.GET("/usage", usageHandler.GetUsage)
	api.PUT("/plan", usageHandler.UpdatePlan)

	return router
}
