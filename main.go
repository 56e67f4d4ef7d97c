package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"lently/infrastructure/cache"
	geminiclient "lently/infrastructure/clients/gemini"
	youtubeclient "lently/infrastructure/clients/youtube"
	"lently/infrastructure/configuration"
	"lently/infrastructure/events"
	"lently/infrastructure/logger"
	"lently/infrastructure/persistence"
	"lently/infrastructure/realtime"
	"lently/infrastructure/scheduler"
	httpHandler "lently/interfaces/http"
	"lently/server"
	"lently/usecase"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	mongoDb, err := persistence.NewMongoDb(
		configuration.C.Database.Mongo.Host,
		configuration.C.Database.Mongo.Port,
		configuration.C.Database.Mongo.User,
		configuration.C.Database.Mongo.Password,
		configuration.C.Database.Mongo.Name,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to MongoDB")
		os.Exit(1)
	}
	logger.GetLogger().Info("MongoDB connected successfully")

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - answer caching disabled")
		redisClient = nil
	}

	pubSubClient, err := events.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - continuing without sync events")
		pubSubClient = nil
	}

	db := mongoDb.Database(configuration.C.Database.Mongo.Name)
	syncJobRepository := persistence.NewSyncJobRepository(db)
	videoRepository := persistence.NewVideoRepository(db)
	commentRepository := persistence.NewCommentRepository(db)
	alertRepository := persistence.NewAlertRepository(db)
	conversationRepository := persistence.NewConversationRepository(db)
	replyRepository := persistence.NewReplyRepository(db)
	userRepository := persistence.NewUserRepository(db)
	oauthTokenRepository := persistence.NewOAuthTokenRepository(db)

	youtubeConfig := configuration.GetYouTubeConfig()
	youtubeClient, err := youtubeclient.NewYouTubeClient(ctx, &youtubeclient.Config{
		APIKey:       youtubeConfig.APIKey,
		ClientID:     youtubeConfig.ClientID,
		ClientSecret: youtubeConfig.ClientSecret,
		RedirectURL:  youtubeConfig.RedirectURL,
	}, oauthTokenRepository)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot initialize YouTube client")
		os.Exit(1)
	}

	geminiConfig := configuration.GetGeminiConfig()
	generativeModel := geminiclient.NewGeminiClient(geminiConfig.BaseURL, geminiConfig.APIKey, geminiConfig.Model)

	answerCache := cache.NewAnswerCache(redisClient)
	eventPublisher := events.NewPublisher(pubSubClient)
	progressHub := realtime.NewProgressHub()

	usageUsecase := usecase.NewUsageUsecase(userRepository)
	analysisUsecase := usecase.NewAnalysisUsecase(generativeModel)
	alertUsecase := usecase.NewAlertUsecase(alertRepository, commentRepository, videoRepository, eventPublisher)
	replyUsecase := usecase.NewReplyUsecase(replyRepository, commentRepository, analysisUsecase, youtubeClient)
	syncUsecase := usecase.NewSyncUsecase(
		youtubeClient,
		syncJobRepository,
		videoRepository,
		commentRepository,
		eventPublisher,
		analysisUsecase,
		usageUsecase,
		alertUsecase,
		replyUsecase,
		progressHub,
		configuration.C.Sync.BatchSize,
		configuration.C.Sync.ReanalyzeBatchSize,
	)
	chatUsecase := usecase.NewChatUsecase(
		videoRepository,
		commentRepository,
		conversationRepository,
		answerCache,
		analysisUsecase,
		usageUsecase,
	)
	userUsecase := usecase.NewUserUsecase(userRepository)

	router := server.InitiateRouter(
		httpHandler.NewUserHandler(userUsecase),
		httpHandler.NewSyncHandler(syncUsecase),
		httpHandler.NewVideoHandler(syncUsecase, replyUsecase),
		httpHandler.NewChatHandler(chatUsecase),
		httpHandler.NewAlertHandler(alertUsecase),
		httpHandler.NewReplyHandler(replyUsecase),
		httpHandler.NewUsageHandler(usageUsecase),
		progressHub,
		userRepository,
	)

	autoSync := scheduler.NewAutoSyncScheduler(
		userRepository,
		videoRepository,
		syncUsecase,
		time.Duration(configuration.C.Sync.AutoSyncMinInterval)*time.Hour,
	)
	if err := autoSync.Start(configuration.C.Sync.AutoSyncCron); err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot start auto-sync scheduler")
	}

	port := app.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	autoSync.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}
	if pubSubClient != nil {
		_ = pubSubClient.Close()
	}
	if err := mongoDb.Disconnect(shutdownCtx); err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB disconnect failed")
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
