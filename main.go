package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schooltrip/config"
	"schooltrip/database"
	bookingRepo "schooltrip/database/repository/booking"
	busRepo "schooltrip/database/repository/bus"
	tourRepo "schooltrip/database/repository/tour"
	userRepo "schooltrip/database/repository/user"
	"schooltrip/handlers"
	"schooltrip/routes"
	"schooltrip/services/booking"
	"schooltrip/services/catalog"
	ai "schooltrip/services/intelligence"
	"schooltrip/services/messenger"
	"schooltrip/services/socialauth"
	"schooltrip/services/storage"
	"schooltrip/services/user"
	"schooltrip/services/wizard"
	"schooltrip/utils"
	"schooltrip/worker"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	workerConcurrency = 10
	healthInterval    = 30 * time.Second
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()
	cfg := config.AppConfig

	if err := database.InitDB(logger); err != nil {
		logger.Fatal("main: database unavailable", zap.Error(err))
	}
	db := database.DB()

	// repositories.
	tours := tourRepo.NewMongoTourRepo(db)
	buses := busRepo.NewMongoBusRepo(db)
	bookings := bookingRepo.NewMongoBookingRepo(db)
	users := userRepo.NewMongoUserRepo(db)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	for name, ensure := range map[string]func(context.Context) error{
		"bookings": bookings.EnsureIndexes,
		"buses":    buses.EnsureIndexes,
		"users":    users.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			logger.Warn("main: failed to ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}
	cancelIndex()

	var redisClients []*redis.Client
	var sessions ai.SessionStore
	var wizards wizard.Store
	if cfg.SessionBackend == "redis" {
		sessionClient, err := utils.NewRedisClient(cfg.RedisSessionDB)
		if err != nil {
			logger.Fatal("main: redis session store unavailable", zap.Error(err))
		}
		redisClients = append(redisClients, sessionClient)
		sessions = ai.NewRedisSessionStore(sessionClient, config.SessionTTL())
		wizards = wizard.NewRedisStore(sessionClient, config.SessionTTL())
	} else {
		sessions = ai.NewMemorySessionStore(cfg.SessionMaxEntries, config.SessionTTL())
		wizards = wizard.NewMemoryStore(cfg.SessionMaxEntries, config.SessionTTL())
	}
	logger.Info("Session store selected", zap.String("backend", cfg.SessionBackend))

	// services.
	var images storage.ImageStore
	cld, err := storage.NewCloudinaryImageStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder, logger)
	if err != nil {
		logger.Fatal("main: failed to initialize cloudinary storage", zap.Error(err))
	}
	if cld != nil {
		images = cld
	} else {
		logger.Warn("Cloudinary not configured, tour image uploads disabled")
	}

	tokens, err := utils.NewTokenIssuer(cfg.JWTSecret, config.TokenTTL())
	if err != nil {
		logger.Fatal("main: JWT_SECRET is required", zap.Error(err))
	}
	var verifier user.IdentityVerifier
	if cfg.GoogleClientID != "" {
		google, err := socialauth.NewGoogleVerifier(context.Background(), cfg.GoogleClientID)
		if err != nil {
			logger.Fatal("main: failed to create Google verifier", zap.Error(err))
		}
		verifier = google
	} else {
		logger.Warn("GOOGLE_CLIENT_ID not set, trusting sign-in payloads")
	}

	var generator ai.Generator = ai.DisabledGenerator{}
	var gemini *ai.GeminiGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err = ai.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, config.AITimeout())
		if err != nil {
			logger.Fatal("main: failed to create Gemini client", zap.Error(err))
		}
		generator = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, chat will answer with the apology text")
	}

	catalogSvc := catalog.NewCatalogService(tours, buses, images, logger)
	bookingSvc := booking.NewBookingService(bookings, tours, logger)
	userSvc := user.NewUserService(users, verifier, tokens, config.AdminEmailList(), logger)
	wizardSvc := wizard.NewService(wizards, bookingSvc, catalogSvc, logger)
	messengerClient := messenger.NewClient(cfg.MessengerAPIURL, cfg.PageAccessToken, logger)
	bot := ai.NewBotService(sessions, catalogSvc, generator, messengerClient, logger)
	siteChat := ai.NewSiteChatService(catalogSvc, generator, bookingSvc, logger)

	var dispatcher worker.Dispatcher
	var queue *worker.QueueDispatcher
	var messengerWorker *worker.MessengerWorker
	var inline *worker.InlineDispatcher
	if cfg.MessengerQueue == "asynq" {
		opt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB}
		queue = worker.NewQueueDispatcher(opt, logger)
		messengerWorker = worker.NewMessengerWorker(opt, workerConcurrency, bot, config.AITimeout()+10*time.Second, logger)
		if err := messengerWorker.Start(); err != nil {
			logger.Fatal("main: messenger worker failed", zap.Error(err))
		}
		dispatcher = queue
	} else {
		inline = worker.NewInlineDispatcher(bot, config.AITimeout()+10*time.Second, logger)
		dispatcher = inline
	}

	healthCtx, stopHealth := context.WithCancel(context.Background())
	utils.StartHealthMonitor(healthCtx, healthInterval, redisClients, database.MongoClient)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Tokens:   tokens,
		Users:    userSvc,
		Catalog:  handlers.NewCatalogHandler(catalogSvc, logger),
		Bookings: handlers.NewBookingHandler(bookingSvc, logger),
		Wizard:   handlers.NewWizardHandler(wizardSvc, logger),
		Auth:     handlers.NewAuthHandler(userSvc, logger),
		AI:       handlers.NewAIHandler(siteChat, logger),
		Webhook:  handlers.NewWebhookHandler(cfg.VerifyToken, cfg.MessengerAppSecret, dispatcher, logger),
		Admin:    handlers.NewAdminHandler(bookingSvc, catalogSvc, logger),
		Storage:  handlers.NewStorageHandler(catalogSvc, logger),
	}
	routes.RegisterRoutes(router, handlerBundle, config.CORSOriginList(), cfg.MaxReqPerMin, logger)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	stopHealth()

	if messengerWorker != nil {
		messengerWorker.Shutdown()
	}
	if queue != nil {
		if err := queue.Close(); err != nil {
			logger.Warn("main: failed to close task queue", zap.Error(err))
		}
	}
	if inline != nil {
		inline.Wait()
	}
	if gemini != nil {
		if err := gemini.Close(); err != nil {
			logger.Warn("main: failed to close Gemini client", zap.Error(err))
		}
	}
	for _, client := range redisClients {
		client.Close()
	}
	// The drain above may outlive the shutdown deadline.
	closeCtx, cancelClose := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelClose()
	if err := database.Close(closeCtx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
