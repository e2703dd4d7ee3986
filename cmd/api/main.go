package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"prepinter/internal/config"
	"prepinter/internal/db"
	"prepinter/internal/email"
	apihttp "prepinter/internal/http"
	"prepinter/internal/llm"
	"prepinter/internal/payment"
	"prepinter/internal/repository"
	"prepinter/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	interviewRepo := repository.NewPgInterviewRepository(pool)
	paymentRepo := repository.NewPgPaymentRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)

	var llmClient llm.LLMClient
	if cfg.LLMAPIKey != "" {
		llmClient = llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, zap.NewStdLog(logger))
	} else {
		logger.Warn("llm api key not configured, using fallback question bank and default feedback")
	}

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		otpLimiter  service.OTPRateLimiter
		tokenStore  service.RefreshTokenStore
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			otpLimiter = service.NewRedisOTPRateLimiter(redisClient, 10*time.Minute, 3)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	userSvc := service.NewUserService(logger, userRepo, emailSender, otpLimiter)
	questionSvc := service.NewQuestionService(llmClient, logger)
	interviewSvc := service.NewInterviewService(logger, interviewRepo, userRepo, questionSvc, cfg.FreeTierInterviewLimit, cfg.QuestionsPerInterview)
	sessionSvc := service.NewSessionService(logger, interviewRepo, sessionRepo, llmClient)
	analyticsSvc := service.NewAnalyticsService(interviewRepo, sessionRepo)
	gateway := payment.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpaySecret, cfg.RazorpayURL)
	paymentSvc := service.NewPaymentService(logger, paymentRepo, userRepo, gateway, cfg.RazorpaySecret)

	userHandler := apihttp.NewUserHandler(logger, userSvc, jwtSvc)
	interviewHandler := apihttp.NewInterviewHandler(logger, interviewSvc, sessionSvc)
	sessionHandler := apihttp.NewSessionHandler(logger, sessionSvc)
	analyticsHandler := apihttp.NewAnalyticsHandler(logger, analyticsSvc)
	paymentHandler := apihttp.NewPaymentHandler(logger, paymentSvc)

	router := apihttp.NewRouter(logger, jwtSvc, userRepo, userHandler, interviewHandler, sessionHandler, analyticsHandler, paymentHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
