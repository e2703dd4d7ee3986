package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prepinter/internal/metrics"
	"prepinter/internal/repository"
	"prepinter/internal/service"
)

// NewRouter configura el router de Gin con middlewares y todas las rutas.
func NewRouter(
	logger *zap.Logger,
	jwtServ *service.JWTService,
	users repository.UserRepository,
	userH *UserHandler,
	interviewH *InterviewHandler,
	sessionH *SessionHandler,
	analyticsH *AnalyticsHandler,
	paymentH *PaymentHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	auth := JWTAuthMiddleware(jwtServ, users)

	usersGroup := r.Group("/api/users")
	usersGroup.POST("", userH.Register)
	usersGroup.POST("/login", userH.Login)
	usersGroup.POST("/forgotpassword", userH.ForgotPassword)
	usersGroup.POST("/verifyotp", userH.VerifyOTP)
	usersGroup.POST("/resetpassword", userH.ResetPassword)
	usersGroup.POST("/refresh", userH.RefreshToken)
	usersGroup.POST("/logout", userH.Logout)
	usersGroup.GET("/profile", auth, userH.GetProfile)
	usersGroup.PUT("/profile", auth, userH.UpdateProfile)
	usersGroup.GET("", auth, RequireAdmin(), userH.ListUsers)
	usersGroup.GET("/:id", auth, RequireAdmin(), userH.GetUser)
	usersGroup.PUT("/:id", auth, RequireAdmin(), userH.UpdateUser)
	usersGroup.DELETE("/:id", auth, RequireAdmin(), userH.DeleteUser)

	interviews := r.Group("/api/interviews", auth)
	interviews.POST("", interviewH.Start)
	interviews.POST("/start", interviewH.Start)
	interviews.POST("/skip", interviewH.Skip)
	interviews.GET("", interviewH.List)
	interviews.GET("/:id", interviewH.Get)
	interviews.PUT("/:id", interviewH.Update)
	interviews.DELETE("/:id", interviewH.Delete)
	interviews.PUT("/:id/complete", interviewH.Complete)

	session := r.Group("/api/interview", auth)
	session.GET("/question", sessionH.NextQuestion)
	session.POST("/answer", sessionH.SubmitAnswer)

	analytics := r.Group("/api/analytics", auth)
	analytics.GET("/progress", analyticsH.Progress)
	analytics.GET("/history", analyticsH.History)
	analytics.GET("/insights", analyticsH.Insights)
	analytics.GET("/latest", analyticsH.Latest)
	analytics.GET("/recommendations", analyticsH.Recommendations)

	payments := r.Group("/api/payments", auth)
	payments.POST("/create-order", paymentH.CreateOrder)
	payments.POST("/verify", paymentH.Verify)
	payments.GET("/history", paymentH.History)
	payments.GET("/subscription", paymentH.Subscription)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
