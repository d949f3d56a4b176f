package api

import (
	"net/http"

	"jobtracker-backend/internal/auth/delivery"
	authUsecase "jobtracker-backend/internal/auth/usecase"
	emailDelivery "jobtracker-backend/internal/email/delivery"
	emailUsecase "jobtracker-backend/internal/email/usecase"
	"jobtracker-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, emailUc emailUsecase.EmailUsecase) {
	authHandler := delivery.NewAuthHandler(authUc)
	emailHandler := emailDelivery.NewEmailHandler(emailUc)

	r.Use(metrics.GinMiddleware())

	// Health check (no auth required)
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus exposition
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth routes
	auth := r.Group("/auth")
	{
		auth.GET("/login", authHandler.Login)
		auth.GET("/callback", authHandler.Callback)
		auth.POST("/logout", delivery.AuthMiddleware(authUc), authHandler.Logout)
		auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
	}

	// Email routes (protected)
	emails := r.Group("/emails")
	emails.Use(delivery.AuthMiddleware(authUc))
	{
		emails.GET("", emailHandler.GetEmails)
		emails.GET("/:id", emailHandler.GetEmailByID)
	}

	// Dashboard routes (protected)
	dashboard := r.Group("/dashboard")
	dashboard.Use(delivery.AuthMiddleware(authUc))
	{
		dashboard.GET("/stats", emailHandler.GetDashboardStats)
	}
}
