package router

import (
	"github.com/gin-gonic/gin"
	"github.com/microcredit/backend/internal/infrastructure/auth"
	"github.com/microcredit/backend/internal/infrastructure/config"
	"github.com/microcredit/backend/internal/infrastructure/logger"
	"github.com/microcredit/backend/internal/interfaces/http/handler"
	"github.com/microcredit/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler the router wires up
type Handlers struct {
	System  *handler.SystemHandler
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Client  *handler.ClientHandler
	Loan    *handler.LoanHandler
	Receipt *handler.ReceiptHandler
	Expense *handler.ExpenseHandler
	Report  *handler.ReportHandler
}

// Setup builds the gin engine with the full middleware chain and routes
func Setup(cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(
		middleware.RequestID(log),
		middleware.CORS(cfg.HTTP),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.JWTAuth(jwtService, middleware.JWTAuthConfig{
			SkipPaths: []string{
				"/health",
				"/ready",
				"/api/v1/auth/login",
				"/api/v1/auth/refresh",
			},
		}),
	)

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	v1 := engine.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.Refresh)
			authGroup.GET("/me", h.Auth.Me)
			authGroup.POST("/change-password", h.Auth.ChangePassword)
		}

		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", h.User.Create)
			users.GET("", h.User.List)
			users.GET("/:id", h.User.Get)
			users.POST("/:id/reset-password", h.User.ResetPassword)
			users.POST("/:id/deactivate", h.User.Deactivate)
			users.POST("/:id/activate", h.User.Activate)
		}

		clients := v1.Group("/clients")
		{
			clients.POST("", h.Client.Create)
			clients.GET("", h.Client.List)
			clients.POST("/bulk-activate", h.Client.BulkActivate)
			clients.GET("/:id", h.Client.Get)
			clients.PUT("/:id", h.Client.Update)
			clients.DELETE("/:id", h.Client.Delete)
			clients.POST("/:id/deactivate", h.Client.Deactivate)
			clients.POST("/:id/activate", h.Client.Activate)
		}

		loans := v1.Group("/loans")
		{
			loans.POST("", h.Loan.Create)
			loans.GET("", h.Loan.List)
			loans.GET("/:id", h.Loan.Get)
			loans.POST("/:id/cancel", h.Loan.Cancel)
			loans.POST("/:id/default", h.Loan.MarkDefaulted)
			loans.POST("/:id/schedule", h.Loan.GenerateSchedule)
		}

		v1.GET("/installments", h.Loan.Schedule)

		receipts := v1.Group("/receipts")
		{
			receipts.POST("", h.Receipt.Create)
			receipts.GET("", h.Receipt.List)
			receipts.POST("/preview", h.Receipt.Preview)
			receipts.GET("/next-number", h.Receipt.NextNumber)
			receipts.GET("/:id", h.Receipt.Get)
		}

		expenses := v1.Group("/expenses")
		{
			expenses.POST("", h.Expense.Create)
			expenses.GET("", h.Expense.List)
			expenses.GET("/categories", h.Expense.Categories)
			expenses.GET("/summary", h.Expense.Summary)
			expenses.GET("/:id", h.Expense.Get)
			expenses.PUT("/:id", h.Expense.Update)
			expenses.DELETE("/:id", h.Expense.Delete)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/summary", h.Report.Summary)
		}
	}

	return engine
}
