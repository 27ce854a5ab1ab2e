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

	appbilling "github.com/microcredit/backend/internal/application/billing"
	appclient "github.com/microcredit/backend/internal/application/client"
	appfinance "github.com/microcredit/backend/internal/application/finance"
	appidentity "github.com/microcredit/backend/internal/application/identity"
	applending "github.com/microcredit/backend/internal/application/lending"
	appreport "github.com/microcredit/backend/internal/application/report"
	"github.com/microcredit/backend/internal/infrastructure/auth"
	"github.com/microcredit/backend/internal/infrastructure/cache"
	"github.com/microcredit/backend/internal/infrastructure/config"
	"github.com/microcredit/backend/internal/infrastructure/logger"
	"github.com/microcredit/backend/internal/infrastructure/persistence"
	"github.com/microcredit/backend/internal/interfaces/http/handler"
	"github.com/microcredit/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	gormLogLevel := gormlogger.Warn
	if cfg.App.Env == "development" {
		gormLogLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, gormLogLevel))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	var (
		summaryCache appreport.SummaryCache
		invalidator  appbilling.DashboardInvalidator
	)
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisSummaryCache(cfg.Redis, cfg.Cache.SummaryTTL, log)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisCache.Close() //nolint:errcheck
		summaryCache = redisCache
		invalidator = redisCache
		log.Info("Dashboard cache enabled", zap.Duration("ttl", cfg.Cache.SummaryTTL))
	}

	clientRepo := persistence.NewGormClientRepository(db.DB)
	loanRepo := persistence.NewGormLoanRepository(db.DB)
	installmentRepo := persistence.NewGormInstallmentRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	txScope := persistence.NewGormReceiptTransactionScope(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)

	authService := appidentity.NewAuthService(userRepo, jwtService, appidentity.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
	}, log)
	userService := appidentity.NewUserService(userRepo, log)
	clientService := appclient.NewService(clientRepo, loanRepo)
	loanService := applending.NewService(loanRepo, installmentRepo, clientRepo)
	receiptService := appbilling.NewService(loanRepo, installmentRepo, receiptRepo, txScope, invalidator)
	expenseService := appfinance.NewService(expenseRepo)
	reportService := appreport.NewService(reportRepo, summaryCache)

	engine := router.Setup(cfg, log, jwtService, router.Handlers{
		System:  handler.NewSystemHandler(db, cfg.App.Name, version, log),
		Auth:    handler.NewAuthHandler(authService, log),
		User:    handler.NewUserHandler(userService, log),
		Client:  handler.NewClientHandler(clientService, log),
		Loan:    handler.NewLoanHandler(loanService, log),
		Receipt: handler.NewReceiptHandler(receiptService, log),
		Expense: handler.NewExpenseHandler(expenseService, log),
		Report:  handler.NewReportHandler(reportService, log),
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
