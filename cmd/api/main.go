// cmd/api/main.go
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sethvargo/go-retry"

	"finny/internal/auth"
	"finny/internal/config"
	"finny/internal/handler"
	"finny/internal/middleware"
	"finny/internal/notify"
	"finny/internal/reminder"
	"finny/internal/storage/postgres"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := config.MustLoad()

	pool, err := connectDB(cfg.DBConn)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := postgres.NewStorage(pool)
	tokenService := auth.NewTokenService(cfg)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handler.NewAuthHandler(store, tokenService)
	router.POST("/api/v1/register", authHandler.Register)
	router.POST("/api/v1/login", authHandler.Login)

	h := handler.NewHandler(store)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		v1.GET("/incomes", h.ListIncomes)
		v1.POST("/incomes", h.CreateIncome)
		v1.DELETE("/incomes/:id", h.DeleteIncome)

		v1.GET("/expenses", h.ListExpenses)
		v1.POST("/expenses", h.CreateExpense)
		v1.DELETE("/expenses/:id", h.DeleteExpense)

		v1.GET("/bills", h.ListBills)
		v1.POST("/bills", h.CreateBill)
		v1.GET("/bills/:id", h.GetBill)
		v1.PUT("/bills/:id", h.UpdateBill)
		v1.DELETE("/bills/:id", h.DeleteBill)
		v1.POST("/bills/:id/pay", h.PayBill)
		v1.POST("/bills/:id/pin", h.PinBill)
		v1.GET("/bills/:id/payments", h.ListBillPayments)

		v1.GET("/profile", h.GetProfile)
		v1.PUT("/profile", h.UpdateProfile)

		v1.GET("/experience", h.GetExperience)
		v1.PUT("/experience", h.SyncExperience)

		v1.GET("/dashboard", h.Dashboard)
	}

	// Bill reminder sweep (Telegram delivery is optional).
	var notifier reminder.Notifier
	if cfg.TelegramToken != "" {
		tn, err := notify.NewTelegramNotifier(cfg.TelegramToken)
		if err != nil {
			slog.Error("telegram notifier init failed", "error", err)
		} else {
			notifier = tn
			slog.Info("telegram reminders enabled")
		}
	}
	sweeper := reminder.NewSweeper(store, notifier)
	sched := cron.New()
	if _, err := sched.AddFunc(cfg.ReminderCron, sweeper.Run); err != nil {
		slog.Error("reminder schedule invalid", "error", err, "cron", cfg.ReminderCron)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	slog.Info("🚀 server started", "port", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		slog.Error("server stopped with error", "error", err)
	}
}

// connectDB opens the pool with fibonacci backoff; a cold Postgres container
// can need a few seconds at startup.
func connectDB(conn string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var pool *pgxpool.Pool
	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		p, err := pgxpool.New(ctx, conn)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return retry.RetryableError(err)
		}
		pool = p
		return nil
	})
	return pool, err
}
