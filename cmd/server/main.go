package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/seekho-platform/activation-backend/internal/config"
	"github.com/seekho-platform/activation-backend/internal/db"
	httpHandlers "github.com/seekho-platform/activation-backend/internal/http/handlers"
	httpRouter "github.com/seekho-platform/activation-backend/internal/http/router"
	"github.com/seekho-platform/activation-backend/internal/identity"
	"github.com/seekho-platform/activation-backend/internal/logger"
	"github.com/seekho-platform/activation-backend/internal/notify"
	"github.com/seekho-platform/activation-backend/internal/repository"
	"github.com/seekho-platform/activation-backend/internal/service"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Хранилище кодов: postgres, либо in-memory в development без базы.
	var (
		store  service.OTPStore
		dbConn *sqlx.DB
	)
	if cfg.DatabaseURL != "" {
		dbConn, err = db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("main: ошибка подключения к базе: %v", err)
		}
		defer safeClose(dbConn)

		if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
			log.Fatalf("main: ошибка миграций: %v", err)
		}

		store = repository.NewOTPRepository(dbConn)
	} else {
		log.Printf("main: DATABASE_URL не задан, коды живут в памяти процесса")
		store = repository.NewMemoryOTPRepository()
	}

	// Внешние коллабораторы.
	notifier := notify.NewResendClient(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)
	provisioner := identity.NewClient(cfg.IdentityBaseURL, cfg.IdentityServiceKey)

	// Сервисы.
	issuer := service.NewIssuerService(store, notifier, cfg.OTPTTL, cfg.StoreTimeout, cfg.NotifyTimeout)
	verifier := service.NewVerifierService(store, provisioner, cfg.StoreTimeout, cfg.ProvisionTimeout)

	// Фоновая уборка просроченных записей. Необязательна для
	// корректности, поэтому её отказ не фатален.
	service.NewSweeper(store, cfg.SweepInterval).Start(ctx)

	// HTTP хэндлеры.
	otpHandler := httpHandlers.NewOTPHandler(issuer, verifier)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, otpHandler, healthHandler)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
