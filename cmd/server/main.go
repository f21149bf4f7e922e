package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/config"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/db"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/freelance-marketplace-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/freelance-marketplace-backend/internal/http/router"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/logger"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/repository"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/service"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/storage"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/ws"
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

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	evidenceStorage, err := storage.NewEvidenceStorage(cfg.EvidenceStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	missionRepo := repository.NewMissionRepository(dbConn)
	proposalRepo := repository.NewProposalRepository(dbConn)
	contractRepo := repository.NewContractRepository(dbConn)
	milestoneRepo := repository.NewMilestoneRepository(dbConn)
	disputeRepo := repository.NewDisputeRepository(dbConn)
	evidenceRepo := repository.NewEvidenceRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Протухшие refresh-сессии вычищаются раз в час.
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := userRepo.DeleteExpiredSessions(ctx); err != nil {
					log.Printf("main: ошибка очистки сессий: %v", err)
				}
			}
		}
	})

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	go hub.Run()

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	missionService := service.NewMissionService(missionRepo)
	proposalService := service.NewProposalService(dbConn, proposalRepo, missionRepo, contractRepo, hub)
	contractService := service.NewContractService(contractRepo, missionRepo, hub)
	milestoneService := service.NewMilestoneService(milestoneRepo, contractRepo, hub)
	disputeService := service.NewDisputeService(disputeRepo, contractRepo, hub)
	evidenceService := service.NewEvidenceService(evidenceRepo, disputeRepo, contractRepo, evidenceStorage)
	notificationService := service.NewNotificationService(notificationRepo)

	hub.SetNotificationSaver(notificationService)

	// HTTP хэндлеры и роутер.
	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Auth:         httpHandlers.NewAuthHandler(authService),
		Mission:      httpHandlers.NewMissionHandler(missionService),
		Proposal:     httpHandlers.NewProposalHandler(proposalService),
		Contract:     httpHandlers.NewContractHandler(contractService),
		Milestone:    httpHandlers.NewMilestoneHandler(milestoneService),
		Dispute:      httpHandlers.NewDisputeHandler(disputeService),
		Evidence:     httpHandlers.NewEvidenceHandler(evidenceService),
		Notification: httpHandlers.NewNotificationHandler(notificationService),
		WS:           httpHandlers.NewWSHandler(hub, tokenManager),
		Health:       httpHandlers.NewHealthHandler(dbConn),
	}, tokenManager)

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
