package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/ArtGenApp/internal/config"
	"github.com/GoArmGo/ArtGenApp/internal/core/ports"
	"github.com/GoArmGo/ArtGenApp/internal/usecase"
	"github.com/jmoiron/sqlx"
)

// Authenticator проверяет bearer-токен и возвращает идентификатор пользователя.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (string, error)
}

type App struct {
	Config            *config.Config
	logger            *slog.Logger
	db                *sqlx.DB
	galleryUseCase    usecase.GalleryUseCase
	communityUseCase  usecase.CommunityUseCase
	generationUseCase usecase.GenerationUseCase
	identity          Authenticator
	activityPublisher ports.ActivityPublisher
	activityConsumer  ports.ActivityConsumer
	notifications     ports.NotificationStorage
	generateLimiter   chan struct{}
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	db *sqlx.DB,
	galleryUseCase usecase.GalleryUseCase,
	communityUseCase usecase.CommunityUseCase,
	generationUseCase usecase.GenerationUseCase,
	identity Authenticator,
	activityPublisher ports.ActivityPublisher,
	activityConsumer ports.ActivityConsumer,
	notifications ports.NotificationStorage,
	generateLimiter chan struct{},
) *App {
	return &App{
		Config:            cfg,
		logger:            logger,
		db:                db,
		galleryUseCase:    galleryUseCase,
		communityUseCase:  communityUseCase,
		generationUseCase: generationUseCase,
		identity:          identity,
		activityPublisher: activityPublisher,
		activityConsumer:  activityConsumer,
		notifications:     notifications,
		generateLimiter:   generateLimiter,
	}
}

// LoggerIns возвращает основной логгер приложения.
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

func (a *App) Run(ctx context.Context, mode *string) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting application", "mode", *mode)

	var err error

	switch *mode {
	case "server":
		err = a.runServer(ctx)

	case "worker":
		err = a.runWorker(ctx)

	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", *mode)
	}

	if err != nil {
		return err
	}

	a.logger.Info("shutting down")

	// аккуратно закрываем ресурсы
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown error", "error", closeErr)
	}

	a.logger.Info("stopped gracefully")
	return nil
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия БД: %w", err)
		}
	}

	// если publisher имеет метод Close — вызываем его
	if closer, ok := a.activityPublisher.(interface{ Close() }); ok {
		closer.Close()
	}

	return nil
}
