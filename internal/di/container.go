package di

import (
	"context"

	"github.com/GoArmGo/ArtGenApp/internal/adapter/identity"
	"github.com/GoArmGo/ArtGenApp/internal/adapter/replicate"
	"github.com/GoArmGo/ArtGenApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/ArtGenApp/internal/app"
	"github.com/GoArmGo/ArtGenApp/internal/config"
	"github.com/GoArmGo/ArtGenApp/internal/database/client"
	"github.com/GoArmGo/ArtGenApp/internal/database/storage"
	"github.com/GoArmGo/ArtGenApp/internal/logger"
	"github.com/GoArmGo/ArtGenApp/internal/rabbitmq"
	"github.com/GoArmGo/ArtGenApp/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogCfg := logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}
	slogger := logger.NewSlog(slogCfg)

	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. Инициализация PostgreSQL клиента (sqlx + миграции)
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// gorm поверх того же Postgres — для хранилища лайков и комментариев
	gormDB, err := client.NewGorm(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 3. Инициализация хранилищ
	imageStorage := storage.NewImageStorage(dbClient.DB, slogger)
	postStorage := storage.NewPostStorage(dbClient.DB, slogger)
	engagementStorage := storage.NewGormEngagementStorage(gormDB, slogger)
	notificationStorage := storage.NewNotificationStorage(dbClient.DB, slogger)

	// 4. Инициализация клиентов внешних сервисов
	identityProvider, err := identity.NewProvider(ctx, cfg, slogger)
	if err != nil {
		return nil, err
	}

	fileStorage, err := minio.NewMinioClient(cfg, slogger) // S3 / MinIO адаптер
	if err != nil {
		return nil, err
	}

	generationClient := replicate.NewAPIClient(cfg, slogger)

	// 5. Инициализация RabbitMQ клиента
	rabbitMQClient, err := rabbitmq.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	// 6. Инициализация бизнес-логики (usecases)
	galleryUseCase := usecase.NewGalleryUseCase(imageStorage, postStorage, fileStorage, rabbitMQClient, slogger)
	communityUseCase := usecase.NewCommunityUseCase(
		postStorage,
		engagementStorage,
		notificationStorage,
		fileStorage,
		identityProvider,
		rabbitMQClient,
		slogger,
	)
	generationUseCase := usecase.NewGenerationUseCase(generationClient, slogger)

	// 7. Лимитер одновременных генераций: каждая держит соединение
	// на весь цикл опроса внешнего API
	generateLimiter := make(chan struct{}, 5)

	// 8. Сборка итогового приложения
	application := app.NewApp(
		cfg,
		slogger,
		dbClient.DB,
		galleryUseCase,
		communityUseCase,
		generationUseCase,
		identityProvider,
		rabbitMQClient,
		rabbitMQClient,
		notificationStorage,
		generateLimiter,
	)

	slogger.Info("all dependencies initialized")
	return application, nil
}
