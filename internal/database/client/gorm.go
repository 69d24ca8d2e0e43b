package client

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/ArtGenApp/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewGorm открывает GORM-подключение поверх того же DSN.
// GORM-хранилище обслуживает таблицы лайков и комментариев;
// TranslateError нужен, чтобы дубликат составного ключа лайка
// приходил как gorm.ErrDuplicatedKey, а не сырой ошибкой драйвера.
func NewGorm(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	start := time.Now()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("failed to open GORM connection", "error", err)
		return nil, fmt.Errorf("ошибка открытия GORM-соединения с БД: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка доступа к пулу GORM-соединений: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("GORM connection established successfully",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return db, nil
}
