package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	ServerPort     string        `env:"SERVER_PORT"` // дефолт ставим вручную ниже
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Настройки для MinIO
	MinioEndpoint        string `env:"MINIO_ENDPOINT,required"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID,required"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY,required"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME,required"`
	MinioRegion          string `env:"MINIO_REGION,required"`
	// Базовый URL, по которому объекты бакета доступны на чтение.
	// Из него собираются отображаемые imageURL ленты и галереи.
	MinioPublicURL string `env:"MINIO_PUBLIC_URL" envDefault:"http://localhost:9000"`

	// Настройки внешнего API генерации изображений
	ReplicateAPIToken    string        `env:"REPLICATE_API_TOKEN,required"`
	ReplicateBaseURL     string        `env:"REPLICATE_BASE_URL" envDefault:"https://api.replicate.com"`
	ReplicateModel       string        `env:"REPLICATE_MODEL" envDefault:"black-forest-labs/flux-schnell"`
	GeneratePollInterval time.Duration `env:"GENERATE_POLL_INTERVAL" envDefault:"1s"`
	GenerateMaxAttempts  int           `env:"GENERATE_MAX_ATTEMPTS" envDefault:"120"`

	// Настройки identity-провайдера (OIDC)
	OIDCIssuerURL string `env:"OIDC_ISSUER_URL,required"`
	OIDCClientID  string `env:"OIDC_CLIENT_ID,required"`
	// Шаблон URL аватара: %s заменяется на id пользователя.
	AvatarURLTemplate string `env:"AVATAR_URL_TEMPLATE" envDefault:"https://i.pravatar.cc/150?u=%s"`

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL,required"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"activity_events"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.GenerateMaxAttempts <= 0 {
		cfg.GenerateMaxAttempts = 120
	}

	return &cfg, nil
}
