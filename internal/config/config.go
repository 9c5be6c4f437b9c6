package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config хранит все конфигурационные параметры приложения.
// Читается один раз при старте и дальше только передается в конструкторы.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`

	// Если DATABASE_URL не задан, строка подключения собирается из этих полей
	Postgres struct {
		User     string `env:"POSTGRES_USER" envDefault:"user"`
		Password string `env:"POSTGRES_PASSWORD" envDefault:"password"`
		Host     string `env:"DB_HOST" envDefault:"db"`
		Port     string `env:"DB_PORT" envDefault:"5432"`
		Name     string `env:"POSTGRES_DB" envDefault:"library_db"`
		SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	}
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`

	ServerPort     string        `env:"SERVER_PORT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"`

	// Настройки выдачи токенов
	JWTSecretKey  string        `env:"JWT_SECRET_KEY,required"`
	TokenLifetime time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRES" envDefault:"15m"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"12"`

	// Внешний workflow-движок (n8n). Пустой URL не ошибка старта,
	// запрос к такому модулю получит 503.
	Workflow struct {
		RecommendURL      string        `env:"N8N_RECOMMEND_URL"`
		BasicSearchURL    string        `env:"N8N_BASIC_SEARCH_URL"`
		AdvancedSearchURL string        `env:"N8N_ADVANCED_SEARCH_URL"`
		Timeout           time.Duration `env:"N8N_TIMEOUT" envDefault:"10s"`
	}

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	SearchRateLimit    float64  `env:"SEARCH_RATE_LIMIT" envDefault:"5"`
	SearchRateBurst    int      `env:"SEARCH_RATE_BURST" envDefault:"10"`
	// X-Forwarded-For и X-Real-IP учитываются только за доверенным прокси
	TrustProxyHeaders  bool     `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Настройки для MinIO (обложки книг), необязательный блок
	Minio struct {
		Endpoint        string `env:"MINIO_ENDPOINT"`
		AccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
		SecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
		UseSSL          bool   `env:"MINIO_USE_SSL"`
		BucketName      string `env:"MINIO_BUCKET_NAME" envDefault:"book-covers"`
		Region          string `env:"MINIO_REGION" envDefault:"us-east-1"`
		PublicURL       string `env:"MINIO_PUBLIC_URL"`
	}

	// События по займам, необязательный блок
	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"loan_events"`
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

	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY must not be empty")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = cfg.composeDatabaseURL()
	}
	if cfg.BcryptCost <= 0 || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be in 1..%d, got %d", bcrypt.MaxCost, cfg.BcryptCost)
	}
	if cfg.TokenLifetime <= 0 {
		return nil, fmt.Errorf("JWT_ACCESS_TOKEN_EXPIRES must be positive, got %s", cfg.TokenLifetime)
	}

	return &cfg, nil
}

// composeDatabaseURL собирает postgres:// DSN из отдельных параметров
func (c *Config) composeDatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Postgres.User, c.Postgres.Password),
		Host:     c.Postgres.Host + ":" + c.Postgres.Port,
		Path:     "/" + c.Postgres.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Postgres.SSLMode),
	}
	return u.String()
}

// MinioEnabled сообщает, настроено ли объектное хранилище.
func (c *Config) MinioEnabled() bool {
	return c.Minio.Endpoint != "" && c.Minio.AccessKeyID != "" && c.Minio.SecretAccessKey != ""
}

// RabbitMQEnabled сообщает, нужно ли публиковать события по займам.
func (c *Config) RabbitMQEnabled() bool {
	return c.RabbitMQ.RabbitMQURL != ""
}
