package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Environment string

const (
	EnvLocal       Environment = "local"
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

const (
	StoreTypeMemory   = "memory"
	StoreTypePostgres = "postgres"
)

const (
	CacheTypeMemory   = "memory"
	CacheTypeRedis    = "redis"
	CacheTypeDisabled = "disabled"
)

const (
	AssistantProviderRules  = "rules"
	AssistantProviderOpenAI = "openai"
)

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"America/Sao_Paulo"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"5000"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"0.0.0.0"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"debug"`
	}

	Cors struct {
		AllowedOriginsString string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
		AllowedOrigins       []string
	}

	Store struct {
		Type string `env:"STORE_TYPE" envDefault:"memory"`

		Postgres struct {
			Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
			Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
			User     string `env:"POSTGRES_USER" envDefault:"postgres"`
			Password string `env:"POSTGRES_PASSWORD"`
			Database string `env:"POSTGRES_DB" envDefault:"medical_automation"`
			SSLMode  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
			MaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
		}
	}

	Cache struct {
		Type                   string `env:"CACHE_TYPE" envDefault:"memory"`
		MemorySize             int    `env:"CACHE_MEMORY_SIZE" envDefault:"1000"`
		OpTimeoutMs            int    `env:"CACHE_OP_TIMEOUT_MS" envDefault:"300"`
		ProbeIntervalSeconds   int    `env:"CACHE_PROBE_INTERVAL" envDefault:"30"`
		CleanupIntervalSeconds int    `env:"CACHE_CLEANUP_INTERVAL" envDefault:"300"`

		Redis struct {
			Host     string `env:"REDIS_HOST" envDefault:"localhost"`
			Port     string `env:"REDIS_PORT" envDefault:"6379"`
			Password string `env:"REDIS_PASSWORD"`
			DB       int    `env:"REDIS_DB" envDefault:"0"`
			PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
		}

		TTL struct {
			DefaultSeconds      int `env:"CACHE_TTL_DEFAULT" envDefault:"300"`
			AvailabilitySeconds int `env:"CACHE_TTL_AVAILABILITY" envDefault:"300"`
			DoctorsSeconds      int `env:"CACHE_TTL_DOCTORS" envDefault:"3600"`
			PatientsSeconds     int `env:"CACHE_TTL_PATIENTS" envDefault:"300"`
			PaymentInfoSeconds  int `env:"CACHE_TTL_PAYMENT_INFO" envDefault:"300"`
		}
	}

	RabbitMQ struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED"`
		URL      string `env:"RABBITMQ_URL"`
		Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"clinic.events"`

		QueueConfig struct {
			AppointmentQueueName string `env:"RABBITMQ_APPOINTMENT_QUEUE" envDefault:"medical-api.cache.appointment"`
			AppointmentQueueBind string `env:"RABBITMQ_APPOINTMENT_QUEUE_BIND" envDefault:"*.appointment.*"`
			DoctorQueueName      string `env:"RABBITMQ_DOCTOR_QUEUE" envDefault:"medical-api.cache.doctor"`
			DoctorQueueBind      string `env:"RABBITMQ_DOCTOR_QUEUE_BIND" envDefault:"*.doctor.*"`
			PatientQueueName     string `env:"RABBITMQ_PATIENT_QUEUE" envDefault:"medical-api.cache.patient"`
			PatientQueueBind     string `env:"RABBITMQ_PATIENT_QUEUE_BIND" envDefault:"*.patient.*"`
			AllQueueName         string `env:"RABBITMQ_ALL_QUEUE" envDefault:"medical-api.cache.all"`
			AllQueueBind         string `env:"RABBITMQ_ALL_QUEUE_BIND" envDefault:"*._all_.*"`
		}
	}

	Assistant struct {
		Provider string `env:"ASSISTANT_PROVIDER" envDefault:"rules"`

		OpenAI struct {
			APIKey string `env:"OPENAI_API_KEY"`
			Model  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
		}
	}
}

func NewConfig() (*Config, error) {
	// Загружаем .env только для локальной разработки
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	// Разделение разрешённых origin-ов по запятой
	if cfg.Cors.AllowedOrigins == nil {
		cfg.Cors.AllowedOrigins = []string{}
	}
	originItems := strings.Split(cfg.Cors.AllowedOriginsString, ",")
	for _, origin := range originItems {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.Cors.AllowedOrigins = append(cfg.Cors.AllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDevelopment || c.App.Env == EnvProduction
}

// PostgresDSN собирает строку подключения для pgx-пула и мигратора
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Store.Postgres.User,
		c.Store.Postgres.Password,
		c.Store.Postgres.Host,
		c.Store.Postgres.Port,
		c.Store.Postgres.Database,
		c.Store.Postgres.SSLMode,
	)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Cache.Redis.Host, c.Cache.Redis.Port)
}

func (c *Config) CacheOpTimeout() time.Duration {
	return time.Duration(c.Cache.OpTimeoutMs) * time.Millisecond
}

func (c *Config) CacheProbeInterval() time.Duration {
	return time.Duration(c.Cache.ProbeIntervalSeconds) * time.Second
}

func (c *Config) CacheCleanupInterval() time.Duration {
	return time.Duration(c.Cache.CleanupIntervalSeconds) * time.Second
}

func (c *Config) TTLDefault() time.Duration {
	return time.Duration(c.Cache.TTL.DefaultSeconds) * time.Second
}

func (c *Config) TTLAvailability() time.Duration {
	return time.Duration(c.Cache.TTL.AvailabilitySeconds) * time.Second
}

func (c *Config) TTLDoctors() time.Duration {
	return time.Duration(c.Cache.TTL.DoctorsSeconds) * time.Second
}

func (c *Config) TTLPatients() time.Duration {
	return time.Duration(c.Cache.TTL.PatientsSeconds) * time.Second
}

func (c *Config) TTLPaymentInfo() time.Duration {
	return time.Duration(c.Cache.TTL.PaymentInfoSeconds) * time.Second
}
