package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/clinicore/medical-automation-api/internal/adapters/in/http"
	"github.com/clinicore/medical-automation-api/internal/adapters/in/rabbitmq"
	"github.com/clinicore/medical-automation-api/internal/adapters/out/cache"
	"github.com/clinicore/medical-automation-api/internal/adapters/out/classifier"
	"github.com/clinicore/medical-automation-api/internal/adapters/out/logger"
	"github.com/clinicore/medical-automation-api/internal/adapters/out/memstore"
	"github.com/clinicore/medical-automation-api/internal/adapters/out/metrics"
	"github.com/clinicore/medical-automation-api/internal/adapters/out/postgres"
	"github.com/clinicore/medical-automation-api/internal/config"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
	"github.com/clinicore/medical-automation-api/internal/core/services"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone, cfg.Log.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := mainLogger.WithModule("main")

	log.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"storeType":       cfg.Store.Type,
		"cacheType":       cfg.Cache.Type,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsAdapter := metrics.NewPrometheusMetrics()

	// Бэкенд кэша. При disabled менеджер кэша работает в режиме
	// сквозного чтения из хранилища
	var cacheBackend out.CachePort
	switch cfg.Cache.Type {
	case config.CacheTypeMemory:
		cacheBackend, err = cache.NewMemoryCacheAdapter(cfg.Cache.MemorySize, cfg.CacheCleanupInterval(), mainLogger)
		if err != nil {
			log.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	case config.CacheTypeRedis:
		cacheBackend = cache.NewRedisCacheAdapter(cfg, mainLogger)
	case config.CacheTypeDisabled:
		cacheBackend = nil
	default:
		log.Error("app.cache.unknown_type", out.LogFields{
			"type": cfg.Cache.Type,
		})
		os.Exit(1)
	}

	cacheManager := services.NewCacheManager(cacheBackend, metricsAdapter, mainLogger, cfg.CacheProbeInterval())
	cacheManager.Start(ctx)
	defer cacheManager.Close()

	// Хранилище записей
	var storeAdapter out.StorePort
	switch cfg.Store.Type {
	case config.StoreTypeMemory:
		storeAdapter = memstore.NewMemoryStoreAdapter(mainLogger)
	case config.StoreTypePostgres:
		pgAdapter, err := postgres.NewPostgresStoreAdapter(ctx, cfg, mainLogger)
		if err != nil {
			log.Error("app.store.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		defer pgAdapter.Close()
		storeAdapter = pgAdapter
	default:
		log.Error("app.store.unknown_type", out.LogFields{
			"type": cfg.Store.Type,
		})
		os.Exit(1)
	}

	// Инициализация сервисов
	availabilityService := services.NewAvailabilityService(
		storeAdapter,
		cacheManager,
		metricsAdapter,
		mainLogger,
		cfg.TTLAvailability(),
		cfg.App.Timezone,
	)
	doctorService := services.NewDoctorService(storeAdapter, cacheManager, mainLogger, cfg.TTLDoctors())
	patientService := services.NewPatientService(storeAdapter, cacheManager, mainLogger, cfg.TTLPatients(), cfg.TTLPaymentInfo())
	statsService := services.NewStatsService(cacheManager, storeAdapter, mainLogger)

	var intentClassifier out.ClassifierPort
	switch cfg.Assistant.Provider {
	case config.AssistantProviderOpenAI:
		intentClassifier = classifier.NewOpenAIClassifier(cfg.Assistant.OpenAI.APIKey, cfg.Assistant.OpenAI.Model, mainLogger)
	default:
		intentClassifier = classifier.NewRulesClassifier(mainLogger)
	}
	assistantService := services.NewAssistantService(intentClassifier, availabilityService, mainLogger)

	// Настройка HTTP сервера
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	if len(cfg.Cors.AllowedOrigins) == 1 && cfg.Cors.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Cors.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	if err := http.RegisterCustomValidators(); err != nil {
		log.Error("app.validators.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	http.NewAvailabilityController(availabilityService).RegisterRoutes(router)
	http.NewDoctorController(doctorService).RegisterRoutes(router)
	http.NewPatientController(patientService).RegisterRoutes(router)
	http.NewAssistantController(assistantService).RegisterRoutes(router)
	http.NewStatusController(statsService, cfg).RegisterRoutes(router)

	router.GET("/metrics", gin.WrapH(metricsAdapter.Handler()))

	// Настройка RabbitMQ слушателя только если он включен
	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewInvalidationListener(cacheManager, cfg, mainLogger)
		if err != nil {
			log.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			log.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				log.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			log.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})

	// Дополнительное логирование для разработки
	if cfg.IsLocal() {
		log.Debug("app.config.debug", out.LogFields{
			"config": map[string]interface{}{
				"http": map[string]string{
					"host": cfg.HTTP.Host,
					"port": cfg.HTTP.Port,
				},
				"store": map[string]interface{}{
					"type": cfg.Store.Type,
				},
				"cache": map[string]interface{}{
					"type":        cfg.Cache.Type,
					"memory_size": cfg.Cache.MemorySize,
				},
				"rabbitmq": map[string]interface{}{
					"enabled":  cfg.RabbitMQ.Enabled,
					"exchange": cfg.RabbitMQ.Exchange,
				},
			},
		})
	}
}
