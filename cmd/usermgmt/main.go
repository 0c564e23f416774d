package main

import (
	"context"
	"database/sql"

	config "github.com/davicafu/usermgmt/internal/config"
	infraEvents "github.com/davicafu/usermgmt/internal/shared/infra/events"
	sharedBus "github.com/davicafu/usermgmt/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/usermgmt/internal/shared/infra/platform/cache"
	userApp "github.com/davicafu/usermgmt/internal/user/application"
	userDomain "github.com/davicafu/usermgmt/internal/user/domain"
	userEvents "github.com/davicafu/usermgmt/internal/user/infra/inbound/events"
	userHttp "github.com/davicafu/usermgmt/internal/user/infra/inbound/http"
	chAudit "github.com/davicafu/usermgmt/internal/user/infra/outbound/analytics/clickhouse"
	userCache "github.com/davicafu/usermgmt/internal/user/infra/outbound/cache"
	memoryStore "github.com/davicafu/usermgmt/internal/user/infra/outbound/storage/memory"
	sqliteStore "github.com/davicafu/usermgmt/internal/user/infra/outbound/storage/sqlite"

	"github.com/davicafu/usermgmt/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	// _ "github.com/mattn/go-sqlite3" // requires gcc
	_ "modernc.org/sqlite"
)

// ---------------- Main ----------------
func main() {
	logger.Init()          // inicializa zap
	log := logger.Logger() // obtiene logger estructurado
	defer log.Sync()       // flush buffers al salir

	ctx := context.Background()
	cfg := config.LoadConfig()

	// ---------------- Storage ----------------
	// Ambas variantes son volátiles: el sistema no persiste entre reinicios.
	var store userDomain.UserStore
	switch cfg.StorageBackend {
	case "sqlite":
		db, err := sql.Open("sqlite", ":memory:")
		if err != nil {
			log.Fatal("failed to open SQLite", zap.Error(err))
		}
		defer db.Close()

		if err := sqliteStore.InitSQLite(db); err != nil {
			log.Fatal("failed to initialize SQLite", zap.Error(err))
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatal("failed to ping SQLite", zap.Error(err))
		}

		store = sqliteStore.NewUserStoreSQLite(db)
		log.Info("🗄️ Almacenamiento SQLite en memoria")
	default:
		store = memoryStore.NewUserStore()
		log.Info("🗄️ Almacenamiento en mapa en memoria")
	}

	// ---------------- Cache ----------------
	var cacheInstance sharedCache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria:", zap.Error(err))
		cacheInstance = userCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
	} else {
		cacheInstance = userCache.NewRedisCache(rdb, cfg.CacheTTL)
		log.Info("✅ Redis conectado, cache habilitado")
	}

	// ------------- Auditoría ---------------
	var audit userEvents.AuditLog
	if cfg.ClickHouseAddr != "" {
		repo, err := chAudit.NewUserAuditRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			log.Warn("⚠️ ClickHouse no disponible, auditoría solo a logs", zap.Error(err))
		} else {
			audit = repo
			log.Info("✅ ClickHouse conectado, auditoría habilitada")
		}
	}
	consumer := userEvents.NewUserConsumer(audit, log)

	// ---------------- Events ---------------
	var eventPublisher sharedBus.EventBus

	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos")

		writer := kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopicUser,
		})
		defer writer.Close()

		eventPublisher = infraEvents.NewKafkaPublisher(writer, log)

		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopicUser,
			GroupID:  "usermgmt-audit",
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		})
		defer reader.Close()

		infraEvents.NewConsumerAdapter(reader, consumer, log).Start(ctx)
	} else {
		log.Info("⚡️ Usando bus de eventos en memoria (canales de Go)")

		inMemoryBus := infraEvents.NewInMemoryEventBus(userDomain.UserTopic)
		eventPublisher = inMemoryBus

		log.Info("🎧 Iniciando listener en memoria para eventos de usuario")
		userEvents.BackgroundConsumerChan(ctx, inMemoryBus.Subscribe(10), consumer)
	}

	// --------------- Servicio --------------
	ageValidator := userDomain.NewAgeValidator(cfg.MinAge)
	userService := userApp.NewUserService(store, cacheInstance, eventPublisher, ageValidator, cfg.CacheTTL, log)

	// ---------------- HTTP ----------------
	userHandler := userHttp.NewUserHandler(userService)
	router := gin.Default()
	userHttp.RegisterUserRoutes(router, userHandler)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	log.Info("🚀 Server running",
		zap.String("url", "http://localhost:"+cfg.HTTPPort),
		zap.Int("min_age", cfg.MinAge),
	)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
