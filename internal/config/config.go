package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MinAge         int
	StorageBackend string // "memory" | "sqlite"
	RedisAddr      string
	UseKafka       bool
	KafkaBrokers   []string
	KafkaTopicUser string
	ClickHouseAddr string // vacío = auditoría desactivada
	ClickHouseDB   string
	CacheTTL       time.Duration // único origen del TTL: adapters y servicio
	HTTPPort       string
}

func LoadConfig() *Config {
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	getEnvInt := func(key string, fallback int) int {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return fallback
	}

	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")

	return &Config{
		MinAge:         getEnvInt("MIN_AGE", 18),
		StorageBackend: getEnv("STORAGE_BACKEND", "memory"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		UseKafka:       getEnv("USE_KAFKA", "false") == "true",
		KafkaBrokers:   kafkaBrokers,
		KafkaTopicUser: getEnv("KAFKA_TOPIC", "user-events"),
		ClickHouseAddr: getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDB:   getEnv("CLICKHOUSE_DB", "usermgmt"),
		CacheTTL:       time.Duration(getEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second,
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
	}
}
