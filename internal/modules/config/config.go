package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
)

// Config ...
type Config struct {
	Telegram struct {
		Token         string `yaml:"token"`
		ServiceChatID int64  `yaml:"service_chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		HealthAddr string `yaml:"health_addr"`
	} `yaml:"service"`

	Feed struct {
		WSURL   string `yaml:"ws_url"`   // wss://stream.binance.com:9443
		RESTURL string `yaml:"rest_url"` // https://api.binance.com
	} `yaml:"feed"`

	Jaeger struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Движок
	BufferCapacity int `yaml:"buffer_capacity"` // глубина истории на (symbol, timeframe)

	// Переподписка и health-отчёт — периодические джобы
	ReconcileInterval    time.Duration
	HealthReportInterval time.Duration

	// REST-прогрев истории при старте
	WarmupDepth    int // сколько свечей тянуть на ключ
	WarmupParallel int // параллельных запросов к REST

	// Сид правил и пользователей (вместо CRUD API)
	Users []SeedUser `yaml:"users"`
	Rules []SeedRule `yaml:"rules"`
}

type SeedUser struct {
	ID     int64  `yaml:"id"`
	ChatID int64  `yaml:"chat_id"`
	Name   string `yaml:"name"`
}

// SeedRule — плоская запись правила в yaml; какие поля читаются, зависит от type.
type SeedRule struct {
	ID          int64  `yaml:"id"`
	UserID      int64  `yaml:"user_id"`
	Symbol      string `yaml:"symbol"`
	Type        string `yaml:"type"` // EXTREME_MOVE | BREAKOUT | VOLUME_SPIKE
	Timeframe   string `yaml:"timeframe"`
	Disabled    bool   `yaml:"disabled"`
	CooldownSec int64  `yaml:"cooldown_sec"`

	// EXTREME_MOVE
	WindowMin int64   `yaml:"window_min"`
	Percent   float64 `yaml:"percent"`

	// BREAKOUT / VOLUME_SPIKE
	Lookback   int     `yaml:"lookback"`
	Multiplier float64 `yaml:"multiplier"`

	Direction string `yaml:"direction"` // UP | DOWN | BOTH
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		BufferCapacity: intFromEnv("BUFFER_CAPACITY", 500),

		ReconcileInterval:    durationFromEnv("RECONCILE_INTERVAL", "30s"),
		HealthReportInterval: durationFromEnv("HEALTH_REPORT_INTERVAL", "5m"),

		WarmupDepth:    intFromEnv("WARMUP_DEPTH", 120),
		WarmupParallel: intFromEnv("WARMUP_PARALLEL", 8),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	if config.Feed.WSURL == "" {
		config.Feed.WSURL = getenvDefault("FEED_WS_URL", "wss://stream.binance.com:9443")
	}
	if config.Feed.RESTURL == "" {
		config.Feed.RESTURL = getenvDefault("FEED_REST_URL", "https://api.binance.com")
	}
	if config.Service.HealthAddr == "" {
		config.Service.HealthAddr = getenvDefault("HEALTH_ADDR", ":8080")
	}

	return &config, nil
}

func getenvRequired(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("env %s is required", key))
	}
	return v
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
