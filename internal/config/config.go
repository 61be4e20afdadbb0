package config

import (
	"os"
	"strconv"
	"strings"

	"bingo_webapp/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	AppVersion    string
	DatabaseURL   string // пусто -> in-memory store
	JWTSecret     string
	AllowedOrigin string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
	LogJSON  bool

	// Bingo
	MaxCardsPerPlayer int
	AutoCallIntervals []int // секунды

	// Rate limits
	APIRateLimit    int
	APIRateWindow   int
	ClaimRateLimit  int
	ClaimRateWindow int
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "dev"
	}

	intervals := ParseIntervals(os.Getenv("AUTO_CALL_INTERVALS"))
	if len(intervals) == 0 {
		intervals = []int{5, 10, 15, 30}
	}

	return &Config{
		AppPort:       port,
		AppVersion:    version,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     jwtSecret,
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		LogLevel: os.Getenv("LOG_LEVEL"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",

		MaxCardsPerPlayer: envInt("MAX_CARDS_PER_PLAYER", 10),
		AutoCallIntervals: intervals,

		APIRateLimit:    envInt("API_RATE_LIMIT", 120), // запросов за ->
		APIRateWindow:   envInt("API_RATE_WINDOW", 60), // -> 60 секунд
		ClaimRateLimit:  envInt("CLAIM_RATE_LIMIT", 5),
		ClaimRateWindow: envInt("CLAIM_RATE_WINDOW", 10),
	}
}

// ParseIntervals разбирает список секунд через запятую, мусор пропускается
func ParseIntervals(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if n, err := strconv.Atoi(part); err == nil && n > 0 {
			out = append(out, n)
		}
	}
	return out
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
