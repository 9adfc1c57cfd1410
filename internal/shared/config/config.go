package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Store backends accepted by STORE_BACKEND.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendBolt     = "bolt"
	BackendMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	Port                 string
	Env                  string
	CORSAllowOrigin      []string
	StoreBackend         string
	DatabaseURL          string
	MongoDatabase        string
	MongoCollection      string
	BoltPath             string
	GELFAddr             string
	CreateRateLimitRPS   float64
	CreateRateLimitBurst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	backend := normalizeBackend(getEnv("STORE_BACKEND", BackendMongo))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" && needsURL(backend) {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  env,
		CORSAllowOrigin:      splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		StoreBackend:         backend,
		DatabaseURL:          dbURL,
		MongoDatabase:        getEnv("MONGO_DATABASE", "verified-ideas"),
		MongoCollection:      getEnv("MONGO_COLLECTION", "messages"),
		BoltPath:             getEnv("BOLT_PATH", "./data/verified-ideas.db"),
		GELFAddr:             getEnv("GELF_ADDR", ""),
		CreateRateLimitRPS:   getEnvFloat("CREATE_RATE_LIMIT_RPS", 0),
		CreateRateLimitBurst: getEnvInt("CREATE_RATE_LIMIT_BURST", 0),
	}
}

// IsDevLike reports whether env allows falling back to in-memory storage.
func IsDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val, ok := LookupInt(key); ok {
		return val
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config env %s invalid float: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg":
		return BackendPostgres
	case "bolt":
		return BackendBolt
	case "memory", "mem":
		return BackendMemory
	default:
		return BackendMongo
	}
}

func needsURL(backend string) bool {
	return backend == BackendMongo || backend == BackendPostgres
}
