package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	ShutdownTimeout time.Duration
	CORSAllowOrigin string
	LogLevel        string

	DBDriver       string // "pgx" or "postgres"
	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string
	DBMaxOpenConns int

	IdentityProvider        string // "jwt" or "firebase"
	FirebaseServiceAccount  string
	FirebaseCredentialsFile string
	FirebaseProjectID       string
	JWTSecret               string
	JWTIssuer               string

	RedisAddr     string
	RedisPassword string
	SpotCacheTTL  time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	AWSRegion             string
	SQSCompletionQueueURL string
}

// Load reads .env (if present) and the process environment. Malformed numeric
// or duration values are collected into the returned error.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env file: %v", err)
	}

	var errs []error
	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		CORSAllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "*"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),

		DBDriver:   getEnv("DB_DRIVER", "pgx"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "parkshare"),
		DBPassword: getEnv("DB_PASSWORD", "parkshare"),
		DBName:     getEnv("DB_NAME", "parkshare"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		IdentityProvider:        strings.ToLower(getEnv("IDENTITY_PROVIDER", "jwt")),
		FirebaseServiceAccount:  os.Getenv("FIREBASE_SERVICE_ACCOUNT_KEY"),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", "firebase-service-account.json"),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		JWTIssuer:               os.Getenv("JWT_ISSUER"),

		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		KafkaTopic: getEnv("KAFKA_TOPIC", "booking-events"),

		AWSRegion:             getEnv("AWS_REGION", "us-east-1"),
		SQSCompletionQueueURL: os.Getenv("SQS_COMPLETION_QUEUE_URL"),
	}

	cfg.DBPort = getInt("DB_PORT", 5432, &errs)
	cfg.DBMaxOpenConns = getInt("DB_MAX_OPEN_CONNS", 20, &errs)
	cfg.ShutdownTimeout = getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second, &errs)
	cfg.SpotCacheTTL = getDuration("SPOT_CACHE_TTL", 5*time.Minute, &errs)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}

	switch cfg.DBDriver {
	case "pgx", "postgres":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be pgx or postgres, got %q", cfg.DBDriver))
	}
	switch cfg.IdentityProvider {
	case "jwt":
		if strings.TrimSpace(cfg.JWTSecret) == "" {
			errs = append(errs, errors.New("JWT_SECRET is required when IDENTITY_PROVIDER is jwt"))
		}
	case "firebase":
	default:
		errs = append(errs, fmt.Errorf("IDENTITY_PROVIDER must be jwt or firebase, got %q", cfg.IdentityProvider))
	}

	return cfg, errors.Join(errs...)
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("environment variable %q not set, using default %q", key, fallback)
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return d
}

func splitAndTrim(v string) []string {
	raw := strings.Split(v, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
