package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все параметры запуска приложения.
type Config struct {
	Env      string
	HTTPPort string

	// Хранилище кодов. Пустой DatabaseURL в development включает
	// in-memory хранилище.
	DatabaseURL    string
	MigrationsPath string

	// Жизненный цикл одноразового кода.
	OTPTTL        time.Duration
	SweepInterval time.Duration

	// Внешние сервисы.
	MailAPIURL         string
	MailAPIKey         string
	MailFrom           string
	IdentityBaseURL    string
	IdentityServiceKey string

	// Таймауты на обращения к хранилищу и внешним сервисам.
	StoreTimeout     time.Duration
	NotifyTimeout    time.Duration
	ProvisionTimeout time.Duration

	AllowedOrigins  []string
	RateLimitLimit  int64
	RateLimitPeriod time.Duration
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:             env,
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DatabaseURL:     getDatabaseURL(),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		MailAPIURL:      getEnv("MAIL_API_URL", "https://api.resend.com"),
		MailFrom:        getEnv("MAIL_FROM", "SEEKHO <onboarding@resend.dev>"),
		IdentityBaseURL: getEnv("IDENTITY_BASE_URL", ""),
	}

	// Ключи внешних сервисов обязательны в production: без них issuance
	// и provisioning физически не работают.
	cfg.MailAPIKey = getEnv("MAIL_API_KEY", "")
	cfg.IdentityServiceKey = getEnv("IDENTITY_SERVICE_KEY", "")

	if env == "production" {
		if cfg.MailAPIKey == "" {
			return nil, fmt.Errorf("config: MAIL_API_KEY обязателен в production")
		}
		if cfg.IdentityBaseURL == "" || cfg.IdentityServiceKey == "" {
			return nil, fmt.Errorf("config: IDENTITY_BASE_URL и IDENTITY_SERVICE_KEY обязательны в production")
		}
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("config: DATABASE_URL обязателен в production")
		}
	}

	// CORS allowed origins
	originsStr := getEnv("CORS_ALLOWED_ORIGINS", "")
	if originsStr == "" {
		if env == "production" {
			return nil, fmt.Errorf("config: CORS_ALLOWED_ORIGINS обязателен в production")
		}
		cfg.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	} else {
		cfg.AllowedOrigins = strings.Split(originsStr, ",")
		for i, origin := range cfg.AllowedOrigins {
			cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
		}
	}

	// Окно действия кода короткое: 6 цифр перебираются, если дать время.
	cfg.OTPTTL = mustParseDuration(getEnv("OTP_TTL", "10m"))
	// SWEEP_INTERVAL=0 отключает фоновую уборку, корректность от неё не зависит.
	cfg.SweepInterval = mustParseDuration(getEnv("SWEEP_INTERVAL", "5m"))

	cfg.StoreTimeout = mustParseDuration(getEnv("STORE_TIMEOUT", "3s"))
	cfg.NotifyTimeout = mustParseDuration(getEnv("NOTIFY_TIMEOUT", "5s"))
	cfg.ProvisionTimeout = mustParseDuration(getEnv("PROVISION_TIMEOUT", "5s"))

	// Rate limiting настройки
	cfg.RateLimitLimit = mustParseInt64(getEnv("RATE_LIMIT_LIMIT", "10"))
	cfg.RateLimitPeriod = mustParseDuration(getEnv("RATE_LIMIT_PERIOD", "1m"))

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или дефолт.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getDatabaseURL возвращает DATABASE_URL либо из переменной, либо собирает из отдельных переменных.
func getDatabaseURL() string {
	if dsn := getEnv("DATABASE_URL", ""); dsn != "" {
		return dsn
	}

	host := getEnv("DB_HOST", "")
	if host == "" {
		return ""
	}

	user := getEnv("DB_USER", "postgres")
	pass := getEnv("DB_PASSWORD", "")
	port := getEnv("DB_PORT", "5432")
	name := getEnv("DB_NAME", "activation")
	sslMode := getEnv("DB_SSLMODE", "disable")

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, pass),
		Host:   host + ":" + port,
		Path:   "/" + name,
	}
	q := u.Query()
	q.Set("sslmode", sslMode)
	u.RawQuery = q.Encode()

	return u.String()
}

// mustParseDuration парсит duration или завершает процесс.
func mustParseDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("config: некорректная длительность %q: %v", value, err)
	}
	return d
}

// mustParseInt64 парсит число или завершает процесс.
func mustParseInt64(value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Fatalf("config: некорректное число %q: %v", value, err)
	}
	return n
}
