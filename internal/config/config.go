package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	PendingStoreMemory = "memory"
	PendingStoreRedis  = "redis"

	LLMProviderOpenAI   = "openai"
	LLMProviderGoogleAI = "googleai"
)

// Config holds every runtime setting of the API server. Values come from the
// process environment; main loads a .env file beforehand when one exists.
type Config struct {
	Port int

	DatabaseURL  string
	DatabaseName string

	EmailHost string
	EmailPort int
	EmailUser string
	EmailPass string
	EmailFrom string

	JWTSecret         string
	JWTAlgorithm      string
	AccessTokenExpiry time.Duration

	OTPExpiry        time.Duration
	PendingRetention time.Duration
	PendingStore     string
	RedisURL         string

	LLMProvider string
	LLMAPIKey   string
	LLMModel    string

	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	MaxUploadBytes int64

	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Only enable it behind a proxy that overwrites them.
	TrustProxyHeaders bool

	LogLevel string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var errs []string
	intVar := func(key string, def int) int {
		v, err := getEnvInt(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}

	cfg := &Config{
		Port:         intVar("PORT", 8080),
		DatabaseURL:  getEnv("DATABASE_URL", "mongodb://localhost:27017"),
		DatabaseName: getEnv("DATABASE_NAME", "smarthire"),

		EmailHost: getEnv("EMAIL_HOST", "smtp.gmail.com"),
		EmailPort: intVar("EMAIL_PORT", 587),
		EmailUser: os.Getenv("EMAIL_USER"),
		EmailPass: strings.Trim(os.Getenv("EMAIL_PASS"), `"'`),

		JWTSecret:         getEnv("JWT_SECRET", "change_me"),
		JWTAlgorithm:      strings.ToUpper(getEnv("JWT_ALGORITHM", "HS256")),
		AccessTokenExpiry: time.Duration(intVar("ACCESS_TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,

		OTPExpiry:        time.Duration(intVar("OTP_EXPIRY_MINUTES", 5)) * time.Minute,
		PendingRetention: time.Duration(intVar("PENDING_RETENTION_MINUTES", 30)) * time.Minute,
		PendingStore:     strings.ToLower(getEnv("PENDING_STORE", PendingStoreMemory)),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),

		LLMProvider: strings.ToLower(getEnv("LLM_PROVIDER", LLMProviderOpenAI)),
		LLMAPIKey:   getEnv("LLM_API_KEY", os.Getenv("OPENAI_API_KEY")),
		LLMModel:    getEnv("LLM_MODEL", os.Getenv("OPENAI_MODEL")),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		RateLimitBurst: intVar("RATE_LIMIT_BURST", 5),
		MaxUploadBytes: int64(intVar("MAX_UPLOAD_MB", 10)) << 20,

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
	cfg.EmailFrom = getEnv("EMAIL_FROM", cfg.EmailUser)

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "3"), 64)
	if err != nil {
		errs = append(errs, fmt.Sprintf("RATE_LIMIT_RPS: %v", err))
	}
	cfg.RateLimitRPS = rps

	trustProxy, err := strconv.ParseBool(getEnv("TRUST_PROXY_HEADERS", "false"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("TRUST_PROXY_HEADERS: %v", err))
	}
	cfg.TrustProxyHeaders = trustProxy

	if cfg.LLMModel == "" {
		cfg.LLMModel = defaultModel(cfg.LLMProvider)
	}

	if err := cfg.validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("JWT_ALGORITHM %q is not supported", c.JWTAlgorithm)
	}
	switch c.PendingStore {
	case PendingStoreMemory, PendingStoreRedis:
	default:
		return fmt.Errorf("PENDING_STORE %q is not supported", c.PendingStore)
	}
	switch c.LLMProvider {
	case LLMProviderOpenAI, LLMProviderGoogleAI:
	default:
		return fmt.Errorf("LLM_PROVIDER %q is not supported", c.LLMProvider)
	}
	if c.OTPExpiry <= 0 {
		return fmt.Errorf("OTP_EXPIRY_MINUTES must be positive")
	}
	if c.AccessTokenExpiry <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.PendingRetention < 0 {
		return fmt.Errorf("PENDING_RETENTION_MINUTES must not be negative")
	}
	return nil
}

func defaultModel(provider string) string {
	if provider == LLMProviderGoogleAI {
		return "gemini-2.5-flash"
	}
	return "gpt-3.5-turbo"
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
