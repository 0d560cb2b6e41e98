package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort            string `mapstructure:"APP_PORT"`
	Env                string `mapstructure:"ENV"`
	LogLevel           string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin  int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// Storage. DatabaseDriver is one of mongo, postgres or memory.
	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DatabaseName   string `mapstructure:"DATABASE_NAME"`

	// Redis backs the chat session history. Empty address disables it.
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB   int           `mapstructure:"REDIS_SESSION_DB"`
	ChatSessionTTL   time.Duration `mapstructure:"CHAT_SESSION_TTL"`
	ChatHistoryLimit int           `mapstructure:"CHAT_HISTORY_LIMIT"`

	// Identity verification: firebase or jwt.
	AuthProvider            string `mapstructure:"AUTH_PROVIDER"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	JWTSecret               string `mapstructure:"JWT_SECRET"`

	// Chat routing.
	UseLLM             bool          `mapstructure:"SAHARA_USE_LLM"`
	LLMProvider        string        `mapstructure:"LLM_PROVIDER"`
	LLMTimeout         time.Duration `mapstructure:"LLM_TIMEOUT"`
	OpenRouterAPIKey   string        `mapstructure:"OPENROUTER_API_KEY"`
	OpenRouterURL      string        `mapstructure:"OPENROUTER_URL"`
	OpenRouterModel    string        `mapstructure:"OPENROUTER_MODEL"`
	OpenRouterSiteURL  string        `mapstructure:"OPENROUTER_SITE_URL"`
	OpenRouterSiteName string        `mapstructure:"OPENROUTER_SITE_NAME"`
	GeminiAPIKey       string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel        string        `mapstructure:"GEMINI_MODEL"`

	// Ticket providers.
	BusAPIBase            string        `mapstructure:"BUS_API_BASE"`
	MovieAPIBase          string        `mapstructure:"MOVIE_API_BASE"`
	FlightAPIBase         string        `mapstructure:"FLIGHT_API_BASE"`
	TicketProviderTimeout time.Duration `mapstructure:"TICKET_PROVIDER_TIMEOUT"`
}

var defaults = map[string]any{
	"APP_PORT":             "8080",
	"ENV":                  "development",
	"LOG_LEVEL":            "info",
	"MAX_REQUESTS_PER_MIN": 100,
	"CORS_ALLOWED_ORIGINS": "*",

	"DATABASE_DRIVER": "mongo",
	"DATABASE_URL":    "mongodb://localhost:27017",
	"DATABASE_NAME":   "sahara",

	"REDIS_ADDR":         "",
	"REDIS_PASSWORD":     "",
	"REDIS_SESSION_DB":   0,
	"CHAT_SESSION_TTL":   30 * time.Minute,
	"CHAT_HISTORY_LIMIT": 20,

	"AUTH_PROVIDER":             "firebase",
	"FIREBASE_CREDENTIALS_FILE": "",
	"FIREBASE_PROJECT_ID":       "",
	"JWT_SECRET":                "",

	"SAHARA_USE_LLM":       false,
	"LLM_PROVIDER":         "openrouter",
	"LLM_TIMEOUT":          8 * time.Second,
	"OPENROUTER_API_KEY":   "",
	"OPENROUTER_URL":       "https://openrouter.ai/api/v1/chat/completions",
	"OPENROUTER_MODEL":     "openai/gpt-4o",
	"OPENROUTER_SITE_URL":  "",
	"OPENROUTER_SITE_NAME": "XCODENAME-SAHARA",
	"GEMINI_API_KEY":       "",
	"GEMINI_MODEL":         "gemini-1.5-pro",

	"BUS_API_BASE":            "https://api.bussewa.nepal",
	"MOVIE_API_BASE":          "https://api.movies.nepal",
	"FLIGHT_API_BASE":         "https://api.flights.nepal",
	"TICKET_PROVIDER_TIMEOUT": 10 * time.Second,
}

// LoadConfig reads config.yaml (optional) from path, "." or "./config",
// overlays environment variables and applies defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// IsProduction checks if the environment is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CORSOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// LLMAPIKey returns the credential of the selected LLM provider.
func (c *Config) LLMAPIKey() string {
	if strings.EqualFold(c.LLMProvider, "gemini") {
		return c.GeminiAPIKey
	}
	return c.OpenRouterAPIKey
}
