package config

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Generation providers understood by the llm factory
const (
	ProviderHuggingFace = "huggingface"
	ProviderClaude      = "claude"
)

// GenerationProviders lists the accepted values of generation.provider
var GenerationProviders = []string{ProviderHuggingFace, ProviderClaude}

// Session store backends
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port           int           `yaml:"port" default:"8501"`
		Host           string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout    time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout   time.Duration `yaml:"write_timeout" default:"10m"`
		IdleTimeout    time.Duration `yaml:"idle_timeout" default:"60s"`
		RequestTimeout time.Duration `yaml:"request_timeout" default:"10m"`
	} `yaml:"server"`

	Firecrawl struct {
		APIKey         string        `yaml:"api_key"`
		APIURL         string        `yaml:"api_url" default:"https://api.firecrawl.dev"`
		Timeout        time.Duration `yaml:"timeout" default:"60s"`
		PollInterval   time.Duration `yaml:"poll_interval" default:"2s"`
		ExtractTimeout time.Duration `yaml:"extract_timeout" default:"5m"`
	} `yaml:"firecrawl"`

	Generation struct {
		Provider     string        `yaml:"provider" default:"huggingface"`
		ModelURL     string        `yaml:"model_url"`
		APIKey       string        `yaml:"api_key"`
		Model        string        `yaml:"model" default:"claude-3-haiku-20240307"`
		MaxNewTokens int           `yaml:"max_new_tokens" default:"800"`
		Timeout      time.Duration `yaml:"timeout" default:"120s"`
	} `yaml:"generation"`

	Session struct {
		Store        string        `yaml:"store" default:"memory"`
		CookieName   string        `yaml:"cookie_name" default:"jh_session"`
		TTL          time.Duration `yaml:"ttl" default:"12h"`
		SecureCookie bool          `yaml:"secure_cookie" default:"false"`
	} `yaml:"session"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	RateLimit struct {
		Enabled           bool `yaml:"enabled" default:"true"`
		RequestsPerMinute int  `yaml:"requests_per_minute" default:"6"`
		Burst             int  `yaml:"burst" default:"2"`
	} `yaml:"rate_limit"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareEnvVar   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands ${VAR} and $VAR references. An unset ${VAR} expands to an
// empty string; an unset $VAR is left as written.
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return bareEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[1:]); val != "" {
			return val
		}
		return match
	})
}

// Default returns a configuration populated with default values only
func Default() *Config {
	config := &Config{}

	config.Server.Port = 8501
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 10 * time.Minute
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.RequestTimeout = 10 * time.Minute

	config.Firecrawl.APIURL = "https://api.firecrawl.dev"
	config.Firecrawl.Timeout = 60 * time.Second
	config.Firecrawl.PollInterval = 2 * time.Second
	config.Firecrawl.ExtractTimeout = 5 * time.Minute

	config.Generation.Provider = ProviderHuggingFace
	config.Generation.Model = "claude-3-haiku-20240307"
	config.Generation.MaxNewTokens = 800
	config.Generation.Timeout = 120 * time.Second

	config.Session.Store = SessionStoreMemory
	config.Session.CookieName = "jh_session"
	config.Session.TTL = 12 * time.Hour

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.Timeout = 5 * time.Second

	config.RateLimit.Enabled = true
	config.RateLimit.RequestsPerMinute = 6
	config.RateLimit.Burst = 2

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	return config
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
			}
		}
	}

	config.loadFromEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects configurations the service cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}

	if !slices.Contains(GenerationProviders, c.Generation.Provider) {
		return fmt.Errorf("unsupported generation provider %q (expected one of: %s)",
			c.Generation.Provider, strings.Join(GenerationProviders, ", "))
	}

	if c.Generation.MaxNewTokens <= 0 {
		return fmt.Errorf("generation.max_new_tokens must be positive")
	}

	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("unsupported session store: %s", c.Session.Store)
	}

	if c.Firecrawl.PollInterval <= 0 {
		return fmt.Errorf("firecrawl.poll_interval must be positive")
	}

	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be positive when rate limiting is enabled")
	}

	return nil
}

// RequiresModelURL reports whether the configured generation provider is addressed by URL
func (c *Config) RequiresModelURL() bool {
	return c.Generation.Provider == ProviderHuggingFace
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if firecrawlAPIKey := os.Getenv("FIRECRAWL_API_KEY"); firecrawlAPIKey != "" {
		c.Firecrawl.APIKey = firecrawlAPIKey
	}

	if firecrawlAPIURL := os.Getenv("FIRECRAWL_API_URL"); firecrawlAPIURL != "" {
		c.Firecrawl.APIURL = firecrawlAPIURL
	}

	if hfKey := os.Getenv("HF_API_KEY"); hfKey != "" {
		c.Generation.APIKey = hfKey
	}

	// GENERATION_API_KEY wins over HF_API_KEY when both are set
	if apiKey := os.Getenv("GENERATION_API_KEY"); apiKey != "" {
		c.Generation.APIKey = apiKey
	}

	if modelURL := os.Getenv("HF_MODEL_URL"); modelURL != "" {
		c.Generation.ModelURL = modelURL
	}

	if provider := os.Getenv("GENERATION_PROVIDER"); provider != "" {
		c.Generation.Provider = strings.ToLower(provider)
	}

	if model := os.Getenv("GENERATION_MODEL"); model != "" {
		c.Generation.Model = model
	}

	if store := os.Getenv("SESSION_STORE"); store != "" {
		c.Session.Store = strings.ToLower(store)
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if rpm := os.Getenv("RATE_LIMIT_RPM"); rpm != "" {
		if v, err := strconv.Atoi(rpm); err == nil {
			c.RateLimit.RequestsPerMinute = v
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
}
