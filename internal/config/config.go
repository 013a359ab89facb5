package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Defaults used when the environment does not set a value.
const (
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultModel         = "llama2"
	DefaultPort          = "8001"
)

// Supported values of INFERENCE_PROVIDER.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

const (
	// Durations need a unit; a bare "30" parses as nanoseconds.
	minTimeout = time.Second

	modelOverridePrefix = "MODEL_OVERRIDE_"
	legacyModelPrefix   = "OLLAMA_MODEL_"
)

// Config holds the process-wide settings. It is built once by Load and never
// mutated afterwards, so it can be shared by every request handler.
type Config struct {
	Port               string
	OllamaBaseURL      string
	DefaultModel       string
	Provider           string
	OpenAIAPIKey       string
	GenerateTimeout    time.Duration
	HealthTimeout      time.Duration
	LogLevel           string
	LogFormat          string
	GinMode            string
	CORSAllowedOrigins []string

	// EnvFile is the .env file that was loaded, empty when none was found.
	EnvFile string

	modelOverrides map[string]string
}

// Load reads the .env file (when present) and the environment into a Config.
// Flags that were set explicitly on the command line take precedence.
func Load(envFile string, flags *pflag.FlagSet) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	loaded := ""
	if err := godotenv.Load(envFile); err == nil {
		loaded = envFile
	}

	v := viper.New()
	v.SetDefault("OLLAMA_BASE_URL", DefaultOllamaBaseURL)
	v.SetDefault("OLLAMA_MODEL", DefaultModel)
	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("INFERENCE_PROVIDER", ProviderOllama)
	v.SetDefault("OPENAI_API_KEY", "ollama")
	v.SetDefault("GENERATE_TIMEOUT", 30*time.Second)
	v.SetDefault("HEALTH_TIMEOUT", 10*time.Second)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.AutomaticEnv()

	if flags != nil {
		if f := flags.Lookup("port"); f != nil {
			if err := v.BindPFlag("PORT", f); err != nil {
				return nil, fmt.Errorf("failed to bind port flag: %w", err)
			}
		}
	}

	cfg := &Config{
		Port:               v.GetString("PORT"),
		OllamaBaseURL:      strings.TrimRight(v.GetString("OLLAMA_BASE_URL"), "/"),
		DefaultModel:       v.GetString("OLLAMA_MODEL"),
		Provider:           strings.ToLower(v.GetString("INFERENCE_PROVIDER")),
		OpenAIAPIKey:       v.GetString("OPENAI_API_KEY"),
		GenerateTimeout:    v.GetDuration("GENERATE_TIMEOUT"),
		HealthTimeout:      v.GetDuration("HEALTH_TIMEOUT"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		GinMode:            v.GetString("GIN_MODE"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		EnvFile:            loaded,
		modelOverrides:     parseModelOverrides(os.Environ()),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported INFERENCE_PROVIDER %q", c.Provider)
	}
	u, err := url.Parse(c.OllamaBaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse OLLAMA_BASE_URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("OLLAMA_BASE_URL %q must be an absolute URL", c.OllamaBaseURL)
	}
	if c.GenerateTimeout < minTimeout {
		return fmt.Errorf("GENERATE_TIMEOUT %s is below %s, use a unit such as 30s", c.GenerateTimeout, minTimeout)
	}
	if c.HealthTimeout < minTimeout {
		return fmt.Errorf("HEALTH_TIMEOUT %s is below %s, use a unit such as 10s", c.HealthTimeout, minTimeout)
	}
	return nil
}

// ModelFor returns the model configured for a tenant, falling back to the
// global default model.
func (c *Config) ModelFor(tenantID string) string {
	if model, ok := c.modelOverrides[strings.ToUpper(tenantID)]; ok {
		return model
	}
	if c.DefaultModel != "" {
		return c.DefaultModel
	}
	return DefaultModel
}

// parseModelOverrides collects MODEL_OVERRIDE_<TENANT> entries. The older
// OLLAMA_MODEL_<TENANT> form is honoured when no MODEL_OVERRIDE_ entry exists
// for the same tenant.
func parseModelOverrides(environ []string) map[string]string {
	overrides := make(map[string]string)
	legacy := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		switch {
		case strings.HasPrefix(key, modelOverridePrefix) && len(key) > len(modelOverridePrefix):
			overrides[strings.TrimPrefix(key, modelOverridePrefix)] = value
		case strings.HasPrefix(key, legacyModelPrefix) && len(key) > len(legacyModelPrefix):
			legacy[strings.TrimPrefix(key, legacyModelPrefix)] = value
		}
	}
	for tenant, model := range legacy {
		if _, ok := overrides[tenant]; !ok {
			overrides[tenant] = model
		}
	}
	return overrides
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
