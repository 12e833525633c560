package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the docsense server.
type Config struct {
	Server   ServerConfig
	Uploads  UploadsConfig
	Redis    RedisConfig
	Analysis AnalysisConfig
	LLM      LLMConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type UploadsConfig struct {
	Dir string
}

type RedisConfig struct {
	URL string
}

type AnalysisConfig struct {
	// AgentTimeout bounds a single agent invocation, LLM attempt and
	// heuristic fallback included.
	AgentTimeout time.Duration
	Workers      int
	QueueSize    int
}

type LLMConfig struct {
	// Provider selects the language-model backend. Empty means no backend
	// is configured and every agent runs its heuristic strategy only.
	Provider string
	Timeout  time.Duration
	OpenAI   OpenAIConfig
	Groq     GroqConfig
	Ollama   OllamaConfig
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GroqConfig struct {
	APIKey string
	Model  string
}

type OllamaConfig struct {
	BaseURL string
	Model   string
}

var validProviders = map[string]bool{
	"":       true, // heuristics only
	"openai": true,
	"groq":   true,
	"ollama": true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("DOCSENSE_PORT", 8080),
			Env:  envString("DOCSENSE_ENV", "development"),
		},
		Uploads: UploadsConfig{
			Dir: envString("UPLOAD_DIR", "uploads"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Analysis: AnalysisConfig{
			AgentTimeout: envDurationSecs("AGENT_TIMEOUT_SECS", 60*time.Second),
			Workers:      envInt("ANALYSIS_WORKERS", 2),
			QueueSize:    envInt("ANALYSIS_QUEUE_SIZE", 64),
		},
		LLM: LLMConfig{
			Provider: os.Getenv("LLM_PROVIDER"),
			Timeout:  envDurationSecs("LLM_TIMEOUT_SECS", 45*time.Second),
			OpenAI: OpenAIConfig{
				APIKey:  os.Getenv("OPENAI_API_KEY"),
				Model:   envString("OPENAI_MODEL", "gpt-4o-mini"),
				BaseURL: envString("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			},
			Groq: GroqConfig{
				APIKey: os.Getenv("GROQ_API_KEY"),
				Model:  envString("GROQ_MODEL", "llama-3.3-70b-versatile"),
			},
			Ollama: OllamaConfig{
				BaseURL: envString("OLLAMA_BASE_URL", "http://localhost:11434"),
				Model:   envString("OLLAMA_MODEL", "llama3"),
			},
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Uploads.Dir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}

	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("LLM_PROVIDER must be one of openai, groq, ollama, or unset; got %q", c.LLM.Provider)
	}

	if c.LLM.Provider == "openai" && c.LLM.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER is openai")
	}
	if c.LLM.Provider == "groq" && c.LLM.Groq.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required when LLM_PROVIDER is groq")
	}

	if c.Analysis.Workers < 1 {
		return fmt.Errorf("ANALYSIS_WORKERS must be at least 1, got %d", c.Analysis.Workers)
	}
	if c.Analysis.QueueSize < 1 {
		return fmt.Errorf("ANALYSIS_QUEUE_SIZE must be at least 1, got %d", c.Analysis.QueueSize)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
