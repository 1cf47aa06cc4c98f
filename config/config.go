package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	ContractHTML  = "html"
	ContractFiles = "files"
)

const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultGeminiModel    = "gemini-1.5-flash"
	defaultMaxTokens      = 10000
	defaultBuildsDir      = "builds"
	defaultCounterPath    = "build_count.txt"
	defaultErrorLogPath   = "error_log.jsonl"
	defaultServerAddr     = ":8080"
	defaultRequestTimeout = 120
)

// Config holds provider credentials and the on-disk layout of the builds.
type Config struct {
	IAUsed         string `json:"ia_used"`
	OpenAIKey      string `json:"api_key_open_ai,omitempty"`
	GeminiKey      string `json:"api_key_gemini,omitempty"`
	OpenAIModel    string `json:"openai_model,omitempty"`
	GeminiModel    string `json:"gemini_model,omitempty"`
	OpenAIBaseURL  string `json:"openai_base_url,omitempty"`
	GeminiBaseURL  string `json:"gemini_base_url,omitempty"`
	MaxTokens      int    `json:"max_tokens,omitempty"`
	OutputContract string `json:"output_contract,omitempty"`

	BuildsDir    string `json:"builds_dir,omitempty"`
	CounterPath  string `json:"counter_path,omitempty"`
	ErrorLogPath string `json:"error_log_path,omitempty"`

	ServerAddr            string `json:"server_addr,omitempty"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds,omitempty"`
}

// Load reads JSON config from disk, then applies .env and environment
// overrides. A missing file is not an error: defaults and env still apply.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, err
		default:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.IAUsed, "IA_USED")
	setFromEnv(&c.OpenAIKey, "OPENAI_API_KEY")
	setFromEnv(&c.GeminiKey, "GEMINI_API_KEY")
	setFromEnv(&c.OpenAIModel, "OPENAI_MODEL")
	setFromEnv(&c.GeminiModel, "GEMINI_MODEL")
	setFromEnv(&c.OutputContract, "OUTPUT_CONTRACT")
	setFromEnv(&c.BuildsDir, "BUILDS_DIR")
	setFromEnv(&c.ServerAddr, "SERVER_ADDR")
	if v, err := strconv.Atoi(os.Getenv("MAX_TOKENS")); err == nil && v > 0 {
		c.MaxTokens = v
	}
}

func (c *Config) applyDefaults() {
	if c.IAUsed == "" {
		c.IAUsed = ProviderOpenAI
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = defaultOpenAIModel
	}
	if c.GeminiModel == "" {
		c.GeminiModel = defaultGeminiModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.OutputContract == "" {
		c.OutputContract = ContractHTML
	}
	if c.BuildsDir == "" {
		c.BuildsDir = defaultBuildsDir
	}
	if c.CounterPath == "" {
		c.CounterPath = defaultCounterPath
	}
	if c.ErrorLogPath == "" {
		c.ErrorLogPath = defaultErrorLogPath
	}
	if c.ServerAddr == "" {
		c.ServerAddr = defaultServerAddr
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = defaultRequestTimeout
	}
}

// Validate rejects unknown providers and output contracts. A deployment
// serves exactly one contract.
func (c Config) Validate() error {
	switch c.IAUsed {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("ia_used %q not supported (want %s or %s)", c.IAUsed, ProviderOpenAI, ProviderGemini)
	}
	switch c.OutputContract {
	case ContractHTML, ContractFiles:
	default:
		return fmt.Errorf("output_contract %q not supported (want %s or %s)", c.OutputContract, ContractHTML, ContractFiles)
	}
	return nil
}

// APIKey returns the key of the selected provider.
func (c Config) APIKey() string {
	if c.IAUsed == ProviderGemini {
		return c.GeminiKey
	}
	return c.OpenAIKey
}

// Model returns the model name of the selected provider.
func (c Config) Model() string {
	if c.IAUsed == ProviderGemini {
		return c.GeminiModel
	}
	return c.OpenAIModel
}

// BaseURL returns the endpoint override of the selected provider, if any.
func (c Config) BaseURL() string {
	if c.IAUsed == ProviderGemini {
		return c.GeminiBaseURL
	}
	return c.OpenAIBaseURL
}

// HasProviderKey reports whether generation is possible. Without a key the
// server only hands out existing builds.
func (c Config) HasProviderKey() bool {
	return c.APIKey() != ""
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
