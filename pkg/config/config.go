// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads process configuration once at startup.
//
// Sources are layered in this order, later ones winning: built-in defaults,
// an optional YAML file, the historical flat environment names
// (AI_PROVIDER, GEMINI_API_KEY, ...), RULESETGEN_<SECTION>_<KEY> variables
// and finally explicit key=value overrides.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jllopis/rulesetgen/pkg/errors"
)

// EnvPrefix prefixes structured environment variables.
const EnvPrefix = "RULESETGEN_"

type Config struct {
	Log       LogConfig       `koanf:"log"`
	LLM       LLMConfig       `koanf:"llm"`
	Server    ServerConfig    `koanf:"server"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, text
}

type LLMConfig struct {
	Provider   string        `koanf:"provider"` // gemini, openai, anthropic, ollama, qwen
	Timeout    time.Duration `koanf:"timeout"`
	HealthTTL  time.Duration `koanf:"health_ttl"`
	Guardrails bool          `koanf:"guardrails"` // prompt injection screening of free-text fields

	Gemini    GeminiConfig    `koanf:"gemini"`
	OpenAI    OpenAIConfig    `koanf:"openai"`
	Anthropic AnthropicConfig `koanf:"anthropic"`
	Ollama    OllamaConfig    `koanf:"ollama"`
	Qwen      QwenConfig      `koanf:"qwen"`
}

type GeminiConfig struct {
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
}

type OpenAIConfig struct {
	APIKey      string  `koanf:"api_key"`
	Model       string  `koanf:"model"`
	BaseURL     string  `koanf:"base_url"`
	MaxTokens   int64   `koanf:"max_tokens"`
	Temperature float64 `koanf:"temperature"`
}

type AnthropicConfig struct {
	APIKey    string `koanf:"api_key"`
	Model     string `koanf:"model"`
	BaseURL   string `koanf:"base_url"`
	MaxTokens int64  `koanf:"max_tokens"`
}

type OllamaConfig struct {
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
}

type QwenConfig struct {
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
}

type ServerConfig struct {
	Host           string   `koanf:"host"`
	Port           int      `koanf:"port"`
	AllowedOrigins []string `koanf:"allowed_origins"`
	GRPCAddr       string   `koanf:"grpc_addr"` // empty disables the gRPC health server
}

type TelemetryConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Exporter     string `koanf:"exporter"` // stdout, otlp, none
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
	ServiceName  string `koanf:"service_name"`
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

var defaults = map[string]any{
	"log.level":  "info",
	"log.format": "text",

	"llm.provider":   "gemini",
	"llm.timeout":    "60s",
	"llm.health_ttl": "30s",
	"llm.guardrails": true,

	"llm.gemini.api_key":  "",
	"llm.gemini.model":    "gemini-1.5-flash",
	"llm.gemini.base_url": "",

	"llm.openai.api_key":     "",
	"llm.openai.model":       "gpt-3.5-turbo",
	"llm.openai.base_url":    "",
	"llm.openai.max_tokens":  4000,
	"llm.openai.temperature": 0.7,

	"llm.anthropic.api_key":    "",
	"llm.anthropic.model":      "claude-sonnet-4-20250514",
	"llm.anthropic.base_url":   "",
	"llm.anthropic.max_tokens": 4096,

	"llm.ollama.base_url": "http://localhost:11434",
	"llm.ollama.model":    "llama3.2",

	"llm.qwen.api_key":  "",
	"llm.qwen.model":    "qwen-plus",
	"llm.qwen.base_url": "https://dashscope.aliyuncs.com/compatible-mode/v1",

	"server.host":            "127.0.0.1",
	"server.port":            8001,
	"server.allowed_origins": []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:8001"},
	"server.grpc_addr":       "",

	"telemetry.enabled":       false,
	"telemetry.exporter":      "stdout",
	"telemetry.otlp_endpoint": "localhost:4317",
	"telemetry.otlp_insecure": true,
	"telemetry.service_name":  "rulesetgen",
}

// flatEnv maps the unprefixed variable names used by earlier deployments.
var flatEnv = map[string]string{
	"AI_PROVIDER":       "llm.provider",
	"GEMINI_API_KEY":    "llm.gemini.api_key",
	"GEMINI_MODEL":      "llm.gemini.model",
	"OPENAI_API_KEY":    "llm.openai.api_key",
	"OPENAI_MODEL":      "llm.openai.model",
	"OPENAI_BASE_URL":   "llm.openai.base_url",
	"ANTHROPIC_API_KEY": "llm.anthropic.api_key",
	"ANTHROPIC_MODEL":   "llm.anthropic.model",
	"OLLAMA_BASE_URL":   "llm.ollama.base_url",
	"OLLAMA_MODEL":      "llm.ollama.model",
	"DASHSCOPE_API_KEY": "llm.qwen.api_key",
	"QWEN_MODEL":        "llm.qwen.model",
	"QWEN_BASE_URL":     "llm.qwen.base_url",
	"HOST":              "server.host",
	"PORT":              "server.port",
}

// Load reads configuration from defaults, the optional YAML file at path,
// the environment and overrides of the form "key=value".
func Load(path string, overrides ...string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, errors.Configuration("failed to set default "+key, err)
		}
	}

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Configuration("failed to load config file", err).WithContext("path", path)
		}
	}

	// 2. Flat names (GEMINI_API_KEY -> llm.gemini.api_key)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return flatEnv[s]
	}), nil); err != nil {
		return nil, errors.Configuration("failed to load environment", err)
	}

	// 3. Prefixed names (RULESETGEN_LLM_HEALTH_TTL -> llm.health_ttl)
	known := envKeys(k.Keys())
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return known[strings.ToLower(strings.TrimPrefix(s, EnvPrefix))]
	}), nil); err != nil {
		return nil, errors.Configuration("failed to load environment", err)
	}

	// 4. Explicit overrides
	for _, o := range overrides {
		key, value, err := ParseOverride(o)
		if err != nil {
			return nil, err
		}
		if err := k.Set(key, value); err != nil {
			return nil, errors.Configuration("failed to apply override "+key, err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{DecoderConfig: decoderConfig()}); err != nil {
		return nil, errors.Configuration("failed to decode configuration", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.Server.AllowedOrigins = trimList(cfg.Server.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// trimList drops blank entries and surrounding space, so "a, b," yields
// [a b].
func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// decoderConfig extends the koanf defaults so that list values coming from
// the environment as "a,b" decode into slices.
func decoderConfig() *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		WeaklyTypedInput: true,
	}
}

// envKeys indexes every configuration key by its underscore form, so that
// llm_health_ttl resolves to llm.health_ttl rather than llm.health.ttl.
func envKeys(keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		out[strings.ReplaceAll(key, ".", "_")] = key
	}
	return out
}

// ParseOverride splits a "key=value" override.
func ParseOverride(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", errors.Configuration(fmt.Sprintf("invalid override %q, expected key=value", s), nil)
	}
	return key, strings.TrimSpace(value), nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Configuration("failed to load "+f, err)
		}
	}
	return nil
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
	exporters  = []string{"stdout", "otlp", "none"}
)

// Validate checks values that cannot be deferred to first use. Provider
// selectors are validated by the service registry.
func (c *Config) Validate() error {
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return errors.Configuration(fmt.Sprintf("invalid log level %q", c.Log.Level), nil).
			WithContext("allowed", logLevels)
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		return errors.Configuration(fmt.Sprintf("invalid log format %q", c.Log.Format), nil).
			WithContext("allowed", logFormats)
	}
	if c.LLM.Timeout < 0 {
		return errors.Configuration("llm.timeout must not be negative", nil)
	}
	if c.LLM.HealthTTL < 0 {
		return errors.Configuration("llm.health_ttl must not be negative", nil)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.Configuration(fmt.Sprintf("invalid server port %d", c.Server.Port), nil)
	}
	for _, origin := range c.Server.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return errors.Configuration(fmt.Sprintf("invalid allowed origin %q, expected http(s)://host or *", origin), nil)
		}
	}
	if c.Telemetry.Enabled && !slices.Contains(exporters, c.Telemetry.Exporter) {
		return errors.Configuration(fmt.Sprintf("invalid telemetry exporter %q", c.Telemetry.Exporter), nil).
			WithContext("allowed", exporters)
	}
	return nil
}
