// Package config resolves process configuration once at startup from
// defaults, an optional YAML file and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SHivit700/InteLect/internal/llm"
)

type Config struct {
	LLM     llm.Config    `yaml:"llm"`
	Quiz    QuizConfig    `yaml:"quiz"`
	Judge   JudgeConfig   `yaml:"judge"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	DB      DBConfig      `yaml:"db"`
	Tracing TracingConfig `yaml:"tracing"`
}

type QuizConfig struct {
	// UseTools selects the tool-assisted generator over the repair loop.
	UseTools          bool `yaml:"use_tools"`
	MaxRepairAttempts int  `yaml:"max_repair_attempts"`
	StructuredOutput  bool `yaml:"structured_output"`
	ToolIterations    int  `yaml:"tool_iterations"`
	// SegmentConcurrency limits parallel per-segment generation.
	SegmentConcurrency int `yaml:"segment_concurrency"`
}

type JudgeConfig struct {
	MaxIterations int `yaml:"max_iterations"`
	MinTokenLen   int `yaml:"min_token_len"`
	PrefixLen     int `yaml:"prefix_len"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	// Mode is "dev" or "prod".
	Mode string `yaml:"mode"`
}

type DBConfig struct {
	// Path of the LLM event database. Empty means the XDG default;
	// "off" disables event logging.
	Path string `yaml:"path"`
}

type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

func Default() Config {
	return Config{
		LLM: llm.DefaultConfig(),
		Quiz: QuizConfig{
			MaxRepairAttempts:  2,
			ToolIterations:     25,
			SegmentConcurrency: 4,
		},
		Judge: JudgeConfig{MaxIterations: 10, MinTokenLen: 2, PrefixLen: 15},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Log:     LogConfig{Mode: "dev"},
		Tracing: TracingConfig{Exporter: "stdout"},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/intelect/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "intelect", "config.yaml"), nil
}

// Load layers defaults, the YAML file at path and the environment. An
// explicit path must exist; with an empty path the default location is
// read only if present.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case explicit || !errors.Is(err, os.ErrNotExist):
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overlays INTELECT_* variables, PORT and HOST onto cfg. When the
// selected provider still has no key, the standard provider key variables
// are probed.
func ApplyEnv(cfg *Config) error {
	llm.ApplyEnv(&cfg.LLM)
	if !cfg.LLM.HasKey() {
		if found, ok := llm.DiscoverConfig(); ok {
			cfg.LLM.Provider = found.Provider
			cfg.LLM.Anthropic.APIKey = found.Anthropic.APIKey
			cfg.LLM.OpenAI.APIKey = found.OpenAI.APIKey
			cfg.LLM.Gemini.APIKey = found.Gemini.APIKey
			cfg.LLM.OpenRouter.APIKey = found.OpenRouter.APIKey
		}
	}

	setString(&cfg.Log.Mode, "INTELECT_LOG_MODE")
	setString(&cfg.DB.Path, "INTELECT_DB")
	setString(&cfg.Server.Host, "HOST")
	setString(&cfg.Server.Host, "INTELECT_HOST")
	setString(&cfg.Tracing.Exporter, "INTELECT_TRACING_EXPORTER")
	if v := os.Getenv("INTELECT_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}

	ints := []struct {
		dst *int
		key string
	}{
		{&cfg.Server.Port, "PORT"},
		{&cfg.Server.Port, "INTELECT_PORT"},
		{&cfg.Quiz.MaxRepairAttempts, "INTELECT_MAX_REPAIR_ATTEMPTS"},
		{&cfg.Quiz.SegmentConcurrency, "INTELECT_SEGMENT_CONCURRENCY"},
		{&cfg.Judge.MinTokenLen, "INTELECT_JUDGE_MIN_TOKEN_LEN"},
		{&cfg.Judge.PrefixLen, "INTELECT_JUDGE_PREFIX_LEN"},
	}
	for _, e := range ints {
		if err := setInt(e.dst, e.key); err != nil {
			return err
		}
	}

	bools := []struct {
		dst *bool
		key string
	}{
		{&cfg.Quiz.UseTools, "INTELECT_USE_TOOLS"},
		{&cfg.Quiz.StructuredOutput, "INTELECT_STRUCTURED_OUTPUT"},
		{&cfg.Tracing.Enabled, "INTELECT_TRACING"},
	}
	for _, e := range bools {
		if err := setBool(e.dst, e.key); err != nil {
			return err
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Quiz.MaxRepairAttempts < 0 {
		return fmt.Errorf("quiz max_repair_attempts must not be negative, got %d", c.Quiz.MaxRepairAttempts)
	}
	if c.Quiz.SegmentConcurrency < 1 {
		return fmt.Errorf("quiz segment_concurrency must be at least 1, got %d", c.Quiz.SegmentConcurrency)
	}
	if c.Judge.MinTokenLen < 0 || c.Judge.PrefixLen < 0 {
		return errors.New("judge min_token_len and prefix_len must not be negative")
	}
	switch strings.ToLower(c.Log.Mode) {
	case "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("unknown log mode %q", c.Log.Mode)
	}
	if c.Tracing.Enabled && c.Tracing.Exporter != "stdout" {
		return fmt.Errorf("unsupported tracing exporter %q", c.Tracing.Exporter)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
