package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/SHivit700/InteLect/internal/config"
	"github.com/SHivit700/InteLect/internal/llm"
	"github.com/SHivit700/InteLect/internal/logger"
	"github.com/SHivit700/InteLect/internal/store"
	"github.com/SHivit700/InteLect/internal/tracing"
)

var rootCmd = &cobra.Command{
	Use:   "intelect",
	Short: "Quiz generation and answer validation for lecture transcripts",
	Long: "InteLect turns lecture transcripts into short multiple-choice and short-answer quizzes, " +
		"judges learner answers, and recommends segments to rewatch.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (default $XDG_CONFIG_HOME/intelect/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite LLM event database, or \"off\" (overrides INTELECT_DB)")
	rootCmd.PersistentFlags().String("log-mode", "", "Log mode: dev or prod (overrides INTELECT_LOG_MODE)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(adaptiveCmd)
	rootCmd.AddCommand(judgeCmd)
	rootCmd.AddCommand(recapCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration once: defaults, then the YAML file,
// then the environment, then command-line flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB.Path = p
	}
	if m, _ := cmd.Flags().GetString("log-mode"); m != "" {
		cfg.Log.Mode = m
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path, or the default XDG
// path when none is set. "off" yields an empty path.
func resolveDBPath(cfg config.Config) (string, error) {
	switch cfg.DB.Path {
	case "off":
		return "", nil
	case "":
		return store.DefaultDBPath()
	default:
		return cfg.DB.Path, store.EnsureDir(cfg.DB.Path)
	}
}

// runtime holds the process-wide dependencies shared by every command.
type runtime struct {
	cfg      config.Config
	log      *logger.Logger
	store    *store.Store
	provider llm.Provider

	shutdownTracing tracing.Shutdown
}

// newRuntime builds the logger, event store, tracer and LLM provider. When
// requireProvider is false a missing API key leaves provider nil instead
// of failing.
func newRuntime(cmd *cobra.Command, requireProvider bool) (*runtime, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	llmErr := cfg.LLM.Validate()
	check := cfg
	if llmErr != nil && !requireProvider {
		// Only the non-LLM settings matter without a provider.
		check.LLM = llm.DefaultConfig()
		check.LLM.Provider = "mock"
	}
	if err := check.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, log: log}

	shutdown, err := tracing.Init(ctx, cfg.Tracing, version, os.Stderr, log)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	rt.shutdownTracing = shutdown

	var events store.EventRepo = store.NopEventRepo{}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("open database: %w", err)
		}
		rt.store = st
		events = st.EventRepo()
	}

	if llmErr != nil {
		log.Warn("llm provider not configured, AI features unavailable", "error", llmErr)
		return rt, nil
	}
	provider, err := llm.NewProvider(ctx, cfg.LLM, events, log)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("create llm provider: %w", err)
	}
	rt.provider = provider
	return rt, nil
}

// Close flushes traces, closes the store and syncs the logger.
func (r *runtime) Close() {
	if r.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.shutdownTracing(ctx); err != nil {
			r.log.Warn("tracing shutdown", "error", err)
		}
		cancel()
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.log.Warn("close database", "error", err)
		}
	}
	r.log.Sync()
}
