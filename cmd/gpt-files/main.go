package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/hn12404988/gpt-files/internal/config"
	"github.com/hn12404988/gpt-files/internal/convert"
	"github.com/hn12404988/gpt-files/internal/manager"
	"github.com/hn12404988/gpt-files/internal/openai"
)

var (
	cfgPath       string
	flagAssistant string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:          "gpt-files",
	Short:        "Manage OpenAI assistants, files and vector stores",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "config file path")
	rootCmd.PersistentFlags().StringVarP(&flagAssistant, "assistant", "a", "", "assistant id (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

var loadedCfg *config.Config

// loadConfig reads the config file once per invocation; later callers
// in the same command get the cached value.
func loadConfig() *config.Config {
	if loadedCfg != nil {
		return loadedCfg
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	loadedCfg = cfg
	return cfg
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if flagVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}

// newClient builds the API client from config.
func newClient() (*openai.Client, error) {
	cfg := loadConfig()
	setupLogging(cfg)
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("API key not set (set OPENAI_API_KEY or openai.api_key in %s)", cfgPath)
	}
	return openai.NewClient(openai.Config{
		BaseURL: cfg.OpenAI.BaseURL,
		APIKey:  cfg.OpenAI.APIKey,
		Logger:  slog.Default(),
	}), nil
}

// newManager builds the orchestrator. Token estimation is best-effort:
// when the tokenizer cannot be constructed, uploads proceed without it.
func newManager() (*manager.Manager, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	tokens, err := convert.NewTokenEstimator()
	if err != nil {
		slog.Debug("token estimator unavailable", "error", err)
		tokens = nil
	}
	return manager.New(client, client, client, tokens, slog.Default()), nil
}

// assistantID resolves the target assistant: the -a flag wins, then the
// configured default.
func assistantID() (string, error) {
	if flagAssistant != "" {
		return flagAssistant, nil
	}
	cfg := loadConfig()
	if cfg.OpenAI.AssistantID != "" {
		return cfg.OpenAI.AssistantID, nil
	}
	return "", fmt.Errorf("no assistant id: pass --assistant or set OPENAI_ASSISTANT_ID")
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("render output: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}

func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
