package main

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vinscope/vinscope/pkg/config"
	"github.com/vinscope/vinscope/pkg/decode"
	"github.com/vinscope/vinscope/pkg/pipeline"
	"github.com/vinscope/vinscope/pkg/report"
	"github.com/vinscope/vinscope/pkg/search"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "vinscope",
	Short: "Vehicle identifier intelligence lookups",
	Long: "vinscope turns a VIN or license plate into a structured report:\n" +
		"decoded registry facts, web search evidence, risk flags and a summary.",
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.config/vinscope/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.Version = version
}

// setup loads .env and the config file, then builds the logger and the
// fully wired pipeline.
func setup() (*config.Config, zerolog.Logger, *pipeline.Pipeline, error) {
	// Credentials commonly live in a local .env during development; a
	// missing file is fine.
	_ = godotenv.Load()

	path := flagConfig
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	log := newLogger(cfg.LogLevel)
	pipe := pipeline.New(
		decode.NewVPICClient(&cfg.Decode, log),
		search.NewClient(&cfg.Search, log),
		report.NewOpenAIClient(&cfg.OpenAI, log),
		log,
	)
	return cfg, log, pipe, nil
}

func newLogger(level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil && level != "" {
		lvl = parsed
	}
	if flagVerbose {
		lvl = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}
