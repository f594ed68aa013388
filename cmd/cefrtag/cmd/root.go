package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/cefrtag/internal/app"
	"github.com/corey/cefrtag/internal/config"
)

var (
	flagConfig   string
	flagKind     string
	flagVocab    string
	flagDB       string
	flagName     string
	flagLogLevel string
	flagColor    string
	flagNoColor  bool

	useColor bool
)

var rootCmd = &cobra.Command{
	Use:           "cefrtag",
	Short:         "cefrtag ⚡ CEFR vocabulary tagger",
	Long:          "Tags words in text with their CEFR level (A1-C1) using a graded vocabulary list.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		useColor = resolveColor(flagColor, flagNoColor)
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", paint(colorRed, "error:"), err)
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "config file (default $CEFRTAG_CONFIG or ./cefrtag.yaml)")
	pf.StringVar(&flagKind, "source", "", "vocabulary source kind: file, bolt or builtin")
	pf.StringVar(&flagVocab, "vocab", "", "vocabulary file path (kind file)")
	pf.StringVar(&flagDB, "db", "", "bbolt database path (kind bolt)")
	pf.StringVar(&flagName, "name", "", "stored vocabulary name (kind bolt)")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flagColor, "color", "auto", "color output: auto, always, never")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable color output")

	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the config file and environment, then applies flags
// that were set explicitly. Flags win over both.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Vocab.Kind = flagKind
	}
	if flags.Changed("vocab") {
		cfg.Vocab.Path = flagVocab
		if !flags.Changed("source") {
			cfg.Vocab.Kind = config.SourceFile
		}
	}
	if flags.Changed("db") {
		cfg.Vocab.DBPath = flagDB
	}
	if flags.Changed("name") {
		cfg.Vocab.Name = flagName
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// openApp loads config, sets up logging and wires the application.
// Callers must Close (one-shot) or Stop (serve) the result.
func openApp(cmd *cobra.Command, tweak func(*config.Config)) (*app.App, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if tweak != nil {
		tweak(cfg)
	}
	logger := app.NewLogger(cfg.Log)

	a, err := app.New(cfg, logger)
	if err != nil {
		if isDBLockError(err) {
			return nil, nil, fmt.Errorf("%w\n%s", err, dbLockHint(cfg.Vocab.DBPath))
		}
		return nil, nil, err
	}
	return a, logger, nil
}
