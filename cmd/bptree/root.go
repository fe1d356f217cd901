package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bptree"
	"bptree/internal/config"
	"bptree/logger"
)

var (
	configPath string
	logFormat  string
)

// RootCmd is the bptree command line.
var RootCmd = &cobra.Command{
	Use:           "bptree",
	Short:         "In-memory B+ tree driver",
	Long:          "Runs B+ tree instruction files and serves in-memory B+ tree indexes over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log backend: zap, logrus or discard")

	RootCmd.AddCommand(runCmd, serveCmd, versionCmd)
}

// Execute runs the root command
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads --config when given and applies the persistent flag
// overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = logFormat
	}

	return cfg, config.Validate(cfg)
}

// newLogger builds the configured logging backend. The returned func flushes
// buffered entries and must be called before exit.
func newLogger(cfg config.LogConfig) (bptree.Logger, func(), error) {
	switch strings.ToLower(cfg.Format) {
	case config.LogFormatZap:
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, err
		}
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(level)
		zl, err := zc.Build()
		if err != nil {
			return nil, nil, err
		}
		return logger.NewZap(zl), func() { _ = zl.Sync() }, nil

	case config.LogFormatLogrus:
		level, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, err
		}
		ll := logrus.New()
		ll.SetOutput(os.Stderr)
		ll.SetLevel(level)
		return logger.NewLogrus(ll), func() {}, nil

	default:
		return bptree.DiscardLogger{}, func() {}, nil
	}
}
