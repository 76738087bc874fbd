package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/susu753/apexub"
	"github.com/susu753/apexub/builtin"
	"github.com/susu753/apexub/table"
)

// EnvTable names the environment variable holding the default table path.
const EnvTable = "OFFSETS_TABLE"

type app struct {
	logger    *zap.Logger
	tablePath string
	logLevel  string
	logFormat string
	absolute  []string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "offsets",
		Short: "Inspect and resolve versioned game memory offsets",
		Long: `offsets reads a versioned offset table and answers which offset
applies to a given game build.

Tables are JSON or JSONL files; legacy C headers are imported on the fly.
Without --table the embedded table is used.

Example: offsets resolve yaw --version v3.0.75.30`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogging(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.tablePath, "table", os.Getenv(EnvTable), "offset table (.json, .jsonl or .h); defaults to $"+EnvTable+" or the embedded table")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "console", "log format (console, json)")
	flags.StringSliceVar(&a.absolute, "absolute", nil, "header macros holding absolute addresses")

	root.AddCommand(
		newListCmd(a),
		newResolveCmd(a),
		newDumpCmd(a),
		newCheckCmd(a),
		newConvertCmd(a),
		newBrowseCmd(a),
	)
	return root
}

func (a *app) setupLogging(cmd *cobra.Command) error {
	level, err := zapcore.ParseLevel(a.logLevel)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}

	var cfg zap.Config
	switch strings.ToLower(a.logFormat) {
	case "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.DisableStacktrace = true
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return fmt.Errorf("--log-format: unknown format %q", a.logFormat)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	a.logger = l.Named(cmd.Name())
	apexub.SetLogger(a.logger)
	return nil
}

// loadTable returns the table named by --table, or the embedded one.
func (a *app) loadTable() (*table.Table, error) {
	if a.tablePath == "" {
		return builtin.Table()
	}
	return apexub.Load(a.tablePath, apexub.WithAbsolute(a.absolute...))
}

// tableName describes the table source for headers and titles.
func (a *app) tableName() string {
	if a.tablePath == "" {
		return "embedded " + builtin.Name
	}
	return a.tablePath
}
