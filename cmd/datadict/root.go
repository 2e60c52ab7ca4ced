package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/datadict/internal/config"
	"github.com/yanizio/datadict/internal/logger"
	"github.com/yanizio/datadict/internal/specfile"
)

var (
	// Global flags
	cfgFile  string
	logDir   string
	logLevel string
	specPath string
	skipStat bool
)

// Shared state, populated by PersistentPreRunE.
var (
	cfg   *config.Config
	log   *zap.SugaredLogger
	store *specfile.Store
)

var rootCmd = &cobra.Command{
	Use:   "datadict",
	Short: "Validate data dictionaries and derive tabular parser arguments",
	Long: `datadict checks declarative data dictionaries (column names, types,
date columns, file location, delimiter) and turns them into the argument set
a CSV/TSV reader needs: filepath_or_buffer, sep, nrows, dtype, usecols, and
parse_dates.

Specification collections are YAML files mapping dataset names to
dictionaries.  Per-dataset values can be overridden from the environment,
e.g. DDSPEC_IRIS__PATH=/data/iris.csv.`,
	SilenceUsage:      true,
	PersistentPreRunE: bootstrap,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file path (YAML)")
	pf.StringVar(&logDir, "log-dir", "", "write JSON logs to this directory")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn, or error")
	pf.StringVarP(&specPath, "specfile", "f", "", "specification collection file")
	pf.BoolVar(&skipStat, "skip-stat", false, "accept absolute data paths without checking they exist")
}

// bootstrap loads config, applies flag overrides, and builds the logger
// and store shared by every sub-command.
func bootstrap(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-dir") {
		cfg.Logging.Dir = logDir
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("specfile") {
		cfg.Specfile = specPath
	}
	if flags.Changed("skip-stat") {
		cfg.SkipStat = skipStat
	}

	log, err = logger.New(cfg.Logging.Dir, cfg.Logging.Tee, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}

	store = specfile.NewStore(specfile.Options{
		CacheEntries: cfg.Cache.Entries,
		EnvPrefix:    cfg.EnvPrefix,
		Logger:       log,
	})
	return nil
}
