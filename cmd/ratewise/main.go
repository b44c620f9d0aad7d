package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/iwvelando/ratewise/internal/cache"
	"github.com/iwvelando/ratewise/internal/calculator"
	"github.com/iwvelando/ratewise/internal/catalog"
	"github.com/iwvelando/ratewise/internal/config"
	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/output"
	"github.com/iwvelando/ratewise/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

// app carries state shared by every subcommand once the root command has
// loaded configuration.
type app struct {
	configPath     string
	outputOverride string
	logLevel       string

	conf         *config.Configuration
	outputFormat string
	logger       *zap.Logger
	cache        cache.Cache
	service      *calculator.Service
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ratewise",
		Short: "Tax, salary, interest and retirement calculators",
		Long: `ratewise computes VAT, US sales tax, take-home pay, hourly/salary
conversions, compound interest, loan amortization and FIRE projections.
Every calculator is also served as a JSON API by "ratewise serve".`,
		Version:            version,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&a.outputOverride, "output-format", "", "type of output override: pretty, json, csv")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		a.vatCommand(),
		a.salesTaxCommand(),
		a.salaryCommand(),
		a.hourlyCommand(),
		a.salaryToHourlyCommand(),
		a.compoundCommand(),
		a.loanCommand(),
		a.fireCommand(),
		a.ratesCommand(),
		a.serveCommand(),
	)
	return root
}

// setup loads configuration, logging, the rate catalog and the result cache.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if flag := cmd.Flags().Lookup("env-file"); flag != nil {
		if err := loadEnvFile(flag.Value.String()); err != nil {
			return err
		}
	}

	conf, err := config.LoadConfiguration(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
	}
	a.conf = conf

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	// CLI override takes precedence over config
	a.outputFormat = conf.Output.Format
	if a.outputOverride != "" {
		a.outputFormat = a.outputOverride
	}
	if a.outputFormat == "" {
		a.outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(a.outputFormat); err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	cat, err := catalog.Load(conf.Catalog.Path)
	if err != nil {
		return err
	}

	a.cache = cache.New(conf.Cache, logger)
	a.service, err = calculator.NewService(cat,
		calculator.WithCache(a.cache, conf.Cache.KeyPrefix),
		calculator.WithLogger(logger),
	)
	return err
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close cache",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return nil
}

// loadEnvFile exports the variables in path unless they are already set. A
// missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load environment file %s: %w", path, err)
	}
	return nil
}

func (a *app) render(w io.Writer, report output.Report) error {
	return output.Write(w, a.outputFormat, report)
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
