// Package main provides the entry point for the seedr CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nordluma/sqlite-mt-tests/cmd/seedr/config"
	"github.com/nordluma/sqlite-mt-tests/pkg/infrastructure/metrics"
	"github.com/nordluma/sqlite-mt-tests/pkg/namegen"
	"github.com/nordluma/sqlite-mt-tests/pkg/repositories"
	"github.com/nordluma/sqlite-mt-tests/pkg/repositories/duckdb"
	"github.com/nordluma/sqlite-mt-tests/pkg/repositories/sqlite"
	"github.com/nordluma/sqlite-mt-tests/pkg/services"
)

var (
	// Version information (set by build flags)
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "seedr",
	Short: "Concurrent single-table database seeder",
	Long: `seedr populates, queries, and clears a single users table in an
embedded database, parallelizing bulk insertion across a fixed pool of
workers that share one connection.`,
}

var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Generate a dataset and insert it with concurrent workers",
	Long: `Generate a dataset of random names and insert them through a pool
of concurrent workers, each owning a disjoint stride of the dataset.

Example:
  seedr insert
  seedr insert --workers 8 --count 10000
  seedr insert --names fake --database test.db`,
	RunE: runInsert,
}

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "List every persisted row",
	RunE:  runSelect,
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove every persisted row",
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(insertCmd, selectCmd, deleteCmd)

	// Flags shared by every subcommand
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().String("database", "test.db", "database file path")
	rootCmd.PersistentFlags().String("driver", config.DriverSQLite, "embedded engine (sqlite3, duckdb)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("metrics", false, "enable Prometheus metrics")
	rootCmd.PersistentFlags().String("metrics-address", ":9090", "metrics server address")

	// Insert flags
	insertCmd.Flags().IntP("workers", "w", 4, "number of concurrent workers")
	insertCmd.Flags().Int("count", 10000, "number of names to generate")
	insertCmd.Flags().String("names", "random", "name source (random, fake)")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(fmt.Errorf("failed to bind flags: %w", err))
	}
	if err := viper.BindPFlags(insertCmd.Flags()); err != nil {
		panic(fmt.Errorf("failed to bind flags: %w", err))
	}
	viper.SetEnvPrefix("SEEDR")
	viper.AutomaticEnv()

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("seedr\n")
			fmt.Printf("Version:    %s\n", version)
			fmt.Printf("Commit:     %s\n", commit)
			fmt.Printf("Build Date: %s\n", buildDate)
		},
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runInsert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := setupLogging(cfg.LogLevel)
	logger.Info().
		Str("database", cfg.Database).
		Str("driver", cfg.Driver).
		Int("workers", cfg.Workers).
		Int("count", cfg.Count).
		Msg("Starting insert run")

	// Metrics collector, with an HTTP endpoint for the duration of the run
	var collector metrics.Collector
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		promCollector := metrics.NewPrometheusCollector()
		collector = promCollector
		metricsServer = metrics.NewServer(cfg.Metrics.Address, promCollector)
		go func() {
			logger.Info().Str("address", cfg.Metrics.Address).Msg("Starting metrics server")
			if err := metricsServer.Start(); err != nil {
				logger.Debug().Err(err).Msg("Metrics server stopped")
			}
		}()
		defer func() {
			if err := metricsServer.Stop(); err != nil {
				logger.Error().Err(err).Msg("Error stopping metrics server")
			}
		}()
	} else {
		collector = metrics.NewNoOpCollector()
	}

	repo, err := openRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx := context.Background()
	if err := ensureSchema(ctx, repo, logger); err != nil {
		return err
	}

	gen, err := namegen.New(namegen.Source(cfg.NameSource))
	if err != nil {
		return err
	}
	users := services.BuildDataset(cfg.Count, gen)

	svc := newSeederService(repo, logger, collector)

	result, err := svc.Seed(ctx, users, cfg.Workers)
	if err != nil {
		return fmt.Errorf("seed run failed: %w", err)
	}

	logger.Info().
		Int64("inserted", result.Inserted).
		Int64("failed", result.Failed).
		Int("workers", result.Workers).
		Msg("Insert run complete")

	return nil
}

func runSelect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := setupLogging(cfg.LogLevel)

	repo, err := openRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx := context.Background()
	if err := ensureSchema(ctx, repo, logger); err != nil {
		return err
	}

	svc := newSeederService(repo, logger, metrics.NewNoOpCollector())

	users, err := svc.List(ctx)
	if err != nil {
		return fmt.Errorf("select failed: %w", err)
	}

	for _, u := range users {
		fmt.Println(u)
	}
	logger.Info().Int("count", len(users)).Msg("Select complete")

	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := setupLogging(cfg.LogLevel)

	repo, err := openRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx := context.Background()
	if err := ensureSchema(ctx, repo, logger); err != nil {
		return err
	}

	svc := newSeederService(repo, logger, metrics.NewNoOpCollector())

	n, err := svc.Clear(ctx)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	fmt.Printf("Deleted %d rows\n", n)
	return nil
}

func loadConfig() (*config.Config, error) {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &config.Config{
		Database:   viper.GetString("database"),
		Driver:     viper.GetString("driver"),
		LogLevel:   viper.GetString("log-level"),
		Workers:    viper.GetInt("workers"),
		Count:      viper.GetInt("count"),
		NameSource: viper.GetString("names"),
		Metrics: config.MetricsConfig{
			Enabled: viper.GetBool("metrics"),
			Address: viper.GetString("metrics-address"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setupLogging(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond

	var logLevel zerolog.Level
	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
		zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
			short := file
			for i := len(file) - 1; i > 0; i-- {
				if file[i] == '/' {
					short = file[i+1:]
					break
				}
			}
			return fmt.Sprintf("%s:%d", short, line)
		}
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).
		Level(logLevel).
		With().
		Timestamp().
		Str("service", "seedr").
		Str("run_id", uuid.NewString())

	if logLevel == zerolog.DebugLevel {
		logger = logger.Caller()
	}

	return logger.Logger()
}

// openRepository selects the repository backend for the configured driver.
func openRepository(cfg *config.Config, logger zerolog.Logger) (repositories.UserRepository, error) {
	repoLogger := logger.With().Str("component", "repository").Logger()

	switch cfg.Driver {
	case config.DriverDuckDB:
		return duckdb.NewUserRepository(cfg.Database, repoLogger)
	default:
		return sqlite.NewUserRepository(cfg.Database, repoLogger)
	}
}

func ensureSchema(ctx context.Context, repo repositories.UserRepository, logger zerolog.Logger) error {
	created, err := repo.EnsureSchema(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	if created {
		logger.Info().Msg("Table created")
	} else {
		logger.Info().Msg("Table exists")
	}
	return nil
}

func newSeederService(repo repositories.UserRepository, logger zerolog.Logger, collector metrics.Collector) services.SeederService {
	return services.NewSeederService(
		repo,
		&serviceLoggerAdapter{logger: logger.With().Str("component", "seeder_service").Logger()},
		&serviceMetricsAdapter{collector: collector},
	)
}

// serviceLoggerAdapter adapts zerolog.Logger to services.Logger
type serviceLoggerAdapter struct {
	logger zerolog.Logger
}

func (l *serviceLoggerAdapter) Debug(msg string, keysAndValues ...interface{}) {
	logEvent(l.logger.Debug(), msg, keysAndValues)
}

func (l *serviceLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	logEvent(l.logger.Info(), msg, keysAndValues)
}

func (l *serviceLoggerAdapter) Warn(msg string, keysAndValues ...interface{}) {
	logEvent(l.logger.Warn(), msg, keysAndValues)
}

func (l *serviceLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	logEvent(l.logger.Error(), msg, keysAndValues)
}

func logEvent(event *zerolog.Event, msg string, keysAndValues []interface{}) {
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			key := fmt.Sprintf("%v", keysAndValues[i])
			event = event.Interface(key, keysAndValues[i+1])
		}
	}
	event.Msg(msg)
}

// serviceMetricsAdapter adapts metrics.Collector to services.MetricsCollector
type serviceMetricsAdapter struct {
	collector metrics.Collector
}

func (m *serviceMetricsAdapter) IncrementCounter(name string, labels ...string) {
	m.collector.IncrementCounter(name, labels...)
}

func (m *serviceMetricsAdapter) RecordHistogram(name string, value float64, labels ...string) {
	m.collector.RecordHistogram(name, value, labels...)
}

func (m *serviceMetricsAdapter) RecordGauge(name string, value float64, labels ...string) {
	m.collector.RecordGauge(name, value, labels...)
}

func (m *serviceMetricsAdapter) StartTimer(name string) services.Timer {
	return &serviceTimerAdapter{timer: m.collector.StartTimer(name)}
}

// serviceTimerAdapter adapts metrics.Timer to services.Timer
type serviceTimerAdapter struct {
	timer metrics.Timer
}

func (t *serviceTimerAdapter) Stop() time.Duration {
	seconds := t.timer.Stop()
	return time.Duration(seconds * float64(time.Second))
}
