package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/s0up4200/forecastctl/config"
	"github.com/s0up4200/forecastctl/filter"
	"github.com/s0up4200/forecastctl/forecast"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	logFile   io.Closer
	api       *forecast.API
	filters   *filter.Manager
	renderOut *renderer

	// Global flags
	outputFormat string
	jqExpr       string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "forecastctl",
	Short: "Query Harvest Forecast from the command line",
	Long: `forecastctl reads projects, people, assignments and milestones from the
Harvest Forecast API and renders them as tables, JSON or YAML.

Lists can be narrowed client-side with expressions (--where) or presets saved
in the config file, and the schedule command joins assignments into a
per-person booking report.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
	SilenceUsage:       true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table, json or yaml (default from config)")
	rootCmd.PersistentFlags().StringVar(&jqExpr, "jq", "", "jq expression applied to the JSON form of the result")
}

// initializeApp loads the configuration and builds the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logFile, err = setupLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	format := cfg.Output.Format
	if cmd.Flags().Changed("output") {
		format = outputFormat
	}
	renderOut, err = newRenderer(cmd.OutOrStdout(), format, jqExpr)
	if err != nil {
		return err
	}

	timeout, err := cfg.Forecast.TimeoutDuration()
	if err != nil {
		return err
	}

	api, err = forecast.New(
		cfg.Forecast.AccessToken,
		forecast.AccountIDOf(cfg.Forecast.AccountID),
		logger,
		forecast.WithBaseURL(cfg.Forecast.BaseURL),
		forecast.WithTimeout(timeout),
		forecast.WithUserAgent(userAgent()),
	)
	if err != nil {
		return fmt.Errorf("failed to create Forecast client: %w", err)
	}

	filters, err = newFilterManager(cfg.Filter)
	if err != nil {
		return err
	}

	logger.Debug().
		Str("base_url", cfg.Forecast.BaseURL).
		Int64("account_id", cfg.Forecast.AccountID).
		Strs("presets", filters.ListFilters()).
		Msg("Initialized")

	return nil
}

// shutdownApp flushes the rotated log file, if any
func shutdownApp(cmd *cobra.Command, args []string) error {
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}

// newFilterManager compiles the configured presets up front so a broken
// expression is reported before any request is made
func newFilterManager(fc config.FilterConfig) (*filter.Manager, error) {
	manager := filter.NewManager(
		filter.WithCompiler(filter.NewExprCompiler(filter.WithCache(fc.CacheSize))),
		filter.WithDefaultExpression(fc.DefaultExpression),
	)

	presets := make(map[string]string, len(fc.Presets))
	for name, p := range fc.Presets {
		presets[name] = p.Expression
	}
	if err := manager.RegisterFilters(presets); err != nil {
		return nil, fmt.Errorf("invalid filter preset: %w", err)
	}

	return manager, nil
}

// userAgent appends the build version to the configured user agent
func userAgent() string {
	ua := cfg.Forecast.UserAgent
	if ua == forecast.DefaultUserAgent && version != "" {
		ua += "/" + version
	}
	return ua
}

// setupLogger configures the zerolog logger. When a log file is configured the
// returned closer must be closed on exit.
func setupLogger(lc config.LoggingConfig) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(lc.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var console io.Writer
	if lc.Format == "json" {
		console = os.Stderr
	} else {
		console = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    !lc.Color || !isatty.IsTerminal(os.Stderr.Fd()),
		}
	}

	if lc.File.Path == "" {
		return zerolog.New(console).Level(level).With().Timestamp().Logger(), nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(lc.File.Path), 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}

	file := &lumberjack.Logger{
		Filename:   lc.File.Path,
		MaxSize:    lc.File.MaxSizeMB,
		MaxBackups: lc.File.MaxBackups,
		MaxAge:     lc.File.MaxAgeDays,
		Compress:   lc.File.Compress,
		LocalTime:  true,
	}

	// the file always gets JSON lines
	out := zerolog.MultiLevelWriter(console, file)
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), file, nil
}
