package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fkarrer/knuspr/config"
	"github.com/fkarrer/knuspr/knuspr"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *knuspr.Client

	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build metadata injected by the linker.
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "knuspr",
	Short: "Order groceries from knuspr.de from the command line",
	Long: `knuspr is a CLI for the knuspr.de grocery-delivery service: search
products, manage your cart, check delivery slots, and browse your order
history. Credentials come from KNUSPR_USERNAME / KNUSPR_PASSWORD or a
config file.

Each subcommand performs one login-operation-logout cycle.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp loads the configuration and creates the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// version and update run without credentials
	switch cmd.Name() {
	case "version", "update":
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg)

	client, err = knuspr.NewClient(
		cfg.BaseURL,
		cfg.Username,
		cfg.Password,
		knuspr.WithTimeout(time.Duration(cfg.RequestTimeout*float64(time.Second))),
		knuspr.WithMinRequestInterval(time.Duration(cfg.MinRequestInterval*float64(time.Second))),
		knuspr.WithLanguage(cfg.Language),
		knuspr.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create knuspr client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	if cfg.Debug {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Logging.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Logging.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
