package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/strrl/style-dna/internal/backend"
	"github.com/strrl/style-dna/internal/catalog"
	"github.com/strrl/style-dna/internal/config"
	"github.com/strrl/style-dna/internal/db"
	"github.com/strrl/style-dna/internal/logging"
	"github.com/strrl/style-dna/internal/session"
)

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "style-dna",
	Short: "Swipe through outfits and learn a style profile",
	Long: `style-dna classifies swipe gestures on outfit cards into like, dislike and
superlike decisions and folds them into a per-user Style DNA, a score between
0 and 1 for each of six style categories.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = false

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "style-dna.yaml", "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	l, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	logger = l

	logger.Debug("Configuration loaded",
		zap.String("path", configPath),
		zap.String("user_id", cfg.Session.UserID),
		zap.String("catalog_source", cfg.Catalog.Source))

	return nil
}

func openDatabase() (*sql.DB, error) {
	database, err := db.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	logger.Debug("DuckDB opened", zap.String("path", cfg.Store.Path))
	return database, nil
}

func openStore(ctx context.Context, database *sql.DB) (*db.SwipeStore, error) {
	store, err := db.NewSwipeStore(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("failed to open swipe store: %w", err)
	}
	return store, nil
}

func newBackendClient() (*backend.Client, error) {
	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Token:   cfg.Backend.Token,
		Timeout: cfg.Backend.TimeoutDuration(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}
	return client, nil
}

// newFetcher returns the candidate source named by the catalog config.
func newFetcher(database *sql.DB) (session.Fetcher, error) {
	switch cfg.Catalog.Source {
	case config.SourceSeed:
		return catalog.New(), nil
	case config.SourceFile:
		return catalog.NewFileLoader(database, cfg.Catalog.File)
	case config.SourceBackend:
		return newBackendClient()
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

func sessionConfig() session.Config {
	return session.Config{
		UserID:                   cfg.Session.UserID,
		Thresholds:               cfg.Session.Thresholds,
		PersonalizationThreshold: cfg.Session.PersonalizationThreshold,
		QueueSize:                cfg.Session.QueueSize,
		SinkTimeout:              cfg.Session.SinkTimeoutDuration(),
	}
}

// bindCatalogFlags adds the candidate filter flags shared by swipe and
// catalog. Values override the config only when set.
func bindCatalogFlags(c *cobra.Command) {
	c.Flags().String("source", "", "Candidate source: seed, file or backend")
	c.Flags().String("file", "", "Catalog file for --source file (JSON or NDJSON)")
	c.Flags().String("gender", "", "Only show outfits for this gender (male, female)")
	c.Flags().String("style", "", "Only show outfits of this style category")
	c.Flags().Int("limit", 0, "Maximum candidates per batch")
	c.Flags().Int("skip", 0, "Candidates to skip before the first batch")
}

func applyCatalogFlags(c *cobra.Command) (skip int, err error) {
	flags := c.Flags()
	if flags.Changed("source") {
		cfg.Catalog.Source, _ = flags.GetString("source")
	}
	if flags.Changed("file") {
		cfg.Catalog.File, _ = flags.GetString("file")
	}
	if flags.Changed("gender") {
		cfg.Catalog.Gender, _ = flags.GetString("gender")
	}
	if flags.Changed("style") {
		cfg.Catalog.StyleCategory, _ = flags.GetString("style")
	}
	if flags.Changed("limit") {
		cfg.Catalog.Limit, _ = flags.GetInt("limit")
	}
	skip, _ = flags.GetInt("skip")

	return skip, cfg.Validate()
}
