package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/franckalain/recipebook/internal/config"
	"github.com/franckalain/recipebook/internal/database"
	"github.com/franckalain/recipebook/internal/logging"
	"github.com/franckalain/recipebook/internal/recipeapi"
	"github.com/franckalain/recipebook/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool
	force      bool

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "recipebook",
	Short: "Recipe form service",
	Long: `recipebook serves the recipe site's form pages and drives the recipe API
on their behalf: it validates drafts, creates and edits recipes with their
ingredients and instructions, keeps signed-in visitors off the guest pages and
builds CMS image URLs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger, err = logging.New(cfg.Logging, verbose || cfg.Server.Debug)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the effective configuration to the config path",
	Long: `Writes the configuration in effect (defaults plus environment overrides)
to --config so it can be edited by hand. An existing file is kept unless
--force is given.`,
	RunE: runInitConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.GetConfigPath(), "path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	initConfigCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	rootCmd.AddCommand(serveCmd, initConfigCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewSQLiteDB(cfg.Database.Path, logger.Named("db"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	timeout, err := cfg.APITimeout()
	if err != nil {
		return err
	}
	api := recipeapi.NewClient(cfg.API.BaseURL, timeout, logger.Named("api"))

	if cfg.CMS.ProjectID == "" || cfg.CMS.Dataset == "" {
		logger.Warn("CMS project or dataset not configured; image URLs will be unavailable")
	}

	srv := server.New(cfg, db, api, logger)
	return srv.Start(ctx)
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", configPath)
	}
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	logger.Info("Configuration written", zap.String("path", configPath))
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
