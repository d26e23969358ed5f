package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Grocery-Tracker/cmd/config"
	migration "Grocery-Tracker/cmd/database/migrate"
	"Grocery-Tracker/cmd/database/seed"
	"Grocery-Tracker/internal/utils"
	"Grocery-Tracker/internal/utils/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "grocery-tracker",
	Short:         "Grocery shopping list and purchase history service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&adminUsername, "admin-username", "", "also create an admin user with this username")
	seedCmd.Flags().StringVar(&adminEmail, "admin-email", "", "email for the admin user")
	seedCmd.Flags().StringVar(&adminPassword, "admin-password", "", "password for the admin user")
}

// boot loads configuration, builds the logger and opens the database.
func boot() (*gorm.DB, *zap.Logger, error) {
	utils.LoadConfig()

	log, err := logger.New(logger.ConfigFor(utils.GetConfig("APP_ENV"), utils.GetConfig("LOG_LEVEL")))
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := config.ConnectDB()
	if err != nil {
		return nil, nil, err
	}
	return db, log, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, err := boot()
		if err != nil {
			return err
		}
		defer log.Sync()

		if err := migration.Migrate(db); err != nil {
			return err
		}

		app, err := config.NewApp(db, log)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			addr := ":" + utils.GetConfig("APP_PORT")
			log.Info("http server listening", zap.String("addr", addr))
			errCh <- app.Listen(addr)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, err := boot()
		if err != nil {
			return err
		}
		defer log.Sync()

		if err := migration.Migrate(db); err != nil {
			return err
		}
		log.Info("migration complete")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the product catalog and optionally an admin user",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, err := boot()
		if err != nil {
			return err
		}
		defer log.Sync()

		if err := migration.Migrate(db); err != nil {
			return err
		}

		created, err := seed.Catalog(cmd.Context(), db)
		if err != nil {
			return err
		}
		log.Info("catalog seeded", zap.Int("created", created))

		if adminUsername == "" {
			return nil
		}
		if adminPassword == "" {
			return fmt.Errorf("--admin-password is required with --admin-username")
		}
		if adminEmail == "" {
			adminEmail = adminUsername + "@localhost"
		}
		if err := seed.Admin(cmd.Context(), db, adminUsername, adminEmail, adminPassword); err != nil {
			return err
		}
		log.Info("admin user ready", zap.String("username", adminUsername))
		return nil
	},
}
