package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/lance0/RubyRidge/internal/core/logger"
	"github.com/lance0/RubyRidge/internal/database"

	"github.com/spf13/cobra"
)

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations manually.",
	Long:  `Applies all pending migrations and exits. The server also runs them on startup.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		migrationDir, _ := cmd.Flags().GetString("dir")

		log := logger.NewLogger()
		defer log.Sync()

		if err := database.RunMigrations(log, migrationDir); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		return nil
	},
}

func Execute(ctx context.Context) {
	rootCmd := &cobra.Command{
		Use:   "rubyridge",
		Short: "Personal ammunition inventory and range trip service",
	}
	MigrateCmd.Flags().String("dir", "./migrations", "Directory containing the migration files")
	rootCmd.AddCommand(MigrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
