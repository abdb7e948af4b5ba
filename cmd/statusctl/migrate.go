package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"statusline/internal/platform/config"
	"statusline/internal/platform/postgres"
)

func migrateCmd() *cobra.Command {
	var (
		databaseURL string
		printOnly   bool
		timeout     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema",
		Long: `Migrate applies the embedded schema to the database named by --database-url,
or DATABASE_URL when the flag is absent. Statements are idempotent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if printOnly {
				_, err := fmt.Fprint(cmd.OutOrStdout(), postgres.Schema())
				return err
			}

			if databaseURL == "" {
				cfg, err := config.FromEnv()
				if err != nil {
					return err
				}
				databaseURL = cfg.DatabaseURL
			}
			if databaseURL == "" {
				return errors.New("no database: set --database-url or DATABASE_URL")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			db, err := postgres.Open(ctx, databaseURL, 1)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return err
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string")
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the schema instead of applying it")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "time allowed for connecting and applying")
	return cmd
}
