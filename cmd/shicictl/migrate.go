// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taibuivan/shici/internal/platform/config"
	"github.com/taibuivan/shici/internal/platform/migration"
)

func migrateCmd(log *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the poetry schema",
		Long:  "Apply, roll back or inspect migrations. Reads DATABASE_URL and MIGRATION_PATH.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(log, func(runner *migration.Runner) error {
				return runner.Up()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [N]",
		Short: "Roll back N migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			return withRunner(log, func(runner *migration.Runner) error {
				return runner.Down(steps)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(log, func(runner *migration.Runner) error {
				version, dirty, err := runner.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
				return nil
			})
		},
	})

	return cmd
}

// withRunner opens a migration runner from the environment and closes it after fn.
func withRunner(log *slog.Logger, fn func(runner *migration.Runner) error) error {
	cfg, err := config.LoadMigration()
	if err != nil {
		return err
	}

	runner, err := migration.Open(cfg.DatabaseURL, cfg.MigrationPath, log)
	if err != nil {
		return err
	}
	defer runner.Close()

	return fn(runner)
}
