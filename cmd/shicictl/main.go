// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command shicictl is the operator CLI for the Shici API.
//
// # Commands
//
//   - migrate up | down [N] | version: schema management via golang-migrate.
//   - hash-token: reads a write secret from stdin and prints its bcrypt hash
//     for the TOKEN_HASH variable.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/shici/internal/platform/constants"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil)).With(slog.String("app", "shicictl"))

	if err := newRootCmd(log).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(log *slog.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shicictl",
		Short:         "Operator tooling for the Shici tag API",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd(log))
	rootCmd.AddCommand(hashTokenCmd())
	return rootCmd
}
