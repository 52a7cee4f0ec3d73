// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands of the mongomig
// tool. Commands are organized using the cobra library.
// The mongomig plays the host role for the MongoDB migration driver,
// so the driver ledgers can be inspected and fixed manually.
//
//	./mongomig uri [--show-password] [-c database.json] [-e dev]
//	./mongomig db init
//	./mongomig db collections
//	./mongomig ledger list migrations
//	./mongomig ledger pending seeds 001-users 002-cars
//	./mongomig ledger mark migrations 003-index
//	./mongomig ledger unmark migrations 003-index
package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/momeni/mongo-migrate/pkg/adapter/config"
	"github.com/momeni/mongo-migrate/pkg/adapter/db/mongodb"
	"github.com/momeni/mongo-migrate/pkg/core/log"
	"github.com/momeni/mongo-migrate/pkg/core/model"
	"github.com/spf13/cobra"
)

var (
	cfgPath       string
	envName       string
	envFiles      []string
	migrationsTbl string
	seedsTbl      string
	verbose       bool

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mongomig",
	Short: "MongoDB migration driver and ledger management tool",
	Long: `MongoDB migration driver and ledger management tool.
It reads a db-migrate style configuration file (database.json or a
YAML file), selects an environment section, and connects to MongoDB
in order to inspect or fix the migrations and seeds ledgers which are
kept by the migration driver. The ledgers record one document per
applied migration (or seed) with its name and run time.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

func setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	cmd.SetContext(log.NewContext(cmd.Context(), logger))
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return fmt.Errorf("loading env files: %w", err)
		}
	}
	fixConfigPath()
	return nil
}

// loadConfig loads the database settings of the selected environment.
func loadConfig() (*config.Database, error) {
	d, err := config.Load(cfgPath, envName)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	return d, nil
}

// connect creates a driver for the selected environment. The caller
// must close the returned driver.
func connect(ctx context.Context) (*mongodb.Driver, error) {
	d, err := loadConfig()
	if err != nil {
		return nil, err
	}
	drv, err := d.Connect(model.Internals{
		MigrationTable: migrationsTbl,
		SeedTable:      seedsTbl,
		Mod:            model.Mod{Log: logger},
	})
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	log.Debug(ctx, "connected",
		slog.String("uri", mongodb.Redact(drv.URI())),
	)
	return drv, nil
}

// withDriver connects and runs f, closing the driver afterwards.
func withDriver(
	ctx context.Context, f func(context.Context, *mongodb.Driver) error,
) (err error) {
	drv, err := connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err2 := drv.Close(ctx); err2 != nil && err == nil {
			err = fmt.Errorf("closing driver: %w", err2)
		}
	}()
	return f(ctx, drv)
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgPath, "config", "c", "", "config file path")
	pf.StringVarP(&envName, "env", "e", "",
		"environment section of the config file (default: defaultEnv or dev)",
	)
	pf.StringSliceVar(&envFiles, "env-file", nil,
		"dotenv files to load before reading the config file",
	)
	pf.StringVar(&migrationsTbl, "migrations-table", "migrations",
		"migrations ledger collection name",
	)
	pf.StringVar(&seedsTbl, "seeds-table", "seeds",
		"seeds ledger collection name",
	)
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		cfgPath = "database.json"
	}
}
