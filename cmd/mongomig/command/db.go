// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/mongo-migrate/pkg/adapter/db/mongodb"
	"github.com/momeni/mongo-migrate/pkg/core/usecase/ledgeruc"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
The init creates both ledger collections (if they are missing) and the
collections lists the collections of the selected database.`,
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Ensure that the migrations and seeds ledgers exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDriver(cmd.Context(), func(
			ctx context.Context, drv *mongodb.Driver,
		) error {
			uc, err := ledgeruc.New(drv)
			if err != nil {
				return err
			}
			if err := uc.Init(ctx); err != nil {
				return fmt.Errorf("initializing ledgers: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ledgers %q and %q are ready\n",
				migrationsTbl, seedsTbl,
			)
			return nil
		})
	},
}

var dbCollectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List the collections of the selected database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDriver(cmd.Context(), func(
			ctx context.Context, drv *mongodb.Driver,
		) error {
			names, err := drv.ListCollectionNames(ctx)
			if err != nil {
				return fmt.Errorf("listing collections: %w", err)
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		})
	},
}

func init() {
	dbCmd.AddCommand(dbInitCmd, dbCollectionsCmd)
	rootCmd.AddCommand(dbCmd)
}
