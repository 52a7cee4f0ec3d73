// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/momeni/mongo-migrate/pkg/adapter/db/mongodb"
	"github.com/momeni/mongo-migrate/pkg/core/usecase/ledgeruc"
	"github.com/spf13/cobra"
)

var allowDuplicates bool

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect or fix the migrations and seeds ledgers",
	Long: `Inspect or fix the migrations and seeds ledgers. The first
argument of each sub-command chooses the ledger kind which may be
either migrations or seeds.`,
}

// withLedger parses the kind argument, connects, and runs f with
// a ledger use case instance.
func withLedger(
	cmd *cobra.Command,
	kind string,
	f func(context.Context, *ledgeruc.UseCase, ledgeruc.Kind) error,
	opts ...ledgeruc.Option,
) error {
	k, err := ledgeruc.ParseKind(kind)
	if err != nil {
		return err
	}
	return withDriver(cmd.Context(), func(
		ctx context.Context, drv *mongodb.Driver,
	) error {
		uc, err := ledgeruc.New(drv, opts...)
		if err != nil {
			return err
		}
		return f(ctx, uc, k)
	})
}

var ledgerListCmd = &cobra.Command{
	Use:   "list <migrations|seeds>",
	Short: "List the recorded names, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd, args[0], func(
			ctx context.Context, uc *ledgeruc.UseCase, k ledgeruc.Kind,
		) error {
			records, err := uc.Status(ctx, k)
			if err != nil {
				return err
			}
			for _, r := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n",
					r.RunOn.Format(time.RFC3339), r.Name,
				)
			}
			return nil
		})
	},
}

var ledgerPendingCmd = &cobra.Command{
	Use:   "pending <migrations|seeds> <name>...",
	Short: "Print the given names which are not recorded yet",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd, args[0], func(
			ctx context.Context, uc *ledgeruc.UseCase, k ledgeruc.Kind,
		) error {
			names, err := uc.Pending(ctx, k, args[1:])
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		})
	},
}

var ledgerMarkCmd = &cobra.Command{
	Use:   "mark <migrations|seeds> <name>",
	Short: "Record a name as applied without running it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd, args[0], func(
			ctx context.Context, uc *ledgeruc.UseCase, k ledgeruc.Kind,
		) error {
			r, err := uc.Mark(ctx, k, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n",
				r.RunOn.Format(time.RFC3339), r.Name,
			)
			return nil
		}, ledgeruc.WithDuplicates(allowDuplicates))
	},
}

var ledgerUnmarkCmd = &cobra.Command{
	Use:   "unmark <migrations|seeds> <name>",
	Short: "Delete one record of a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd, args[0], func(
			ctx context.Context, uc *ledgeruc.UseCase, k ledgeruc.Kind,
		) error {
			found, err := uc.Unmark(ctx, k, args[1])
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintf(cmd.OutOrStdout(), "%q was not recorded\n", args[1])
			}
			return nil
		})
	},
}

func init() {
	ledgerMarkCmd.Flags().BoolVar(&allowDuplicates, "allow-duplicates",
		false, "record the name even if it is recorded already",
	)
	ledgerCmd.AddCommand(
		ledgerListCmd, ledgerPendingCmd, ledgerMarkCmd, ledgerUnmarkCmd,
	)
	rootCmd.AddCommand(ledgerCmd)
}
