// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/momeni/mongo-migrate/pkg/adapter/db/mongodb"
	"github.com/spf13/cobra"
)

var showPassword bool

var uriCmd = &cobra.Command{
	Use:   "uri",
	Short: "Print the canonical connection string",
	Long: `Print the canonical MongoDB connection string which is computed
from the selected environment settings. The password is replaced by
xxxxx unless the --show-password flag is given. No connection is made.`,
	RunE: printURI,
	Args: cobra.NoArgs,
}

func printURI(cmd *cobra.Command, _ []string) error {
	d, err := loadConfig()
	if err != nil {
		return err
	}
	uri, err := mongodb.Resolve(d.MongoConfig())
	if err != nil {
		return fmt.Errorf("resolving connection string: %w", err)
	}
	if !showPassword {
		uri = mongodb.Redact(uri)
	}
	fmt.Fprintln(cmd.OutOrStdout(), uri)
	return nil
}

func init() {
	uriCmd.Flags().BoolVar(
		&showPassword, "show-password", false, "print the password too",
	)
	rootCmd.AddCommand(uriCmd)
}
