// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/mongo-migrate/pkg/core/model"
)

// Ledger manages the two append-only ledgers of a driver, one for the
// applied migrations and one for the applied seeds. Their collection
// names are taken from the model.Internals of the driver.
type Ledger interface {
	// EnsureMigrationsTable creates the migrations ledger if it does
	// not exist. Calling it repeatedly is safe.
	EnsureMigrationsTable(ctx context.Context) error

	// EnsureSeedsTable creates the seeds ledger if it does not exist.
	// Calling it repeatedly is safe.
	EnsureSeedsTable(ctx context.Context) error

	// RecordMigration appends a record for the `name` migration using
	// the current time as its run time.
	RecordMigration(ctx context.Context, name string) (model.Record, error)

	// RecordSeed appends a record for the `name` seed using the
	// current time as its run time.
	RecordSeed(ctx context.Context, name string) (model.Record, error)

	// ListMigrations returns all migration records, most recent first.
	// The order of records with identical run times is unspecified.
	ListMigrations(ctx context.Context) ([]model.Record, error)

	// ListSeeds returns all seed records, most recent first.
	// The order of records with identical run times is unspecified.
	ListSeeds(ctx context.Context) ([]model.Record, error)

	// DeleteMigration removes at most one record of the `name`
	// migration. Deleting a missing name succeeds with a zero
	// DeletedCount.
	DeleteMigration(ctx context.Context, name string) (model.DeleteResult, error)

	// DeleteSeed removes at most one record of the `name` seed.
	// Deleting a missing name succeeds with a zero DeletedCount.
	DeleteSeed(ctx context.Context, name string) (model.DeleteResult, error)
}
