// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package callback exposes a repo.MigrationDriver with the error-first
// continuation calling convention, as expected by the migration hosts
// which pass a callback to each driver operation.
//
// Each method starts the operation in a new goroutine and returns
// immediately. The callback is invoked exactly once with the outcome.
// The awaited form of any method is obtained by result.Await, e.g.,
//
//	names, err := result.Await(ctx, func(cb result.Callback[[]string]) {
//		d.ListCollectionNames(ctx, cb)
//	})
package callback

import (
	"context"

	"github.com/momeni/mongo-migrate/pkg/core/model"
	"github.com/momeni/mongo-migrate/pkg/core/repo"
	"github.com/momeni/mongo-migrate/pkg/core/result"
)

// Done is the callback of operations which produce no value.
type Done = result.Callback[struct{}]

// Driver wraps a repo.MigrationDriver.
type Driver struct {
	drv repo.MigrationDriver
}

// New wraps d with the continuation calling convention.
func New(d repo.MigrationDriver) *Driver {
	return &Driver{drv: d}
}

// Unwrap returns the wrapped driver.
func (d *Driver) Unwrap() repo.MigrationDriver {
	return d.drv
}

func run(ctx context.Context, f func(context.Context) error, cb Done) {
	result.Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, f(ctx)
	}, cb)
}

// CreateCollection creates the named collection and reports to cb.
func (d *Driver) CreateCollection(ctx context.Context, name string, cb Done) {
	run(ctx, func(ctx context.Context) error {
		return d.drv.CreateCollection(ctx, name)
	}, cb)
}

// DropCollection drops the named collection and reports to cb.
func (d *Driver) DropCollection(ctx context.Context, name string, cb Done) {
	run(ctx, func(ctx context.Context) error {
		return d.drv.DropCollection(ctx, name)
	}, cb)
}

// RenameCollection renames oldName to newName in the current database.
func (d *Driver) RenameCollection(
	ctx context.Context, oldName, newName string, cb Done,
) {
	run(ctx, func(ctx context.Context) error {
		return d.drv.RenameCollection(ctx, oldName, newName)
	}, cb)
}

// ListCollectionNames passes the collection names of the current
// database to cb.
func (d *Driver) ListCollectionNames(
	ctx context.Context, cb result.Callback[[]string],
) {
	result.Go(ctx, d.drv.ListCollectionNames, cb)
}

// AddIndex creates an index and passes its server-side name to cb.
func (d *Driver) AddIndex(
	ctx context.Context,
	collection, indexName string,
	columns []string,
	unique bool,
	cb result.Callback[string],
) {
	result.Go(ctx, func(ctx context.Context) (string, error) {
		return d.drv.AddIndex(ctx, collection, indexName, columns, unique)
	}, cb)
}

// RemoveIndex drops the named index of collection.
func (d *Driver) RemoveIndex(
	ctx context.Context, collection, indexName string, cb Done,
) {
	run(ctx, func(ctx context.Context) error {
		return d.drv.RemoveIndex(ctx, collection, indexName)
	}, cb)
}

// ListIndexes passes the indexes of collection to cb.
func (d *Driver) ListIndexes(
	ctx context.Context, collection string,
	cb result.Callback[[]model.Index],
) {
	result.Go(ctx, func(ctx context.Context) ([]model.Index, error) {
		return d.drv.ListIndexes(ctx, collection)
	}, cb)
}

// Insert stores record in collection and passes its id to cb.
func (d *Driver) Insert(
	ctx context.Context, collection string, record any,
	cb result.Callback[model.InsertResult],
) {
	result.Go(ctx, func(ctx context.Context) (model.InsertResult, error) {
		return d.drv.Insert(ctx, collection, record)
	}, cb)
}

// Find passes the documents of collection which match query to cb.
func (d *Driver) Find(
	ctx context.Context, collection string, query any,
	cb result.Callback[[]model.Document],
) {
	result.Go(ctx, func(ctx context.Context) ([]model.Document, error) {
		return d.drv.Find(ctx, collection, query)
	}, cb)
}

// SwitchDatabase changes the current database, see
// repo.Databases.SwitchDatabase for the accepted targets.
func (d *Driver) SwitchDatabase(ctx context.Context, target any, cb Done) {
	run(ctx, func(ctx context.Context) error {
		return d.drv.SwitchDatabase(ctx, target)
	}, cb)
}

// CreateDatabase is a no-op which still calls cb asynchronously.
func (d *Driver) CreateDatabase(ctx context.Context, name string, cb Done) {
	run(ctx, func(ctx context.Context) error {
		return d.drv.CreateDatabase(ctx, name)
	}, cb)
}

// DropDatabase drops the named database.
func (d *Driver) DropDatabase(ctx context.Context, name string, cb Done) {
	run(ctx, func(ctx context.Context) error {
		return d.drv.DropDatabase(ctx, name)
	}, cb)
}

// EnsureMigrationsTable creates the migrations ledger if it is missing.
func (d *Driver) EnsureMigrationsTable(ctx context.Context, cb Done) {
	run(ctx, d.drv.EnsureMigrationsTable, cb)
}

// EnsureSeedsTable creates the seeds ledger if it is missing.
func (d *Driver) EnsureSeedsTable(ctx context.Context, cb Done) {
	run(ctx, d.drv.EnsureSeedsTable, cb)
}

// RecordMigration appends name to the migrations ledger and passes
// the stored record to cb.
func (d *Driver) RecordMigration(
	ctx context.Context, name string, cb result.Callback[model.Record],
) {
	result.Go(ctx, func(ctx context.Context) (model.Record, error) {
		return d.drv.RecordMigration(ctx, name)
	}, cb)
}

// RecordSeed appends name to the seeds ledger.
func (d *Driver) RecordSeed(
	ctx context.Context, name string, cb result.Callback[model.Record],
) {
	result.Go(ctx, func(ctx context.Context) (model.Record, error) {
		return d.drv.RecordSeed(ctx, name)
	}, cb)
}

// ListMigrations passes the migration records to cb, most recent first.
func (d *Driver) ListMigrations(
	ctx context.Context, cb result.Callback[[]model.Record],
) {
	result.Go(ctx, d.drv.ListMigrations, cb)
}

// ListSeeds passes the seed records to cb, most recent first.
func (d *Driver) ListSeeds(
	ctx context.Context, cb result.Callback[[]model.Record],
) {
	result.Go(ctx, d.drv.ListSeeds, cb)
}

// DeleteMigration removes one migration record by its name.
func (d *Driver) DeleteMigration(
	ctx context.Context, name string,
	cb result.Callback[model.DeleteResult],
) {
	result.Go(ctx, func(ctx context.Context) (model.DeleteResult, error) {
		return d.drv.DeleteMigration(ctx, name)
	}, cb)
}

// DeleteSeed removes one seed record by its name.
func (d *Driver) DeleteSeed(
	ctx context.Context, name string,
	cb result.Callback[model.DeleteResult],
) {
	result.Go(ctx, func(ctx context.Context) (model.DeleteResult, error) {
		return d.drv.DeleteSeed(ctx, name)
	}, cb)
}

// BuildWhereClause reports the outcome of the relational-only operation
// through cb. The args are passed through unchanged.
func (d *Driver) BuildWhereClause(cb Done, args ...any) {
	run(context.Background(), func(context.Context) error {
		return d.drv.BuildWhereClause(args...)
	}, cb)
}

// Update is the continuation form of a relational-only operation.
func (d *Driver) Update(cb Done, args ...any) {
	run(context.Background(), func(context.Context) error {
		return d.drv.Update(args...)
	}, cb)
}

// All is the continuation form of a relational-only operation.
func (d *Driver) All(cb Done, args ...any) {
	run(context.Background(), func(context.Context) error {
		return d.drv.All(args...)
	}, cb)
}

// Close releases the wrapped driver and reports to cb.
func (d *Driver) Close(ctx context.Context, cb Done) {
	run(ctx, d.drv.Close, cb)
}
