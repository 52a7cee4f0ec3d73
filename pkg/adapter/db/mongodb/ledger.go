// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mongodb

import (
	"context"
	"log/slog"
	"time"

	"github.com/momeni/mongo-migrate/pkg/core/cerr"
	"github.com/momeni/mongo-migrate/pkg/core/log"
	"github.com/momeni/mongo-migrate/pkg/core/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureMigrationsTable creates the migrations ledger collection unless
// it exists already.
func (d *Driver) EnsureMigrationsTable(ctx context.Context) error {
	return d.ensure(ctx, d.internals.MigrationTable)
}

// EnsureSeedsTable creates the seeds ledger collection unless it exists
// already.
func (d *Driver) EnsureSeedsTable(ctx context.Context) error {
	return d.ensure(ctx, d.internals.SeedTable)
}

func (d *Driver) ensure(ctx context.Context, name string) error {
	err := d.CreateCollection(ctx, name)
	if cerr.KindOf(err) == cerr.KindDuplicateResource {
		d.debug(ctx, "ledger exists",
			log.Op("createCollection"),
			log.Collection(name),
			log.Err("error", err),
		)
		return nil
	}
	return err
}

// RecordMigration appends a record for the name migration.
func (d *Driver) RecordMigration(
	ctx context.Context, name string,
) (model.Record, error) {
	return d.record(ctx, d.internals.MigrationTable, name)
}

// RecordSeed appends a record for the name seed.
func (d *Driver) RecordSeed(
	ctx context.Context, name string,
) (model.Record, error) {
	return d.record(ctx, d.internals.SeedTable, name)
}

func (d *Driver) record(
	ctx context.Context, ledger, name string,
) (model.Record, error) {
	// BSON dates keep milliseconds, so r matches its stored version.
	runOn := d.now().UTC().Truncate(time.Millisecond)
	r := model.Record{Name: name, RunOn: runOn}
	if _, err := d.DB().Collection(ledger).InsertOne(ctx, r); err != nil {
		return model.Record{}, wrap("insert", err)
	}
	d.debug(ctx, "recorded", log.Collection(ledger), log.Valuer("record", r))
	return r, nil
}

// ListMigrations returns the migration records, the most recent first.
func (d *Driver) ListMigrations(ctx context.Context) ([]model.Record, error) {
	return d.list(ctx, d.internals.MigrationTable)
}

// ListSeeds returns the seed records, the most recent first.
func (d *Driver) ListSeeds(ctx context.Context) ([]model.Record, error) {
	return d.list(ctx, d.internals.SeedTable)
}

func (d *Driver) list(ctx context.Context, ledger string) ([]model.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "run_on", Value: -1}})
	records, err := findAll[model.Record](
		ctx, d.DB().Collection(ledger), bson.D{}, opts,
	)
	if err != nil {
		return nil, wrap("find", err)
	}
	return records, nil
}

// DeleteMigration removes at most one record of the name migration.
func (d *Driver) DeleteMigration(
	ctx context.Context, name string,
) (model.DeleteResult, error) {
	return d.delete(ctx, d.internals.MigrationTable, name)
}

// DeleteSeed removes at most one record of the name seed.
func (d *Driver) DeleteSeed(
	ctx context.Context, name string,
) (model.DeleteResult, error) {
	return d.delete(ctx, d.internals.SeedTable, name)
}

func (d *Driver) delete(
	ctx context.Context, ledger, name string,
) (model.DeleteResult, error) {
	res, err := d.DB().Collection(ledger).DeleteOne(
		ctx, bson.D{{Key: "name", Value: name}},
	)
	if err != nil {
		return model.DeleteResult{}, wrap("delete", err)
	}
	d.debug(ctx, "deleted",
		log.Collection(ledger), slog.Int64("count", res.DeletedCount),
	)
	return model.DeleteResult{DeletedCount: res.DeletedCount}, nil
}
