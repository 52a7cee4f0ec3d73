// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package mongodb implements the repo.MigrationDriver interface for
// the MongoDB document database, using the official mongo-driver.
//
// A Driver is created by the Connect function, is used by a single
// migration run, and must be released by its Close method. The driver
// holds no locks of its own. Concurrent operations are multiplexed by
// the underlying client, but SwitchDatabase must not race with other
// operations of the same Driver.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/mongo-migrate/pkg/core/cerr"
	"github.com/momeni/mongo-migrate/pkg/core/log"
	"github.com/momeni/mongo-migrate/pkg/core/model"
	"github.com/momeni/mongo-migrate/pkg/core/repo"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Driver is a MongoDB migration driver.
type Driver struct {
	client    *mongo.Client
	uri       string
	database  string
	internals model.Internals
	id        uuid.UUID
	now       func() time.Time
}

var _ repo.MigrationDriver = (*Driver)(nil)

// Option customizes a Driver while it is being created by Connect.
type Option func(d *Driver) error

// WithClock sets the function which provides the run times of the
// ledger records. By default, time.Now is used.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) error {
		if now == nil {
			return fmt.Errorf("clock function must not be nil")
		}
		d.now = now
		return nil
	}
}

// WithID sets the instance id which is attached to the driver logs.
// By default, a random (version 4) UUID is used.
func WithID(id uuid.UUID) Option {
	return func(d *Driver) error {
		d.id = id
		return nil
	}
}

// Connect validates cfg, computes its connection string, and creates
// a Driver which uses the given internals. The client is created
// lazily, so Connect does not wait for the deployment to be reachable
// and connection failures are reported by the first operation.
// If cfg.Client is not nil, it is adopted instead of a new client.
func Connect(
	cfg Config, internals model.Internals, opts ...Option,
) (*Driver, error) {
	uri, err := Resolve(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Database == "" {
		return nil, cerr.Configuration(cerr.ErrMissingDatabase)
	}
	d := &Driver{
		uri:       uri,
		database:  cfg.Database,
		internals: internals,
		id:        uuid.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, cerr.Configuration(
				fmt.Errorf("invalid option: %w", err),
			)
		}
	}
	d.client = cfg.Client
	if d.client == nil {
		clientOpts := options.Client().ApplyURI(uri)
		cfg.Options.apply(clientOpts)
		d.client, err = mongo.Connect(clientOpts)
		if err != nil {
			return nil, wrap("connect", err)
		}
	}
	d.debug(
		context.Background(), "driver is created",
		slog.String("uri", Redact(uri)),
		slog.String("database", d.database),
	)
	return d, nil
}

// Close disconnects the client of d.
func (d *Driver) Close(ctx context.Context) error {
	d.debug(ctx, "closing driver")
	return wrap("disconnect", d.client.Disconnect(ctx))
}

// DB returns the handle of the currently selected database.
func (d *Driver) DB() *mongo.Database {
	return d.client.Database(d.database)
}

// Client returns the underlying client which is owned by d.
func (d *Driver) Client() *mongo.Client {
	return d.client
}

// URI returns the canonical connection string, including the password.
func (d *Driver) URI() string {
	return d.uri
}

// DatabaseName returns the name of the currently selected database.
func (d *Driver) DatabaseName() string {
	return d.database
}

// Internals returns the internals which were passed to Connect.
func (d *Driver) Internals() model.Internals {
	return d.internals
}

func (d *Driver) debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	ctx = log.NewContext(ctx, d.internals.Mod.Logger())
	attrs = append(attrs, slog.String("driver", d.id.String()))
	log.DebugDepth(ctx, 1, msg, attrs...)
}
