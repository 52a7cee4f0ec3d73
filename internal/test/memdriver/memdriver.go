// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memdriver is an internal helper for the test packages.
// It provides an in-memory repo.MigrationDriver, so the use cases and
// the calling convention adapters can be tested without a database
// server. Queries are not interpreted; Find returns all documents.
package memdriver

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/momeni/mongo-migrate/pkg/core/cerr"
	"github.com/momeni/mongo-migrate/pkg/core/model"
	"github.com/momeni/mongo-migrate/pkg/core/repo"
)

// Driver is an in-memory migration driver. Its zero value is not
// usable; use New instead.
type Driver struct {
	mu        sync.Mutex
	internals model.Internals
	now       func() time.Time
	database  string
	dbs       map[string]map[string][]any
	indexes   map[string][]model.Index
	closed    bool

	// Fail, if not nil, is returned by all operations which touch
	// the stored data.
	Fail error
}

var _ repo.MigrationDriver = (*Driver)(nil)

// New creates an in-memory driver with the d current database.
// The now function provides the ledger run times.
func New(d string, in model.Internals, now func() time.Time) *Driver {
	return &Driver{
		internals: in,
		now:       now,
		database:  d,
		dbs:       map[string]map[string][]any{d: {}},
		indexes:   map[string][]model.Index{},
	}
}

func (d *Driver) colls() map[string][]any {
	m, ok := d.dbs[d.database]
	if !ok {
		m = map[string][]any{}
		d.dbs[d.database] = m
	}
	return m
}

func (d *Driver) check(op string) error {
	if d.closed {
		return cerr.Connection(fmt.Errorf("%s: driver is closed", op))
	}
	return cerr.Wrap(cerr.KindPassthrough, op, d.Fail)
}

func (d *Driver) CreateCollection(ctx context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check("createCollection"); err != nil {
		return err
	}
	if _, ok := d.colls()[name]; ok {
		return cerr.Wrap(cerr.KindDuplicateResource, "createCollection",
			fmt.Errorf("collection %q exists", name),
		)
	}
	d.colls()[name] = []any{}
	return nil
}

func (d *Driver) DropCollection(ctx context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check("dropCollection"); err != nil {
		return err
	}
	delete(d.colls(), name)
	return nil
}

func (d *Driver) RenameCollection(ctx context.Context, oldName, newName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check("renameCollection"); err != nil {
		return err
	}
	docs, ok := d.colls()[oldName]
	if !ok {
		return fmt.Errorf("renameCollection: %q does not exist", oldName)
	}
	delete(d.colls(), oldName)
	d.colls()[newName] = docs
	return nil
}

func (d *Driver) ListCollectionNames(ctx context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check("listCollections"); err != nil {
		return nil, err
	}
	names := []string{}
	for n := range d.colls() {
		names = append(names, n)
	}
	slices.Sort(names)
	return names, nil
}

func (d *Driver) AddIndex(
	ctx context.Context, collection, indexName string,
	columns []string, unique bool,
) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(columns) == 0 {
		return "", cerr.Configuration(fmt.Errorf("no columns"))
	}
	if err := d.check("createIndex"); err != nil {
		return "", err
	}
	idx := model.Index{Name: indexName, Unique: unique}
	for _, c := range columns {
		idx.Keys = append(idx.Keys, model.IndexKey{Field: c, Order: 1})
	}
	d.indexes[collection] = append(d.indexes[collection], idx)
	return indexName, nil
}

func (d *Driver) RemoveIndex(ctx context.Context, collection, indexName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check("dropIndex"); err != nil {
		return err
	}
	d.indexes[collection] = slices.DeleteFunc(
		d.indexes[collection],
		func(i model.Index) bool { return i.Name == indexName },
	)
	return nil
}

func (d *Driver) ListIndexes(ctx context.Context, collection string) ([]model.Index, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check("listIndexes"); err != nil {
		return nil, err
	}
	return slices.Clone(d.indexes[collection]), nil
}

func (d *Driver) Insert(
	ctx context.Context, collection string, record any,
) (model.InsertResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check("insert"); err != nil {
		return model.InsertResult{}, err
	}
	docs := d.colls()[collection]
	d.colls()[collection] = append(docs, record)
	return model.InsertResult{InsertedID: len(docs)}, nil
}

func (d *Driver) Find(
	ctx context.Context, collection string, query any,
) ([]model.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check("find"); err != nil {
		return nil, err
	}
	docs := []model.Document{}
	for _, r := range d.colls()[collection] {
		if m, ok := r.(model.Document); ok {
			docs = append(docs, m)
		}
	}
	return docs, nil
}

func (d *Driver) SwitchDatabase(ctx context.Context, target any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	name, ok := target.(string)
	if !ok || name == "" {
		return cerr.Configuration(cerr.ErrMissingDatabase)
	}
	d.database = name
	return nil
}

func (d *Driver) CreateDatabase(ctx context.Context, name string) error {
	return nil
}

func (d *Driver) DropDatabase(ctx context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check("dropDatabase"); err != nil {
		return err
	}
	delete(d.dbs, name)
	return nil
}

func (d *Driver) EnsureMigrationsTable(ctx context.Context) error {
	return d.ensure(ctx, d.internals.MigrationTable)
}

func (d *Driver) EnsureSeedsTable(ctx context.Context) error {
	return d.ensure(ctx, d.internals.SeedTable)
}

func (d *Driver) ensure(ctx context.Context, name string) error {
	err := d.CreateCollection(ctx, name)
	if cerr.KindOf(err) == cerr.KindDuplicateResource {
		return nil
	}
	return err
}

func (d *Driver) RecordMigration(ctx context.Context, name string) (model.Record, error) {
	return d.record(d.internals.MigrationTable, name)
}

func (d *Driver) RecordSeed(ctx context.Context, name string) (model.Record, error) {
	return d.record(d.internals.SeedTable, name)
}

func (d *Driver) record(ledger, name string) (model.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check("insert"); err != nil {
		return model.Record{}, err
	}
	r := model.Record{Name: name, RunOn: d.now()}
	d.colls()[ledger] = append(d.colls()[ledger], r)
	return r, nil
}

func (d *Driver) ListMigrations(ctx context.Context) ([]model.Record, error) {
	return d.list(d.internals.MigrationTable)
}

func (d *Driver) ListSeeds(ctx context.Context) ([]model.Record, error) {
	return d.list(d.internals.SeedTable)
}

func (d *Driver) list(ledger string) ([]model.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check("find"); err != nil {
		return nil, err
	}
	records := []model.Record{}
	for _, doc := range d.colls()[ledger] {
		if r, ok := doc.(model.Record); ok {
			records = append(records, r)
		}
	}
	slices.SortStableFunc(records, func(a, b model.Record) int {
		return b.RunOn.Compare(a.RunOn)
	})
	return records, nil
}

func (d *Driver) DeleteMigration(ctx context.Context, name string) (model.DeleteResult, error) {
	return d.delete(d.internals.MigrationTable, name)
}

func (d *Driver) DeleteSeed(ctx context.Context, name string) (model.DeleteResult, error) {
	return d.delete(d.internals.SeedTable, name)
}

func (d *Driver) delete(ledger, name string) (model.DeleteResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check("delete"); err != nil {
		return model.DeleteResult{}, err
	}
	docs := d.colls()[ledger]
	for i, doc := range docs {
		if r, ok := doc.(model.Record); ok && r.Name == name {
			d.colls()[ledger] = slices.Delete(docs, i, i+1)
			return model.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return model.DeleteResult{}, nil
}

func (d *Driver) BuildWhereClause(args ...any) error {
	return cerr.NotImplemented("buildWhereClause")
}

func (d *Driver) Update(args ...any) error {
	return cerr.NotImplemented("update")
}

func (d *Driver) All(args ...any) error {
	return cerr.NotImplemented("all")
}

func (d *Driver) Close(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}
