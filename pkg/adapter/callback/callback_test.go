// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package callback_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momeni/mongo-migrate/internal/test/memdriver"
	"github.com/momeni/mongo-migrate/pkg/adapter/callback"
	"github.com/momeni/mongo-migrate/pkg/core/cerr"
	"github.com/momeni/mongo-migrate/pkg/core/model"
	"github.com/momeni/mongo-migrate/pkg/core/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDriver() (*memdriver.Driver, *callback.Driver) {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	md := memdriver.New("d", model.Internals{
		MigrationTable: "migrations",
		SeedTable:      "seeds",
	}, func() time.Time {
		t = t.Add(time.Second)
		return t
	})
	return md, callback.New(md)
}

func TestCallbackIsAsynchronousAndOnce(t *testing.T) {
	_, d := newDriver()
	ctx := context.Background()
	var calls atomic.Int32
	returned := make(chan struct{})
	done := make(chan struct{})
	d.EnsureMigrationsTable(ctx, func(err error, _ struct{}) {
		<-returned // never invoked before the method returns
		calls.Add(1)
		assert.NoError(t, err)
		close(done)
	})
	close(returned)
	<-done
	time.Sleep(10 * time.Millisecond)
	assert.EqualValues(t, 1, calls.Load())
}

func TestCallbackMatchesCanonical(t *testing.T) {
	md, d := newDriver()
	ctx := context.Background()
	_, err := result.Await(ctx, func(cb callback.Done) {
		d.EnsureMigrationsTable(ctx, cb)
	})
	require.NoError(t, err)
	for _, n := range []string{"t1", "t2", "t3"} {
		r, err := result.Await(ctx, func(cb result.Callback[model.Record]) {
			d.RecordMigration(ctx, n, cb)
		})
		require.NoError(t, err)
		assert.Equal(t, n, r.Name)
	}
	got, err := result.Await(ctx, func(cb result.Callback[[]model.Record]) {
		d.ListMigrations(ctx, cb)
	})
	require.NoError(t, err)
	want, err := md.ListMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "t3", got[0].Name)

	res, err := result.Await(ctx, func(cb result.Callback[model.DeleteResult]) {
		d.DeleteMigration(ctx, "missing", cb)
	})
	require.NoError(t, err)
	assert.Zero(t, res.DeletedCount)
}

func TestCallbackReportsErrors(t *testing.T) {
	_, d := newDriver()
	ctx := context.Background()
	_, err := result.Await(ctx, func(cb callback.Done) {
		d.Update(cb, "a", 1)
	})
	assert.Equal(t, cerr.KindNotImplemented, cerr.KindOf(err))
	_, err = result.Await(ctx, func(cb callback.Done) {
		d.BuildWhereClause(cb)
	})
	assert.ErrorIs(t, err, cerr.ErrNotImplemented)
	_, err = result.Await(ctx, func(cb callback.Done) {
		d.All(cb, "raw")
	})
	assert.ErrorIs(t, err, cerr.ErrNotImplemented)
	name, err := result.Await(ctx, func(cb result.Callback[string]) {
		d.AddIndex(ctx, "c", "i", nil, false, cb)
	})
	assert.Equal(t, cerr.KindConfiguration, cerr.KindOf(err))
	assert.Empty(t, name)
}

func TestCallbackDocuments(t *testing.T) {
	_, d := newDriver()
	ctx := context.Background()
	_, err := result.Await(ctx, func(cb callback.Done) {
		d.CreateCollection(ctx, "cars", cb)
	})
	require.NoError(t, err)
	_, err = result.Await(ctx, func(cb result.Callback[model.InsertResult]) {
		d.Insert(ctx, "cars", model.Document{"plate": "A1"}, cb)
	})
	require.NoError(t, err)
	docs, err := result.Start(ctx, func(ctx context.Context) ([]model.Document, error) {
		return result.Await(ctx, func(cb result.Callback[[]model.Document]) {
			d.Find(ctx, "cars", nil, cb)
		})
	}).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Document{{"plate": "A1"}}, docs)
}

func TestCallbackAfterClose(t *testing.T) {
	_, d := newDriver()
	ctx := context.Background()
	_, err := result.Await(ctx, func(cb callback.Done) {
		d.Close(ctx, cb)
	})
	require.NoError(t, err)
	recs, err := result.Await(ctx, func(cb result.Callback[[]model.Record]) {
		d.ListMigrations(ctx, cb)
	})
	assert.Equal(t, cerr.KindConnection, cerr.KindOf(err))
	assert.Nil(t, recs)
}
