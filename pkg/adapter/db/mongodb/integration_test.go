// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mongodb_test

import (
	"context"
	"testing"
	"time"

	"github.com/momeni/mongo-migrate/internal/test/dbcontainer"
	"github.com/momeni/mongo-migrate/pkg/adapter/db/mongodb"
	"github.com/momeni/mongo-migrate/pkg/core/cerr"
	"github.com/momeni/mongo-migrate/pkg/core/model"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type IntegrationMongoTestSuite struct {
	suite.Suite

	Ctx   context.Context
	Drv   *mongodb.Driver
	Clock *fakeClock
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func TestIntegrationMongoTestSuite(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	_, d, dfrs, ok := dbcontainer.New(
		ctx, 120*time.Second, t, internals, mongodb.WithClock(clock.Now),
	)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationMongoTestSuite{
		Ctx:   ctx,
		Drv:   d,
		Clock: clock,
	})
}

func (imts *IntegrationMongoTestSuite) SetupTest() {
	for _, name := range []string{internals.MigrationTable, internals.SeedTable} {
		err := imts.Drv.DropCollection(imts.Ctx, name)
		imts.Require().NoError(err, "failed to drop %q ledger", name)
	}
}

func (imts *IntegrationMongoTestSuite) TestEnsureIsIdempotent() {
	for i := 0; i < 2; i++ {
		imts.NoError(imts.Drv.EnsureMigrationsTable(imts.Ctx))
		imts.NoError(imts.Drv.EnsureSeedsTable(imts.Ctx))
	}
	names, err := imts.Drv.ListCollectionNames(imts.Ctx)
	imts.Require().NoError(err)
	imts.Subset(names, []string{"migrations", "seeds"})
}

func (imts *IntegrationMongoTestSuite) TestCreateExistingCollection() {
	imts.Require().NoError(imts.Drv.CreateCollection(imts.Ctx, "dup"))
	defer imts.Drv.DropCollection(imts.Ctx, "dup")
	err := imts.Drv.CreateCollection(imts.Ctx, "dup")
	imts.Require().Error(err)
	imts.Equal(cerr.KindDuplicateResource, cerr.KindOf(err))
}

func (imts *IntegrationMongoTestSuite) TestLedgerRoundTrip() {
	ctx := imts.Ctx
	imts.Require().NoError(imts.Drv.EnsureMigrationsTable(ctx))
	var want []model.Record
	for _, name := range []string{"t1", "t2", "t3"} {
		r, err := imts.Drv.RecordMigration(ctx, name)
		imts.Require().NoError(err)
		imts.Equal(name, r.Name)
		want = append([]model.Record{r}, want...)
	}
	got, err := imts.Drv.ListMigrations(ctx)
	imts.Require().NoError(err)
	imts.Equal(want, got, "expected most recent first")

	seeds, err := imts.Drv.ListSeeds(ctx)
	imts.Require().NoError(err)
	imts.Empty(seeds)
	imts.NotNil(seeds)

	res, err := imts.Drv.DeleteMigration(ctx, "t2")
	imts.Require().NoError(err)
	imts.EqualValues(1, res.DeletedCount)
	res, err = imts.Drv.DeleteMigration(ctx, "missing")
	imts.Require().NoError(err)
	imts.Zero(res.DeletedCount)

	got, err = imts.Drv.ListMigrations(ctx)
	imts.Require().NoError(err)
	imts.Equal([]model.Record{want[0], want[2]}, got)
}

func (imts *IntegrationMongoTestSuite) TestSeedLedger() {
	ctx := imts.Ctx
	imts.Require().NoError(imts.Drv.EnsureSeedsTable(ctx))
	r, err := imts.Drv.RecordSeed(ctx, "users")
	imts.Require().NoError(err)
	got, err := imts.Drv.ListSeeds(ctx)
	imts.Require().NoError(err)
	imts.Equal([]model.Record{r}, got)
	res, err := imts.Drv.DeleteSeed(ctx, "users")
	imts.Require().NoError(err)
	imts.EqualValues(1, res.DeletedCount)
}

func (imts *IntegrationMongoTestSuite) TestDocumentsAndIndexes() {
	ctx := imts.Ctx
	coll := "cars"
	defer imts.Drv.DropCollection(ctx, coll)
	imts.Require().NoError(imts.Drv.CreateCollection(ctx, coll))

	name, err := imts.Drv.AddIndex(
		ctx, coll, "by_plate", []string{"plate", "-year"}, true,
	)
	imts.Require().NoError(err)
	imts.Equal("by_plate", name)
	indexes, err := imts.Drv.ListIndexes(ctx, coll)
	imts.Require().NoError(err)
	imts.Contains(indexes, model.Index{
		Name:   "by_plate",
		Unique: true,
		Keys: []model.IndexKey{
			{Field: "plate", Order: 1}, {Field: "year", Order: -1},
		},
	})

	res, err := imts.Drv.Insert(ctx, coll, bson.M{"plate": "A1", "year": 2020})
	imts.Require().NoError(err)
	imts.NotNil(res.InsertedID)
	_, err = imts.Drv.Insert(ctx, coll, bson.M{"plate": "B2", "year": 2021})
	imts.Require().NoError(err)
	_, err = imts.Drv.Insert(ctx, coll, bson.M{"plate": "A1", "year": 2020})
	imts.Error(err, "unique index must reject duplicates")

	docs, err := imts.Drv.Find(ctx, coll, nil)
	imts.Require().NoError(err)
	imts.Len(docs, 2)
	docs, err = imts.Drv.Find(ctx, coll, bson.M{"plate": "B2"})
	imts.Require().NoError(err)
	imts.Require().Len(docs, 1)
	imts.EqualValues(2021, docs[0]["year"])
	docs, err = imts.Drv.Find(ctx, coll, bson.M{"plate": "none"})
	imts.Require().NoError(err)
	imts.NotNil(docs)
	imts.Empty(docs)

	imts.Require().NoError(imts.Drv.RemoveIndex(ctx, coll, "by_plate"))
	indexes, err = imts.Drv.ListIndexes(ctx, coll)
	imts.Require().NoError(err)
	imts.Len(indexes, 1, "only the _id index should remain")
}

func (imts *IntegrationMongoTestSuite) TestRenameAndSwitch() {
	ctx := imts.Ctx
	imts.Require().NoError(imts.Drv.CreateCollection(ctx, "old"))
	imts.Require().NoError(imts.Drv.RenameCollection(ctx, "old", "new"))
	defer imts.Drv.DropCollection(ctx, "new")
	names, err := imts.Drv.ListCollectionNames(ctx)
	imts.Require().NoError(err)
	imts.Contains(names, "new")
	imts.NotContains(names, "old")

	orig := imts.Drv.DatabaseName()
	defer func() {
		imts.NoError(imts.Drv.SwitchDatabase(ctx, orig))
	}()
	other := orig + "_other"
	imts.Require().NoError(imts.Drv.SwitchDatabase(ctx, other))
	imts.Require().NoError(imts.Drv.CreateDatabase(ctx, other))
	imts.Require().NoError(imts.Drv.CreateCollection(ctx, "x"))
	names, err = imts.Drv.ListCollectionNames(ctx)
	imts.Require().NoError(err)
	imts.Equal([]string{"x"}, names)
	imts.Require().NoError(imts.Drv.DropDatabase(ctx, other))
	names, err = imts.Drv.ListCollectionNames(ctx)
	imts.Require().NoError(err)
	imts.Empty(names)
}
