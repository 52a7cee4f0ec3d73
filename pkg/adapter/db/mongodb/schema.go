// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/momeni/mongo-migrate/pkg/core/cerr"
	"github.com/momeni/mongo-migrate/pkg/core/log"
	"github.com/momeni/mongo-migrate/pkg/core/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CreateCollection creates the name collection in the current database.
// An existing collection is reported as a cerr.KindDuplicateResource.
func (d *Driver) CreateCollection(ctx context.Context, name string) error {
	d.debug(ctx, "creating collection", log.Collection(name))
	return wrap("createCollection", d.DB().CreateCollection(ctx, name))
}

// DropCollection drops the name collection of the current database.
func (d *Driver) DropCollection(ctx context.Context, name string) error {
	d.debug(ctx, "dropping collection", log.Collection(name))
	return wrap("dropCollection", d.DB().Collection(name).Drop(ctx))
}

// RenameCollection renames the oldName collection of the current
// database to newName, using the renameCollection admin command.
func (d *Driver) RenameCollection(
	ctx context.Context, oldName, newName string,
) error {
	d.debug(ctx, "renaming collection",
		log.Collection(oldName), slog.String("to", newName),
	)
	cmd := bson.D{
		{Key: "renameCollection", Value: d.database + "." + oldName},
		{Key: "to", Value: d.database + "." + newName},
	}
	err := d.client.Database("admin").RunCommand(ctx, cmd).Err()
	return wrap("renameCollection", err)
}

// ListCollectionNames returns the collection names of the current
// database.
func (d *Driver) ListCollectionNames(ctx context.Context) ([]string, error) {
	names, err := d.DB().ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, wrap("listCollections", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// AddIndex creates the indexName index on the collection fields which
// are listed by columns, in order. Fields are indexed in the ascending
// order, unless prefixed by a "-" sign. The created index name is
// returned.
func (d *Driver) AddIndex(
	ctx context.Context,
	collection, indexName string,
	columns []string,
	unique bool,
) (string, error) {
	if len(columns) == 0 {
		return "", cerr.Configuration(fmt.Errorf(
			"index %q has no columns", indexName,
		))
	}
	keys := make(bson.D, 0, len(columns))
	for _, c := range columns {
		order := 1
		if f, ok := strings.CutPrefix(c, "-"); ok {
			c, order = f, -1
		}
		if c == "" {
			return "", cerr.Configuration(fmt.Errorf(
				"index %q has an empty column", indexName,
			))
		}
		keys = append(keys, bson.E{Key: c, Value: order})
	}
	opts := options.Index().SetUnique(unique)
	if indexName != "" {
		opts.SetName(indexName)
	}
	d.debug(ctx, "adding index",
		log.Collection(collection), slog.String("index", indexName),
	)
	name, err := d.DB().Collection(collection).Indexes().CreateOne(
		ctx, mongo.IndexModel{Keys: keys, Options: opts},
	)
	if err != nil {
		return "", wrap("createIndex", err)
	}
	return name, nil
}

// RemoveIndex drops the indexName index of the collection.
func (d *Driver) RemoveIndex(
	ctx context.Context, collection, indexName string,
) error {
	d.debug(ctx, "removing index",
		log.Collection(collection), slog.String("index", indexName),
	)
	err := d.DB().Collection(collection).Indexes().DropOne(ctx, indexName)
	return wrap("dropIndex", err)
}

type indexSpec struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique,omitempty"`
}

// ListIndexes returns the indexes of the collection, including the
// implicit _id index. The Order of special index keys (such as text
// or 2dsphere) is reported as zero.
func (d *Driver) ListIndexes(
	ctx context.Context, collection string,
) ([]model.Index, error) {
	cursor, err := d.DB().Collection(collection).Indexes().List(ctx)
	if err != nil {
		return nil, wrap("listIndexes", err)
	}
	var specs []indexSpec
	if err := cursor.All(ctx, &specs); err != nil {
		return nil, wrap("listIndexes", err)
	}
	indexes := make([]model.Index, 0, len(specs))
	for _, s := range specs {
		idx := model.Index{Name: s.Name, Unique: s.Unique}
		for _, e := range s.Key {
			idx.Keys = append(idx.Keys, model.IndexKey{
				Field: e.Key,
				Order: keyOrder(e.Value),
			})
		}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}

func keyOrder(v any) int {
	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// Insert inserts exactly one record into the collection.
func (d *Driver) Insert(
	ctx context.Context, collection string, record any,
) (model.InsertResult, error) {
	res, err := d.DB().Collection(collection).InsertOne(ctx, record)
	if err != nil {
		return model.InsertResult{}, wrap("insert", err)
	}
	return model.InsertResult{InsertedID: res.InsertedID}, nil
}

// Find returns all documents of the collection which match query.
// A nil query matches all documents. The result is never nil.
func (d *Driver) Find(
	ctx context.Context, collection string, query any,
) ([]model.Document, error) {
	if query == nil {
		query = bson.D{}
	}
	docs, err := findAll[model.Document](
		ctx, d.DB().Collection(collection), query,
	)
	if err != nil {
		return nil, wrap("find", err)
	}
	return docs, nil
}

func findAll[T any](
	ctx context.Context,
	coll *mongo.Collection,
	filter any,
	opts ...options.Lister[options.FindOptions],
) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// SwitchDatabase changes the current database of d. The target may be
// a database name, a model.DatabaseOptions (or its pointer), or a map
// with a "database" string entry. No command is sent to the server.
func (d *Driver) SwitchDatabase(ctx context.Context, target any) error {
	var name string
	switch t := target.(type) {
	case string:
		name = t
	case model.DatabaseOptions:
		name = t.Database
	case *model.DatabaseOptions:
		if t != nil {
			name = t.Database
		}
	case map[string]any:
		name, _ = t["database"].(string)
	default:
		return cerr.Configuration(fmt.Errorf(
			"unsupported database switch target: %T", target,
		))
	}
	if name == "" {
		return cerr.Configuration(cerr.ErrMissingDatabase)
	}
	d.debug(ctx, "switching database", slog.String("database", name))
	d.database = name
	return nil
}

// CreateDatabase succeeds without any action because MongoDB creates
// databases implicitly upon their first write.
func (d *Driver) CreateDatabase(ctx context.Context, name string) error {
	return nil
}

// DropDatabase drops the name database.
func (d *Driver) DropDatabase(ctx context.Context, name string) error {
	if name == "" {
		return cerr.Configuration(cerr.ErrMissingDatabase)
	}
	d.debug(ctx, "dropping database", slog.String("database", name))
	return wrap("dropDatabase", d.client.Database(name).Drop(ctx))
}

