// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/mongo-migrate/pkg/core/model"
)

// Collections manages the named containers (collections or tables) of
// the current database.
type Collections interface {
	// CreateCollection creates the `name` collection. It fails if that
	// collection exists already (with a cerr.KindDuplicateResource
	// error when the backend reports that condition distinctly).
	CreateCollection(ctx context.Context, name string) error

	DropCollection(ctx context.Context, name string) error

	RenameCollection(ctx context.Context, oldName, newName string) error

	// ListCollectionNames returns the names of all collections of the
	// current database.
	ListCollectionNames(ctx context.Context) ([]string, error)
}

// Indexes manages the indexes of collections.
type Indexes interface {
	// AddIndex creates the `indexName` index on the `columns` fields of
	// the `collection` collection, in the given order. The created
	// index name is returned.
	AddIndex(
		ctx context.Context,
		collection, indexName string,
		columns []string,
		unique bool,
	) (string, error)

	RemoveIndex(ctx context.Context, collection, indexName string) error

	ListIndexes(ctx context.Context, collection string) ([]model.Index, error)
}

// Documents inserts and queries records.
type Documents interface {
	// Insert inserts exactly one record into the `collection`.
	Insert(
		ctx context.Context, collection string, record any,
	) (model.InsertResult, error)

	// Find returns all records of `collection` which match `query`.
	// The whole result set is materialized before returning. A nil
	// query matches all records.
	Find(
		ctx context.Context, collection string, query any,
	) ([]model.Document, error)
}

// Databases manages the current database selection and the database
// lifecycle.
type Databases interface {
	// SwitchDatabase changes the current database. The target may be
	// a database name string or a record carrying a database name.
	// It never touches the network.
	SwitchDatabase(ctx context.Context, target any) error

	CreateDatabase(ctx context.Context, name string) error
	DropDatabase(ctx context.Context, name string) error
}
