// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model contains the data types which are exchanged between
// the migration framework (the host) and a migration driver. These
// types are independent of any database client library, so they may
// be used by the use cases layer and by alternative drivers alike.
package model

import (
	"log/slog"
	"time"
)

// Record represents one entry of a ledger, i.e., one applied migration
// or one applied seed. Records are append-only. They are inserted when
// a migration (or seed) is applied and deleted by name when it is
// reverted, but they are never updated in place.
//
// The field names are persisted as `name` and `run_on` for sake of
// compatibility with the ledgers which are kept by other db-migrate
// drivers.
type Record struct {
	Name  string    `bson:"name" json:"name"`
	RunOn time.Time `bson:"run_on" json:"run_on"`
}

// LogValue implements slog.LogValuer, so a record can be logged as a
// group of its name and run time.
func (r Record) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", r.Name),
		slog.Time("run_on", r.RunOn),
	)
}

// Document is a schema-less record which is inserted into or fetched
// from a collection. Nested documents may be kept as maps or as the
// ordered document type of the database client library.
type Document map[string]any

// InsertResult describes the outcome of a single document insertion.
type InsertResult struct {
	// InsertedID is the value of the `_id` field of the new document,
	// as generated by the client library or provided by the caller.
	InsertedID any
}

// DeleteResult describes the outcome of a delete operation.
// A zero DeletedCount is a successful zero-effect result, e.g., when
// asking to delete a ledger record which was never recorded.
type DeleteResult struct {
	DeletedCount int64
}
