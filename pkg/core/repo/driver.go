// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo defines the capability interfaces which a migration
// framework expects from a database driver. The framework depends on
// these interfaces alone. An adapter package (such as
// pkg/adapter/db/mongodb) provides the concrete implementation.
//
// All operations take a context as their first argument and report
// their result in the canonical (value, error) form. Continuation and
// future based calling conventions are derived from these methods by
// the pkg/core/result package.
package repo

import "context"

// MigrationDriver is the complete capability set of a driver.
// The driver instance exclusively owns its connection which must be
// released by calling Close on every exit path.
type MigrationDriver interface {
	Collections
	Indexes
	Documents
	Databases
	Ledger
	Relational

	// Close releases the connection. Calling other methods after
	// Close has undefined results.
	Close(ctx context.Context) error
}

// Relational lists the operations which only make sense for relational
// backends. Document store drivers implement them by returning a
// cerr.KindNotImplemented error, regardless of the arguments.
type Relational interface {
	BuildWhereClause(args ...any) error
	Update(args ...any) error

	// All runs a raw command regardless of the dry-run mode of the
	// migration framework.
	All(args ...any) error
}
