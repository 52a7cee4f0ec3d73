// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "log/slog"

// Internals is the context which the migration framework hands to a
// driver while connecting. It names the ledger collections and carries
// the framework facilities which the driver may use. A driver treats
// Internals as read-only.
//
// There are no default ledger names at this level. The host framework
// is responsible to fill MigrationTable and SeedTable.
type Internals struct {
	MigrationTable string
	SeedTable      string
	Mod            Mod
}

// Mod holds the framework facilities which are passed explicitly to
// each driver instance (instead of being kept in package-level
// variables).
type Mod struct {
	// Log is the logger which the driver should use. A nil Log means
	// that the slog.Default() logger must be used.
	Log *slog.Logger

	// Type maps the framework data type names (e.g., "STRING") to
	// their host specific spelling. Document stores do not need them
	// but they are kept, so migrations may read them back from the
	// driver.
	Type map[string]string
}

// Logger returns m.Log or the default logger if m.Log is nil.
func (m Mod) Logger() *slog.Logger {
	if m.Log == nil {
		return slog.Default()
	}
	return m.Log
}
