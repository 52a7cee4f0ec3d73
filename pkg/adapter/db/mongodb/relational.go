// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mongodb

import "github.com/momeni/mongo-migrate/pkg/core/cerr"

// BuildWhereClause is not supported by document stores.
func (d *Driver) BuildWhereClause(args ...any) error {
	return cerr.NotImplemented("buildWhereClause")
}

// Update is not supported by document stores.
func (d *Driver) Update(args ...any) error {
	return cerr.NotImplemented("update")
}

// All is not supported by document stores.
func (d *Driver) All(args ...any) error {
	return cerr.NotImplemented("all")
}
