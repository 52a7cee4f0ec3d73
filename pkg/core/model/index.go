// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Index describes an index of a collection as listed by a driver.
type Index struct {
	Name   string
	Keys   []IndexKey // in the index definition order
	Unique bool
}

// IndexKey is one key of an index. Order is 1 for an ascending key and
// -1 for a descending one. Special index kinds (e.g., text or hashed
// indexes) are reported with Order equal to zero.
type IndexKey struct {
	Field string
	Order int
}

// DatabaseOptions is the record form of a database switching request.
// It is accepted by the SwitchDatabase operation in addition to a bare
// database name string.
type DatabaseOptions struct {
	Database string `json:"database" yaml:"database"`
}
