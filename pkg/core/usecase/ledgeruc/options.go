// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package ledgeruc

// Option is a functional option for the ledger use case.
type Option func(uc *UseCase) error

// WithDuplicates option configures a ledger UseCase instance in order
// to record names which are already recorded (if allow is true).
// By default, Mark refuses to record a name twice.
func WithDuplicates(allow bool) Option {
	return func(uc *UseCase) error {
		uc.allowDuplicates = allow
		return nil
	}
}
