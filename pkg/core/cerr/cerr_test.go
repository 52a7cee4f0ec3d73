// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/momeni/mongo-migrate/pkg/core/cerr"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	native := errors.New("boom")
	for _, tc := range []struct {
		name string
		err  error
		kind cerr.Kind
	}{
		{"nil", nil, cerr.KindPassthrough},
		{"plain", native, cerr.KindPassthrough},
		{"configuration", cerr.Configuration(native), cerr.KindConfiguration},
		{"connection", cerr.Connection(native), cerr.KindConnection},
		{"duplicate", cerr.DuplicateResource(native), cerr.KindDuplicateResource},
		{"not implemented", cerr.NotImplemented("update"), cerr.KindNotImplemented},
		{
			"wrapped",
			fmt.Errorf("ctx: %w", cerr.Wrap(cerr.KindConnection, "find", native)),
			cerr.KindConnection,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, cerr.KindOf(tc.err))
		})
	}
}

func TestWrapKeepsNativeError(t *testing.T) {
	native := errors.New("boom")
	err := cerr.Wrap(cerr.KindPassthrough, "insert", native)
	assert.ErrorIs(t, err, native)
	assert.EqualError(t, err, "[passthrough] insert: boom")
	assert.NoError(t, cerr.Wrap(cerr.KindConnection, "insert", nil))
}

func TestNotImplemented(t *testing.T) {
	err := cerr.NotImplemented("buildWhereClause")
	assert.ErrorIs(t, err, cerr.ErrNotImplemented)
	assert.Equal(t, "buildWhereClause", err.Op)
}
