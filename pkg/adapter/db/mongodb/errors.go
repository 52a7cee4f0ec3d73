// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mongodb

import (
	"errors"

	"github.com/momeni/mongo-migrate/pkg/core/cerr"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/topology"
)

// Server error codes which are classified by Classify.
const (
	CodeNamespaceExists     = 48
	CodeAuthenticationError = 18
)

// Classify maps an error which was returned by the mongo-driver to
// its cerr.Kind. Errors which are already classified keep their kind.
func Classify(err error) cerr.Kind {
	if err == nil {
		return cerr.KindPassthrough
	}
	var ce *cerr.Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	var se mongo.ServerError
	if errors.As(err, &se) {
		switch {
		case se.HasErrorCode(CodeNamespaceExists):
			return cerr.KindDuplicateResource
		case se.HasErrorCode(CodeAuthenticationError):
			return cerr.KindConnection
		}
	}
	var sse topology.ServerSelectionError
	switch {
	case errors.As(err, &sse), errors.Is(err, mongo.ErrClientDisconnected),
		mongo.IsNetworkError(err), mongo.IsTimeout(err):
		return cerr.KindConnection
	}
	return cerr.KindPassthrough
}

// wrap classifies err and wraps it as a *cerr.Error for the op name.
// A nil err is returned as nil.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return cerr.Wrap(Classify(err), op, err)
}
