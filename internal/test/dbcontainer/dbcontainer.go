// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer is an internal helper for the test packages.
// This packages facilitates creation of a temporary mongo:6.0
// container and connecting to it, using a *mongodb.Driver instance.
// It may be used in all integration-level test suites which require
// a real MongoDB server.
package dbcontainer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/mongo-migrate/pkg/adapter/db/mongodb"
	"github.com/momeni/mongo-migrate/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	mongocontainer "github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// Image is the MongoDB container image which is used by New.
const Image = "mongo:6.0"

// New creates and starts up a mongo container and connects a driver
// to a freshly named database of it. Docker (or podman with its
// DOCKER_HOST environment variable pointing to its socket) must be
// available; otherwise, the test is skipped.
// The ctx will be used during the container start up and shutdown,
// while the timeout will be considered only during the start up phase.
func New(
	ctx context.Context,
	timeout time.Duration,
	t *testing.T,
	internals model.Internals,
	opts ...mongodb.Option,
) (
	c *mongocontainer.MongoDBContainer,
	d *mongodb.Driver,
	dfrs []func(),
	ok bool,
) {
	skipIfUnhealthy(t, testcontainers.SkipIfProviderIsNotHealthy)
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	c, err := mongocontainer.Run(ctx2, Image)
	ok = assert.NoError(t, err, "failed to set up a test database")
	if !ok {
		return
	}
	dfrs = append(dfrs, func() {
		err := c.Terminate(ctx)
		assert.NoError(t, err, "failed to terminate test database")
	})
	u, err := c.ConnectionString(ctx2)
	ok = assert.NoError(t, err, "cannot find test database address")
	if !ok {
		return
	}
	d, err = mongodb.Connect(mongodb.Config{
		URL:      u,
		Database: "test_" + uuid.NewString()[:8],
	}, internals, opts...)
	ok = assert.NoError(t, err, "cannot connect to test database")
	if !ok {
		return
	}
	dfrs = append(dfrs, func() {
		err := d.Close(ctx)
		assert.NoError(t, err, "failed to close the driver")
	})
	for {
		_, err = d.ListCollectionNames(ctx2)
		if err == nil || ctx2.Err() != nil {
			break
		}
		time.Sleep(100 * time.Millisecond) // server is starting up
	}
	ok = assert.NoError(t, err, "test database is not reachable")
	return
}

// skipIfUnhealthy runs the check function which is expected to skip t
// when no container provider is usable. A panic of check (e.g., when
// no docker socket can be found at all) is also turned into a skip.
func skipIfUnhealthy(t *testing.T, check func(*testing.T)) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Skip(fmt.Sprintf("container provider is not available: %v", r))
		}
	}()
	check(t)
}
