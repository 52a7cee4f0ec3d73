// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultPort is used for hosts which do not specify their own port
// when the Config.Port is not set either.
const DefaultPort = 27017

// Config describes how a Driver should reach its MongoDB deployment.
// Pointer fields are nil when their value is not specified.
type Config struct {
	// URL is a complete connection string. When set, it is used as is
	// and all other addressing fields are ignored.
	URL string

	Host  HostSpec
	Hosts HostSpec // takes precedence over Host only if it is a sequence
	Port  int      // zero means DefaultPort

	User     *string
	Password *string // an empty (non-nil) password is still present

	SSL        bool
	AuthSource *string
	ReplicaSet string

	// Database is the initially selected database. It is mandatory.
	Database string

	Options ClientOptions

	// Client is an already constructed client. When it is non-nil,
	// Connect adopts it instead of creating a new client. The driver
	// still takes its ownership and disconnects it on Close.
	Client *mongo.Client
}

// HostSpec is one of the SingleHost, HostNames, or Endpoints types.
type HostSpec interface {
	hostList(port int) (string, bool)
}

// SingleHost is a lone host name (without port).
type SingleHost string

// HostNames is an ordered list of hosts. Each entry may carry its own
// ":port" suffix.
type HostNames []string

// Endpoints is an ordered list of hosts with their optional ports.
type Endpoints []Endpoint

// Endpoint is one host of an Endpoints list. A zero Port means that
// the global port should be used.
type Endpoint struct {
	Host string
	Port int
}

// ClientOptions are the tunables which are applied on the mongo client
// options after the connection string is parsed. Nil or zero fields
// leave the client library defaults intact.
type ClientOptions struct {
	AppName                string
	MaxPoolSize            *uint64
	MinPoolSize            *uint64
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	Timeout                time.Duration
	RetryWrites            *bool
	Direct                 *bool
}

func (co ClientOptions) apply(opts *options.ClientOptions) {
	if co.AppName != "" {
		opts.SetAppName(co.AppName)
	}
	if co.MaxPoolSize != nil {
		opts.SetMaxPoolSize(*co.MaxPoolSize)
	}
	if co.MinPoolSize != nil {
		opts.SetMinPoolSize(*co.MinPoolSize)
	}
	if co.ConnectTimeout > 0 {
		opts.SetConnectTimeout(co.ConnectTimeout)
	}
	if co.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(co.ServerSelectionTimeout)
	}
	if co.Timeout > 0 {
		opts.SetTimeout(co.Timeout)
	}
	if co.RetryWrites != nil {
		opts.SetRetryWrites(*co.RetryWrites)
	}
	if co.Direct != nil {
		opts.SetDirect(*co.Direct)
	}
}
