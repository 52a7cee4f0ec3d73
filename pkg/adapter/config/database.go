// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/momeni/mongo-migrate/pkg/adapter/config/settings"
	"github.com/momeni/mongo-migrate/pkg/adapter/db/mongodb"
	"github.com/momeni/mongo-migrate/pkg/core/cerr"
	"github.com/momeni/mongo-migrate/pkg/core/model"
)

// Database contains the settings of one environment. The field names
// follow the db-migrate configuration files conventions.
type Database struct {
	Driver     string  `json:"driver,omitempty" validate:"omitempty,eq=mongodb"`
	URL        string  `json:"url,omitempty"`
	Host       Hosts   `json:"host,omitempty"`
	Hosts      Hosts   `json:"hosts,omitempty"`
	Port       Port    `json:"port,omitempty" validate:"gte=0,lte=65535"`
	User       *string `json:"user,omitempty"`
	Password   *string `json:"password,omitempty"`
	SSL        bool    `json:"ssl,omitempty"`
	AuthSource *string `json:"authSource,omitempty"`
	ReplicaSet string  `json:"replicaSet,omitempty"`
	Database   string  `json:"database" validate:"required"`
	Options    Options `json:"options,omitempty"`
}

// Options are the optional client tunables.
type Options struct {
	AppName                string             `json:"appName,omitempty"`
	MaxPoolSize            *uint64            `json:"maxPoolSize,omitempty"`
	MinPoolSize            *uint64            `json:"minPoolSize,omitempty"`
	ConnectTimeout         *settings.Duration `json:"connectTimeout,omitempty"`
	ServerSelectionTimeout *settings.Duration `json:"serverSelectionTimeout,omitempty"`
	Timeout                *settings.Duration `json:"timeout,omitempty"`
	RetryWrites            *bool              `json:"retryWrites,omitempty"`
	Direct                 *bool              `json:"directConnection,omitempty"`
}

// Validate checks d settings and reports their violations as a
// cerr.KindConfiguration error.
func (d *Database) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, ferr := range verrs {
			if ferr.StructNamespace() == "Database.Database" {
				return cerr.Configuration(fmt.Errorf(
					"%w: %w", cerr.ErrMissingDatabase, err,
				))
			}
		}
	}
	return cerr.Configuration(
		fmt.Errorf("invalid database settings: %w", err),
	)
}

// MongoConfig converts d to the mongodb adapter configuration.
func (d *Database) MongoConfig() mongodb.Config {
	return mongodb.Config{
		URL:        d.URL,
		Host:       d.Host.Spec(),
		Hosts:      d.Hosts.Spec(),
		Port:       int(d.Port),
		User:       d.User,
		Password:   d.Password,
		SSL:        d.SSL,
		AuthSource: d.AuthSource,
		ReplicaSet: d.ReplicaSet,
		Database:   d.Database,
		Options: mongodb.ClientOptions{
			AppName:                d.Options.AppName,
			MaxPoolSize:            d.Options.MaxPoolSize,
			MinPoolSize:            d.Options.MinPoolSize,
			ConnectTimeout:         duration(d.Options.ConnectTimeout),
			ServerSelectionTimeout: duration(d.Options.ServerSelectionTimeout),
			Timeout:                duration(d.Options.Timeout),
			RetryWrites:            d.Options.RetryWrites,
			Direct:                 d.Options.Direct,
		},
	}
}

func duration(d *settings.Duration) time.Duration {
	if d == nil {
		return 0
	}
	return time.Duration(*d)
}

// Connect creates a mongodb driver using the d settings.
func (d *Database) Connect(
	internals model.Internals, opts ...mongodb.Option,
) (*mongodb.Driver, error) {
	drv, err := mongodb.Connect(d.MongoConfig(), internals, opts...)
	if err != nil {
		return nil, fmt.Errorf("mongodb.Connect: %w", err)
	}
	return drv, nil
}

// Port is a port number which may be written as a number or as
// a numeric string (e.g., when it is taken from an environment
// variable).
type Port int

// UnmarshalJSON accepts a JSON number or a string.
func (p *Port) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*p = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", s, err)
		}
		*p = Port(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid port %s: %w", data, err)
	}
	*p = Port(n)
	return nil
}

// Hosts is a host or a list of hosts. It can be written as a host
// name string, a list of "host[:port]" strings, or a list of
// {"host": ..., "port": ...} records.
type Hosts struct {
	Name      string
	Names     []string
	Endpoints []Endpoint `validate:"dive"`
}

// Endpoint is an entry of a hosts list which is written as a record.
type Endpoint struct {
	Host string `json:"host" validate:"required"`
	Port Port   `json:"port,omitempty"`
}

// UnmarshalJSON accepts a string, a list of strings, or a list of
// endpoint records.
func (h *Hosts) UnmarshalJSON(data []byte) error {
	*h = Hosts{}
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &h.Name); err == nil {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("host must be a string or a list: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	var first string
	if err := json.Unmarshal(items[0], &first); err == nil {
		return json.Unmarshal(data, &h.Names)
	}
	return json.Unmarshal(data, &h.Endpoints)
}

// MarshalJSON writes h in the same form which it was read from.
func (h Hosts) MarshalJSON() ([]byte, error) {
	switch {
	case h.Endpoints != nil:
		return json.Marshal(h.Endpoints)
	case h.Names != nil:
		return json.Marshal(h.Names)
	case h.Name != "":
		return json.Marshal(h.Name)
	default:
		return []byte("null"), nil
	}
}

// Spec converts h to a mongodb.HostSpec. A zero h gives a nil spec.
func (h Hosts) Spec() mongodb.HostSpec {
	switch {
	case len(h.Endpoints) > 0:
		es := make(mongodb.Endpoints, len(h.Endpoints))
		for i, e := range h.Endpoints {
			es[i] = mongodb.Endpoint{Host: e.Host, Port: int(e.Port)}
		}
		return es
	case len(h.Names) > 0:
		return mongodb.HostNames(h.Names)
	case h.Name != "":
		return mongodb.SingleHost(h.Name)
	default:
		return nil
	}
}
