// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts db-migrate style database
// configuration files (in JSON or YAML formats) from its users and
// allows the mongomig to instantiate a migration driver using those
// loaded settings.
//
// A configuration file maps environment names (like dev or prod) to
// their database settings. The environment may be chosen explicitly,
// or by the optional top-level "defaultEnv" entry, or defaults to
// "dev". Each string setting may be written as {"ENV": "VAR"} in
// order to be read from the VAR environment variable.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/momeni/mongo-migrate/pkg/core/cerr"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"
	"gopkg.in/yaml.v3"
)

// DefaultEnv is the environment name which is used when neither the
// caller nor the configuration file chooses one.
const DefaultEnv = "dev"

// URLVar is the environment variable which is consulted when the
// configuration file does not exist.
const URLVar = "DATABASE_URL"

// Load reads the configuration file at path, selects the env section
// of it, and returns the validated database settings.
// An empty env selects the "defaultEnv" of the file or DefaultEnv.
// If the file does not exist and the DATABASE_URL environment variable
// is set, settings are built from that URL instead.
func Load(path, env string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if u, ok := os.LookupEnv(URLVar); ok && errors.Is(err, os.ErrNotExist) {
			return FromURL(u)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var tree any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &tree)
	default:
		err = json.Unmarshal(data, &tree)
	}
	if err != nil {
		return nil, cerr.Configuration(
			fmt.Errorf("parsing %q: %w", path, err),
		)
	}
	return Parse(tree, env)
}

// Parse selects the env section of a decoded configuration tree and
// converts it to validated database settings. See Load for details.
func Parse(tree any, env string) (*Database, error) {
	top, ok := tree.(map[string]any)
	if !ok {
		return nil, cerr.Configuration(
			fmt.Errorf("expected a mapping at top-level, got %T", tree),
		)
	}
	section := any(top)
	_, hasDriver := top["driver"]
	_, hasDB := top["database"]
	if !hasDriver && !hasDB {
		if env == "" {
			env, _ = resolveEnv(top["defaultEnv"]).(string)
		}
		if env == "" {
			env = DefaultEnv
		}
		if section, ok = top[env]; !ok {
			return nil, cerr.Configuration(
				fmt.Errorf("environment %q is not defined", env),
			)
		}
	}
	switch s := resolveEnv(section).(type) {
	case string:
		return FromURL(s)
	case map[string]any:
		return decode(s)
	default:
		return nil, cerr.Configuration(fmt.Errorf(
			"environment %q: expected a mapping or URL, got %T", env, s,
		))
	}
}

// resolveEnv replaces all {"ENV": "VAR"} mappings of the v tree by
// the VAR environment variable value. Unset variables are replaced
// by nil, so their settings are treated as missing.
func resolveEnv(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if name, ok := t["ENV"].(string); ok && len(t) == 1 {
			if val, ok := os.LookupEnv(name); ok {
				return val
			}
			return nil
		}
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = resolveEnv(e)
		}
		return m
	case []any:
		l := make([]any, len(t))
		for i, e := range t {
			l[i] = resolveEnv(e)
		}
		return l
	default:
		return v
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func decode(m map[string]any) (*Database, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, cerr.Configuration(fmt.Errorf("encoding: %w", err))
	}
	d := &Database{}
	if err := json.Unmarshal(b, d); err != nil {
		return nil, cerr.Configuration(fmt.Errorf("decoding: %w", err))
	}
	if d.URL != "" && d.Database == "" {
		cs, err := connstring.ParseAndValidate(d.URL)
		if err != nil {
			return nil, cerr.Configuration(fmt.Errorf("parsing url: %w", err))
		}
		d.Database = cs.Database
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// FromURL returns the database settings which connect to the u URL.
// The database name is taken from the path of u.
func FromURL(u string) (*Database, error) {
	cs, err := connstring.ParseAndValidate(u)
	if err != nil {
		return nil, cerr.Configuration(fmt.Errorf("parsing URL: %w", err))
	}
	d := &Database{
		Driver:   "mongodb",
		URL:      u,
		Database: cs.Database,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
