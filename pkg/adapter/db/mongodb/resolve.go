// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mongodb

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/momeni/mongo-migrate/pkg/core/cerr"
)

// Resolve computes the canonical connection string of cfg.
//
// If cfg.URL is set, it is returned verbatim. Otherwise, a URI with
// the following format is assembled:
//
//	mongodb://[user:password@]host1[:port1][,host2[:port2]...]/database[?params]
//
// The cfg.Hosts is only considered when it is a HostNames or an
// Endpoints sequence; a SingleHost in there is ignored in favor of
// cfg.Host. The credentials are only included when both of user and password
// are present. The params are ssl=true, authSource, and replicaSet in
// that order, each one being present only if configured. The
// authSource is ignored unless credentials are included.
func Resolve(cfg Config) (string, error) {
	if cfg.URL != "" {
		return cfg.URL, nil
	}
	if cfg.Database == "" {
		return "", cerr.Configuration(cerr.ErrMissingDatabase)
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	hosts, ok := "", false
	switch hs := cfg.Hosts.(type) {
	case HostNames, Endpoints:
		hosts, ok = hs.hostList(port)
	}
	if !ok && cfg.Host != nil {
		hosts, ok = cfg.Host.hostList(port)
	}
	if !ok {
		hosts = "localhost:" + strconv.Itoa(port)
	}

	var sb strings.Builder
	sb.WriteString("mongodb://")
	auth := cfg.User != nil && cfg.Password != nil
	if auth {
		sb.WriteString(escapeComponent(*cfg.User))
		sb.WriteByte(':')
		sb.WriteString(escapeComponent(*cfg.Password))
		sb.WriteByte('@')
	}
	sb.WriteString(hosts)
	sb.WriteByte('/')
	sb.WriteString(cfg.Database)

	var params []string
	if cfg.SSL {
		params = append(params, "ssl=true")
	}
	if auth && cfg.AuthSource != nil {
		params = append(params, "authSource="+*cfg.AuthSource)
	}
	if cfg.ReplicaSet != "" {
		params = append(params, "replicaSet="+cfg.ReplicaSet)
	}
	if len(params) > 0 {
		sb.WriteByte('?')
		sb.WriteString(strings.Join(params, "&"))
	}
	return sb.String(), nil
}

// escapeComponent percent-encodes s as a URI component. The unreserved
// characters and !'()* are kept and the space is encoded as %20.
func escapeComponent(s string) string {
	s = url.QueryEscape(s)
	s = strings.ReplaceAll(s, "+", "%20")
	for _, r := range []struct{ from, to string }{
		{"%21", "!"}, {"%27", "'"}, {"%28", "("}, {"%29", ")"}, {"%2A", "*"},
	} {
		s = strings.ReplaceAll(s, r.from, r.to)
	}
	return s
}

func (h SingleHost) hostList(port int) (string, bool) {
	if h == "" {
		return "", false
	}
	return string(h) + ":" + strconv.Itoa(port), true
}

func (hs HostNames) hostList(port int) (string, bool) {
	if len(hs) == 0 {
		return "", false
	}
	p := ":" + strconv.Itoa(port)
	parts := make([]string, len(hs))
	for i, h := range hs {
		if strings.Contains(h, ":") {
			parts[i] = h
		} else {
			parts[i] = h + p
		}
	}
	return strings.Join(parts, ","), true
}

func (es Endpoints) hostList(port int) (string, bool) {
	if len(es) == 0 {
		return "", false
	}
	parts := make([]string, len(es))
	for i, e := range es {
		p := e.Port
		if p == 0 {
			p = port
		}
		parts[i] = e.Host + ":" + strconv.Itoa(p)
	}
	return strings.Join(parts, ","), true
}

// Redact replaces the password of a mongodb:// connection string by
// "xxxxx", so it may be logged or printed. Strings without a password
// are returned unchanged.
func Redact(uri string) string {
	_, rest, found := strings.Cut(uri, "://")
	if !found {
		return uri
	}
	authority := rest
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		authority = rest[:i]
	}
	at := strings.LastIndex(authority, "@")
	if at < 0 {
		return uri
	}
	colon := strings.Index(authority[:at], ":")
	if colon < 0 {
		return uri
	}
	start := len(uri) - len(rest) + colon + 1
	end := len(uri) - len(rest) + at
	return uri[:start] + "xxxxx" + uri[end:]
}
