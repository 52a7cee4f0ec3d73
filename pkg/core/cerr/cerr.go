// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr defines the error taxonomy of migration drivers.
// Driver operations report their failures as *Error instances which
// carry a Kind, the failed operation name, and the wrapped native
// error. The native error remains reachable with errors.As, so callers
// may still inspect the database client library error types.
package cerr

import (
	"errors"
	"fmt"
)

// Kind classifies a driver error.
type Kind int

// These constants list the known error kinds. The zero value is
// KindPassthrough, so an unclassified error is reported unchanged.
const (
	// KindPassthrough is any underlying failure which is not otherwise
	// classified, e.g., a bad index spec or a closed client.
	KindPassthrough Kind = iota

	// KindConfiguration indicates an unusable configuration, such as
	// a missing database name. It is reported before any connection.
	KindConfiguration

	// KindConnection indicates a network or authentication failure.
	KindConnection

	// KindDuplicateResource indicates that a collection (or another
	// named resource) already exists.
	KindDuplicateResource

	// KindNotImplemented is reported by relational-only operations.
	KindNotImplemented
)

// String returns the human-readable name of k.
func (k Kind) String() string {
	switch k {
	case KindPassthrough:
		return "passthrough"
	case KindConfiguration:
		return "configuration"
	case KindConnection:
		return "connection"
	case KindDuplicateResource:
		return "duplicate-resource"
	case KindNotImplemented:
		return "not-implemented"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	// ErrNotImplemented is wrapped by all KindNotImplemented errors.
	ErrNotImplemented = errors.New("there is no NoSQL implementation")

	// ErrMissingDatabase is wrapped when a configuration has no
	// database name.
	ErrMissingDatabase = errors.New("database must be defined")
)

// Error is a classified driver error.
type Error struct {
	Kind Kind
	Op   string // failed operation name, may be empty
	Err  error
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("[%s] %s", e.Kind, e.Err.Error())
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Op, e.Err.Error())
}

// Wrap returns err as an *Error with the given kind and op name.
// A nil err is returned as nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func Configuration(err error) *Error {
	return &Error{Kind: KindConfiguration, Err: err}
}

func Connection(err error) *Error {
	return &Error{Kind: KindConnection, Err: err}
}

func DuplicateResource(err error) *Error {
	return &Error{Kind: KindDuplicateResource, Err: err}
}

// NotImplemented returns a KindNotImplemented error for the op
// operation, wrapping ErrNotImplemented.
func NotImplemented(op string) *Error {
	return &Error{Kind: KindNotImplemented, Op: op, Err: ErrNotImplemented}
}

// KindOf returns the Kind of the outermost *Error in the err chain.
// Errors which were never classified are reported as KindPassthrough.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPassthrough
}
