// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings contains the value types which are shared by the
// configuration file formats.
package settings

import (
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Duration is a specialization of the time.Duration which is written
// in configuration files as a string like "1m30s" instead of a number
// of nanoseconds.
type Duration time.Duration

// UnmarshalText reifies the encoding.TextUnmarshaler interface, so
// a JSON or YAML string can be decoded as a time duration. The format
// of the `data` argument should conform to the time.ParseDuration
// expected format. Negative durations are rejected. The `d` receiver
// is only updated when a nil error is returned.
func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	if dd < 0 {
		return errors.New("duration must not be negative")
	}
	*d = Duration(dd)
	return nil
}

// String returns the time.Duration representation of d, ignoring the
// zero trailing units (e.g., 2m instead of 2m0s).
func (d Duration) String() string {
	s := time.Duration(d).String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}

// MarshalText implements encoding.TextMarshaler interface and
// serializes `d` duration using its String method.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LogValue implements slog.LogValuer and returns a DurationValue if
// this Duration is not nil, otherwise, it returns a StringValue with
// the constant "nil-duration" value.
func (d *Duration) LogValue() slog.Value {
	if d == nil {
		return slog.StringValue("nil-duration")
	}
	return slog.DurationValue(time.Duration(*d))
}
