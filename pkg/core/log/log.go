// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package log provides helper function over the standard log/slog
// structured logging package. The Debug, Info, Warn, and Error
// functions accept a context, message, and a series of slog.Attr
// arguments facilitating usage of the slog.LogAttrs function.
//
// Drivers must not log through package-level state of the host, so
// the logger is carried by the context instead. NewContext attaches
// a logger (normally the model.Mod.Log of the driver internals) and
// the logging functions pick it up with FromContext, falling back to
// slog.Default() when no logger was attached.
package log

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

type ctxKey struct{}

// NewContext returns a copy of ctx which carries the l logger.
// A nil l leaves ctx unchanged.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger which was attached to ctx by the
// NewContext function, or slog.Default() if there is none.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// Debug logs msg and attrs with the given context at the debug level.
func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, 0, slog.LevelDebug, msg, attrs...)
}

// Info logs msg and attrs with the given context at the info level.
func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, 0, slog.LevelInfo, msg, attrs...)
}

// Warn logs msg and attrs with the given context at the warning level.
func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, 0, slog.LevelWarn, msg, attrs...)
}

// Error logs msg and attrs with the given context at the error level.
func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, 0, slog.LevelError, msg, attrs...)
}

// DebugDepth is like Debug, but skips depth more stack frames when
// reporting the source location. Logging helpers pass 1 so the lines
// which they log are attributed to their callers.
func DebugDepth(
	ctx context.Context, depth int, msg string, attrs ...slog.Attr,
) {
	logAttrs(ctx, depth, slog.LevelDebug, msg, attrs...)
}

// logAttrs logs the msg and given attrs using the level log-level.
// It ignores the direct caller of logAttrs function (and depth more
// frames) when looking for its caller file name and line number,
// hence, it must be either exported and only called by client codes
// or non-exported and caller from this package itself. And since it
// is called from this package, it has to be non-exported.
func logAttrs(
	ctx context.Context,
	depth int,
	level slog.Level,
	msg string,
	attrs ...slog.Attr,
) {
	l := FromContext(ctx)
	if !l.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	// skip [runtime.Callers, this function, its parent in log pkg]
	runtime.Callers(3+depth, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}
