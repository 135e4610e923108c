// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger wraps zerolog.Logger with the constructors and helpers used
// by the sync daemon.
//
// Logger embeds zerolog.Logger, so the usual zerolog API (Debug, Info, Warn,
// Error, ...) is available directly. Loggers are passed around by pointer;
// per-server loggers are derived with WithServer and request-scoped ones are
// obtained through FromContext or FromRequest.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	FieldServerID   = "server_id"
	FieldServerName = "server_name"
	FieldComponent  = "component"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// NewLogger constructs a JSON logger writing to os.Stdout.
//
// Every entry carries a "role" field, a timestamp and a "func" caller field
// holding the fully-qualified function name instead of file:line.
func NewLogger(role string) *Logger {
	return newLogger(os.Stdout, role)
}

// NewFileLogger behaves like NewLogger but appends to the file at path.
// When the file cannot be opened it falls back to os.Stdout.
func NewFileLogger(role, path string) *Logger {
	if path == "" {
		return NewLogger(role)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l := NewLogger(role)
		l.Warn().Err(err).Str("path", path).Msg("cannot open log file, writing to stdout")
		return l
	}
	return newLogger(file, role)
}

func newLogger(w io.Writer, role string) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	logger := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// Nop returns a *Logger that discards all output. Intended for tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a copy of the receiver that can be enriched without
// affecting the parent.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// WithServer returns a child logger tagged with the server id and name.
// Credentials are never attached.
func (l *Logger) WithServer(id, name string) *Logger {
	return &Logger{l.With().Str(FieldServerID, id).Str(FieldServerName, name).Logger()}
}

// WithComponent returns a child logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{l.With().Str(FieldComponent, name).Logger()}
}

// FromRequest returns the logger attached to the request context.
func FromRequest(r *http.Request) *Logger {
	return &Logger{*log.Ctx(r.Context())}
}

// FromContext returns the logger attached to ctx. When none is attached
// zerolog falls back to its default logger, so the result is never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
