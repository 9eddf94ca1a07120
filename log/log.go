// Copyright 2016 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package log is the structured, leveled logger used throughout photocat.
// Call sites pass a message plus alternating key/value pairs, e.g.
// log.Info("synced with peer", "peer", peerID, "days", n). Output is plain
// key=value text from slog's text handler, written to stderr (through a
// go-colorable writer when stderr is a TTY) or to a rotating file. Levels
// are not colored.
package log

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

var root = New(os.Stderr)

// SetOutput redirects the root logger to w (see New for how a terminal is
// handled).
func SetOutput(w io.Writer) {
	root = New(w)
}

// SetFile points the root logger at a rotating log file, in the manner of
// gopkg.in/natefinch/lumberjack.v2. It replaces the current output: nothing
// is written to the console afterwards, and the file gets plain key=value
// text.
func SetFile(path string, maxSizeMB, maxBackups, maxAgeDays int) {
	root = New(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	})
}

// Logger is a leveled, structured logger bound to a fixed set of context
// key/value pairs.
type Logger struct {
	s *slog.Logger
}

// New builds a Logger writing plain logfmt-style text to w at Info level and
// above. If w is a terminal, it is wrapped in a go-colorable writer; the text
// itself carries no level colors either way.
func New(w io.Writer) *Logger {
	var handler slog.Handler
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		handler = slog.NewTextHandler(colorable.NewColorable(f), &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{s: slog.New(handler)}
}

// With returns a Logger that always includes the given key/value pairs.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{s: l.s.With(kv...)}
}

func (l *Logger) Trace(msg string, kv ...any) { l.s.Debug(msg, kv...) }
func (l *Logger) Debug(msg string, kv ...any) { l.s.Debug(msg, kv...) }
func (l *Logger) Info(msg string, kv ...any)  { l.s.Info(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.s.Warn(msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.s.Error(msg, kv...) }

// Crit logs at error level and then terminates the process, mirroring
// go-ethereum's log.Crit: it exists for failures the caller has decided are
// unrecoverable (see catalogdb's StorageEngineError taxonomy), not for
// ordinary error returns.
func (l *Logger) Crit(msg string, kv ...any) {
	l.s.Error(msg, kv...)
	os.Exit(1)
}

// package-level convenience wrappers over the root logger.

func With(kv ...any) *Logger         { return root.With(kv...) }
func Trace(msg string, kv ...any)    { root.Trace(msg, kv...) }
func Debug(msg string, kv ...any)    { root.Debug(msg, kv...) }
func Info(msg string, kv ...any)     { root.Info(msg, kv...) }
func Warn(msg string, kv ...any)     { root.Warn(msg, kv...) }
func Error(msg string, kv ...any)    { root.Error(msg, kv...) }
func Crit(msg string, kv ...any)     { root.Crit(msg, kv...) }
