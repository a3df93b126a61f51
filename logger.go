// SPDX-License-Identifier: GPL-2.0-only

package hyperion

import (
	"sync"

	"github.com/embeddedlog/hyperion/logline"
)

// Logger is the registry-and-dispatch core (component E): it resolves a log
// id against its registered entries and fans the rendered line out to every
// writer whose severity threshold is met. A single mutex serializes every
// operation, exactly mirroring the original firmware's single global log
// mutex — it is held for the full duration of a Log/Printf call including
// sink dispatch, so internal collaborators (the registry, PersistentWriter,
// Reader) never need their own locking.
type Logger struct {
	mu       sync.Mutex
	registry logline.Registry
	writers  []Writer
}

// NewLogger returns an empty Logger: no entries, no writers.
func NewLogger() *Logger {
	return &Logger{}
}

// RegisterEntries adds a group of log entries, available for lookup by
// Log. Silently saturates past logline.MaxGroups registered groups,
// mirroring logger_register_log_entries.
func (l *Logger) RegisterEntries(g logline.Group) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.registry.Register(g)
}

// RegisterWriter adds a sink. Returns false (no-op) if MaxWriters are
// already registered, or if an identical (Key, Severity, Encode) tuple is
// already present.
func (l *Logger) RegisterWriter(w Writer) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.writers) >= MaxWriters {
		return false
	}
	for _, existing := range l.writers {
		if existing.sameTuple(w) {
			return false
		}
	}
	l.writers = append(l.writers, w)
	return true
}

func (l *Logger) dispatchLocked(severity Severity, id uint16, format string, registered bool, args []logline.Arg) {
	for _, w := range l.writers {
		if severity < w.Severity {
			continue
		}
		line, _ := logline.Render(id, format, args, !w.Encode, registered)
		w.Sink([]byte(line))
	}
}

// Log renders and dispatches a registered entry's line at the given
// severity. An id with no registered entry is silently dropped (UnknownId):
// no sink is invoked, matching the firmware's "misuse must not cascade"
// rationale.
func (l *Logger) Log(severity Severity, id uint16, args ...logline.Arg) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.registry.Lookup(id)
	if !ok {
		return
	}
	l.dispatchLocked(severity, id, entry.Format, true, args)
}

// LogNormal logs at SeverityNormal, the Go equivalent of the firmware's
// unqualified logger_log.
func (l *Logger) LogNormal(id uint16, args ...logline.Arg) {
	l.Log(SeverityNormal, id, args...)
}

// SeverityPrintf renders format directly (no registered entry) under the
// reserved logline.PrintfID, dispatching at severity.
func (l *Logger) SeverityPrintf(severity Severity, format string, args ...logline.Arg) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dispatchLocked(severity, logline.PrintfID, format, false, args)
}

// Printf is SeverityPrintf at SeverityNormal.
func (l *Logger) Printf(format string, args ...logline.Arg) {
	l.SeverityPrintf(SeverityNormal, format, args...)
}

// SeverityPrintfWithID is SeverityPrintf under a caller-chosen id instead of
// the fixed logline.PrintfID, mirroring logger_severity_printf_with_id.
func (l *Logger) SeverityPrintfWithID(severity Severity, id uint16, format string, args ...logline.Arg) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dispatchLocked(severity, id, format, false, args)
}

// PrintfWithID is SeverityPrintfWithID at SeverityNormal.
func (l *Logger) PrintfWithID(id uint16, format string, args ...logline.Arg) {
	l.SeverityPrintfWithID(SeverityNormal, id, format, args...)
}
