package testutil

import (
	"sync"

	"github.com/hupe1980/cmdinvoke/logging"
)

// LogEntry is one recorded log call.
type LogEntry struct {
	Level string
	Msg   string
	Attrs map[string]any
}

// RecordingLogger is a logging.Logger that keeps every entry in memory.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

var _ logging.Logger = (*RecordingLogger)(nil)

// NewRecordingLogger creates an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger { return &RecordingLogger{} }

func (r *RecordingLogger) Debug(msg string, args ...any) { r.record("debug", msg, args) }
func (r *RecordingLogger) Info(msg string, args ...any)  { r.record("info", msg, args) }
func (r *RecordingLogger) Warn(msg string, args ...any)  { r.record("warn", msg, args) }
func (r *RecordingLogger) Error(msg string, args ...any) { r.record("error", msg, args) }

func (r *RecordingLogger) record(level, msg string, args []any) {
	attrs := map[string]any{}
	for i := 0; i+1 < len(args); i += 2 {
		if k, ok := args[i].(string); ok {
			attrs[k] = args[i+1]
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, LogEntry{Level: level, Msg: msg, Attrs: attrs})
}

// Entries returns a copy of the recorded entries.
func (r *RecordingLogger) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LogEntry(nil), r.entries...)
}

// Messages returns the recorded messages in order.
func (r *RecordingLogger) Messages() []string {
	var out []string
	for _, e := range r.Entries() {
		out = append(out, e.Msg)
	}
	return out
}

// Find returns the first entry with the given message.
func (r *RecordingLogger) Find(msg string) (LogEntry, bool) {
	for _, e := range r.Entries() {
		if e.Msg == msg {
			return e, true
		}
	}
	return LogEntry{}, false
}
