package di

import (
	"sync"

	"github.com/kbukum/wirekit/logger"
)

// DiagnosticKind classifies a diagnostic.
type DiagnosticKind string

const (
	DiagRegistered DiagnosticKind = "registered"
	DiagReplaced   DiagnosticKind = "replaced"
	DiagInjected   DiagnosticKind = "injected"
	DiagMissing    DiagnosticKind = "missing_dependency"
	DiagMismatch   DiagnosticKind = "type_mismatch"
	DiagSkipped    DiagnosticKind = "skipped"
	DiagPostInit   DiagnosticKind = "post_init"
	DiagFailure    DiagnosticKind = "failure"
)

// Diagnostic is one human-readable trace event. Diagnostics are a side
// channel; the container never reads them back for control flow.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Key     string         `json:"key,omitempty"`
	Target  string         `json:"target,omitempty"`
	Member  string         `json:"member,omitempty"`
	Message string         `json:"message"`
}

// Sink receives diagnostics.
type Sink interface {
	Record(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(d Diagnostic)

// Record calls f(d).
func (f SinkFunc) Record(d Diagnostic) { f(d) }

// Recorder keeps diagnostics in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Diagnostic
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends d.
func (r *Recorder) Record(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, d)
}

// Entries returns a copy of all recorded diagnostics.
func (r *Recorder) Entries() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Diagnostic, len(r.entries))
	copy(out, r.entries)
	return out
}

// Filter returns the recorded diagnostics of the given kind.
func (r *Recorder) Filter(kind DiagnosticKind) []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Diagnostic
	for _, d := range r.entries {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Reset drops all recorded diagnostics.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

// LogSink forwards diagnostics to a logger. Problems are logged at warn
// level, everything else at debug.
type LogSink struct {
	Logger *logger.Logger
}

// Record logs d.
func (s LogSink) Record(d Diagnostic) {
	if s.Logger == nil {
		return
	}
	fields := logger.Fields("diagnostic", string(d.Kind))
	if d.Key != "" {
		fields[logger.FieldKey] = d.Key
	}
	if d.Target != "" {
		fields[logger.FieldTarget] = d.Target
	}
	if d.Member != "" {
		fields[logger.FieldMember] = d.Member
	}

	switch d.Kind {
	case DiagMissing, DiagMismatch, DiagReplaced, DiagFailure:
		s.Logger.Warn(d.Message, fields)
	default:
		s.Logger.Debug(d.Message, fields)
	}
}
