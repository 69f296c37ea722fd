// Package notify carries user-visible outcome messages from the
// query/mutation layer to whatever surface is showing them.
package notify

import (
	"sync"

	"go.uber.org/zap"

	"github.com/sensesdx/portalkit/core"
)

// Logger emits notifications through zap. The gateway uses it so every
// toast the operator would see also lands in the server log.
type Logger struct {
	log *zap.Logger
}

var _ core.Notifier = (*Logger)(nil)

func NewLogger(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log}
}

func (n *Logger) Success(message string) {
	n.log.Info("notification", zap.String("kind", "success"), zap.String("message", message))
}

func (n *Logger) Error(message string) {
	n.log.Warn("notification", zap.String("kind", "error"), zap.String("message", message))
}

// Recorder collects notifications in memory. Views poll and drain it;
// tests assert against it.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

type Event struct {
	Kind    string `json:"kind"` // "success" or "error"
	Message string `json:"message"`
}

var _ core.Notifier = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Success(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: "success", Message: message})
}

func (r *Recorder) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: "error", Message: message})
}

// Drain returns the collected events and empties the recorder.
func (r *Recorder) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

// Tee fans a notification out to several sinks.
type Tee []core.Notifier

var _ core.Notifier = (Tee)(nil)

func (t Tee) Success(message string) {
	for _, n := range t {
		n.Success(message)
	}
}

func (t Tee) Error(message string) {
	for _, n := range t {
		n.Error(message)
	}
}
