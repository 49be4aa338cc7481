package hooks

import (
	"go.uber.org/zap"
)

// Event names consumed by the achievement/notification subsystems.
type Event string

const (
	EventPublished         Event = "published"
	EventImported          Event = "imported"
	EventDownloadMilestone Event = "downloadMilestone"
)

// Dispatcher hands domain events to external subsystems. Emit is
// fire-and-forget: callers invoke it after their transaction committed and
// never depend on its outcome.
type Dispatcher interface {
	Emit(event Event, payload map[string]any)
}

// LogDispatcher is the stand-in used until a real achievement/notification
// consumer is wired up; it records every event through zap.
type LogDispatcher struct {
	log *zap.Logger
}

func NewLogDispatcher(log *zap.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Emit(event Event, payload map[string]any) {
	go func() {
		defer func() {
			// A hook must never take the request path down with it.
			if r := recover(); r != nil {
				d.log.Error("hook dispatch panicked", zap.String("event", string(event)), zap.Any("recover", r))
			}
		}()
		d.log.Info("hook event", zap.String("event", string(event)), zap.Any("payload", payload))
	}()
}

// Default is set in main; tests leave the no-op logger in place.
var Default Dispatcher = NewLogDispatcher(zap.NewNop())

func SetDefault(d Dispatcher) {
	if d != nil {
		Default = d
	}
}

func Emit(event Event, payload map[string]any) {
	Default.Emit(event, payload)
}
