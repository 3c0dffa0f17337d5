// Structured run logging: one NDJSON line per event, plus operational
// slog output for humans.

package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	slogmulti "github.com/samber/slog-multi"
)

// EventLogger is the single shared log sink of a run. Event writes are
// serialized so concurrent org loops cannot interleave NDJSON lines.
type EventLogger struct {
	mu      sync.Mutex
	file    io.WriteCloser
	log     *slog.Logger
	runID   string
	batchID string
	verbose bool
}

// DefaultRunID builds run identifiers like run-20250901T120000Z-1a2b3c4d.
func DefaultRunID(prefix string) string {
	return fmt.Sprintf("%s-%s-%s",
		prefix,
		time.Now().UTC().Format("20060102T150405Z"),
		uuid.NewString()[:8],
	)
}

// NewEventLogger opens the NDJSON sink at ndjsonPath (empty disables it)
// and wires operational logging: text to stderr, JSON mirrored next to
// the event log.
func NewEventLogger(ndjsonPath, runID, batchID string, verbose bool) (*EventLogger, error) {
	l := &EventLogger{runID: runID, batchID: batchID, verbose: verbose}

	level := slog.LevelInfo
	if !verbose {
		level = slog.LevelWarn
	}
	stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	l.log = slog.New(stderrHandler)

	if ndjsonPath != "" {
		if err := os.MkdirAll(filepath.Dir(ndjsonPath), 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(ndjsonPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open event log: %w", err)
		}
		l.file = f

		opsFile, err := os.OpenFile(ndjsonPath+".ops", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			l.log = slog.New(slogmulti.Fanout(
				stderrHandler,
				slog.NewJSONHandler(opsFile, &slog.HandlerOptions{Level: slog.LevelInfo}),
			))
		}
	}
	return l, nil
}

func (l *EventLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Emit writes one event line. Every line carries event, ts_utc, run_id
// and batch_id plus the event-specific fields.
func (l *EventLogger) Emit(event string, fields map[string]any) {
	payload := map[string]any{
		"event":    event,
		"ts_utc":   time.Now().UTC().Format(time.RFC3339Nano),
		"run_id":   l.runID,
		"batch_id": l.batchID,
	}
	for k, v := range fields {
		payload[k] = v
	}
	line, err := json.Marshal(payload)
	if err != nil {
		l.log.Warn("drop unserializable event", "event", event, "error", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Write(append(line, '\n'))
	}
}

// Info logs a human-readable progress line.
func (l *EventLogger) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

func (l *EventLogger) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}
