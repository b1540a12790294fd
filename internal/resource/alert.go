package resource

import (
	"context"
	"fmt"
	"io"
	"sync"

	slogctx "github.com/veqryn/slog-context"
)

// LogAlerter only logs the alert.
type LogAlerter struct{}

func (LogAlerter) Alert(ctx context.Context, title, message string) {
	slogctx.Error(ctx, "Resource alert", "title", title, "message", message)
}

// WriterAlerter writes alerts to a terminal or any other writer, one per
// line. Concurrent alerts are serialised.
type WriterAlerter struct {
	mu  sync.Mutex
	out io.Writer
}

func NewWriterAlerter(out io.Writer) *WriterAlerter {
	return &WriterAlerter{out: out}
}

func (a *WriterAlerter) Alert(ctx context.Context, title, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := fmt.Fprintf(a.out, "%s: %s\n", title, message); err != nil {
		slogctx.Warn(ctx, "Failed to write alert", "error", err)
	}
}
