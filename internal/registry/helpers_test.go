package registry

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/specialistvlad/pluginui/internal/ctxlog"
	"github.com/specialistvlad/pluginui/internal/uiid"
	"github.com/stretchr/testify/require"
)

// logBuffer captures log output written from several goroutines.
type logBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *logBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *logBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

// newTestRegistry returns a registry, a context carrying a debug logger and
// the buffer that logger writes to.
func newTestRegistry(t *testing.T, opts ...Option) (*Registry, context.Context, *logBuffer) {
	t.Helper()
	logs := &logBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := New(append([]Option{WithLogger(logger)}, opts...)...)
	return r, ctxlog.WithLogger(context.Background(), logger), logs
}

func mustRegister(t *testing.T, r *Registry, ctx context.Context, c uiid.ComponentID, p uiid.PluginID) {
	t.Helper()
	require.NoError(t, r.RegisterComponent(ctx, c, p))
	require.NoError(t, r.CheckInvariants())
}

type recordingObserver struct {
	mu        sync.Mutex
	ops       []Op
	conflicts []string
	last      [2]int
}

func (o *recordingObserver) ObserveMutation(op Op, components, plugins int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, op)
	o.last = [2]int{components, plugins}
}

func (o *recordingObserver) ObserveConflict(c uiid.ComponentID, previous, next uiid.PluginID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.conflicts = append(o.conflicts, string(c)+":"+string(previous)+"->"+string(next))
}
