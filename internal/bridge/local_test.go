package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/pluginui/internal/uiid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startLocal runs a Local channel for the duration of the test.
func startLocal(t *testing.T, opts ...LocalOption) *Local {
	t.Helper()
	l := NewLocal(opts...)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	t.Cleanup(func() {
		require.NoError(t, l.Close())
		cancel()
		<-errCh
	})
	return l
}

func TestLocal_DeliversInArrivalOrder(t *testing.T) {
	l := startLocal(t)
	ctx := context.Background()

	var got []string
	l.Subscribe(KindRegisterComponent, func(_ context.Context, ev Event) error {
		got = append(got, "register:"+ev.Component.ComponentID.String())
		return nil
	})
	l.Subscribe(KindRemoveComponent, func(_ context.Context, ev Event) error {
		got = append(got, "remove:"+ev.Component.ComponentID.String())
		return nil
	})

	for i := 0; i < 5; i++ {
		c := uiid.ComponentID(fmt.Sprintf("comp-%d", i))
		require.NoError(t, l.Publish(ctx, ComponentEvent(KindRegisterComponent, c, "plugin-A")))
		require.NoError(t, l.Publish(ctx, ComponentEvent(KindRemoveComponent, c, "plugin-A")))
	}
	// A synchronous publish acts as a barrier for everything queued before it.
	require.NoError(t, l.PublishSync(ctx, LifecycleEvent(KindPluginLoaded, "plugin-A", true)))

	want := []string{
		"register:comp-0", "remove:comp-0",
		"register:comp-1", "remove:comp-1",
		"register:comp-2", "remove:comp-2",
		"register:comp-3", "remove:comp-3",
		"register:comp-4", "remove:comp-4",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("delivery order mismatch (-want +got):\n%s", diff)
	}
}

func TestLocal_HandlersNeverOverlap(t *testing.T) {
	l := startLocal(t, WithQueueSize(256))
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	handler := func(context.Context, Event) error {
		mu.Lock()
		active++
		if active > maxSeen {
			maxSeen = active
		}
		mu.Unlock()
		time.Sleep(time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		return nil
	}
	l.Subscribe(KindRegisterComponent, handler)
	l.Subscribe(KindRegisterComponent, handler)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := uiid.ComponentID(fmt.Sprintf("comp-%d", i))
			assert.NoError(t, l.Publish(ctx, ComponentEvent(KindRegisterComponent, c, "plugin-A")))
		}(i)
	}
	wg.Wait()
	require.NoError(t, l.PublishSync(ctx, LifecycleEvent(KindPluginLoaded, "plugin-A", true)))

	assert.Equal(t, 1, maxSeen)
}

func TestLocal_UnsubscribeRemovesOnlyThatListener(t *testing.T) {
	l := startLocal(t)
	ctx := context.Background()

	var first, second int
	id1 := l.Subscribe(KindPluginUnloaded, func(context.Context, Event) error { first++; return nil })
	l.Subscribe(KindPluginUnloaded, func(context.Context, Event) error { second++; return nil })
	require.Equal(t, 2, l.ListenerCount(KindPluginUnloaded))

	assert.False(t, l.Unsubscribe(KindRegisterComponent, id1), "wrong kind must not match")
	assert.True(t, l.Unsubscribe(KindPluginUnloaded, id1))
	assert.False(t, l.Unsubscribe(KindPluginUnloaded, id1), "second unsubscribe is a no-op")
	assert.Equal(t, 1, l.ListenerCount(KindPluginUnloaded))

	require.NoError(t, l.PublishSync(ctx, LifecycleEvent(KindPluginUnloaded, "plugin-A", true)))
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestLocal_DropsInvalidEvents(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l := startLocal(t, WithLogger(logger))
	ctx := context.Background()

	called := false
	l.Subscribe(KindRegisterComponent, func(context.Context, Event) error { called = true; return nil })

	require.NoError(t, l.PublishSync(ctx, Event{Kind: KindRegisterComponent}))
	require.NoError(t, l.PublishSync(ctx, ComponentEvent(KindRegisterComponent, "", "plugin-A")))

	assert.False(t, called)
	assert.Contains(t, logs.String(), "Dropping invalid bridge event.")
}

func TestLocal_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	l := startLocal(t, WithLogger(logger))

	reached := false
	l.Subscribe(KindError, func(context.Context, Event) error { return errors.New("boom") })
	l.Subscribe(KindError, func(context.Context, Event) error { reached = true; return nil })

	require.NoError(t, l.PublishSync(context.Background(), MessageEvent(KindError, "plugin-A", "error", "crashed")))
	assert.True(t, reached)
	assert.Contains(t, logs.String(), "boom")
}

func TestLocal_SyncPublishFromHandlerIsRejected(t *testing.T) {
	l := startLocal(t)

	var inner error
	l.Subscribe(KindPluginLoaded, func(ctx context.Context, ev Event) error {
		inner = l.PublishSync(ctx, LifecycleEvent(KindPluginInitialized, ev.PluginID(), true))
		return nil
	})

	require.NoError(t, l.PublishSync(context.Background(), LifecycleEvent(KindPluginLoaded, "plugin-A", true)))
	assert.ErrorIs(t, inner, ErrReentrant)
}

func TestLocal_AsyncPublishFromHandlerRunsAfterwards(t *testing.T) {
	l := startLocal(t)
	ctx := context.Background()

	var order []Kind
	l.Subscribe(KindPluginLoaded, func(ctx context.Context, ev Event) error {
		order = append(order, ev.Kind)
		return l.Publish(ctx, LifecycleEvent(KindPluginInitialized, ev.PluginID(), true))
	})
	l.Subscribe(KindPluginInitialized, func(_ context.Context, ev Event) error {
		order = append(order, ev.Kind)
		return nil
	})

	require.NoError(t, l.PublishSync(ctx, LifecycleEvent(KindPluginLoaded, "plugin-A", true)))
	require.NoError(t, l.PublishSync(ctx, MessageEvent(KindLog, "plugin-A", "info", "barrier")))
	assert.Equal(t, []Kind{KindPluginLoaded, KindPluginInitialized}, order)
}

func TestLocal_CloseDrainsQueue(t *testing.T) {
	l := NewLocal(WithQueueSize(8))
	ctx := context.Background()

	count := 0
	l.Subscribe(KindLog, func(context.Context, Event) error { count++; return nil })
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Publish(ctx, MessageEvent(KindLog, "plugin-A", "info", "hello")))
	}

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	require.NoError(t, l.Close())
	require.NoError(t, <-errCh)

	assert.Equal(t, 5, count)
	assert.ErrorIs(t, l.Publish(ctx, MessageEvent(KindLog, "plugin-A", "info", "late")), ErrClosed)
	assert.ErrorIs(t, l.Run(ctx), ErrAlreadyRunning)
}

func TestLocal_InvokeUIEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("no runtime", func(t *testing.T) {
		l := NewLocal()
		err := l.InvokeUIEvent(ctx, UIEvent{PluginID: "plugin-A", EventID: "press"})
		assert.ErrorIs(t, err, ErrNoInvoker)
	})

	t.Run("forwards to runtime", func(t *testing.T) {
		var got UIEvent
		l := NewLocal(WithInvokeFunc(func(_ context.Context, ev UIEvent) error {
			got = ev
			return nil
		}))
		ev := UIEvent{PluginID: "plugin-A", EventID: "press", Data: map[string]any{"x": 1}}
		require.NoError(t, l.InvokeUIEvent(ctx, ev))
		assert.Equal(t, ev, got)
	})

	t.Run("rejects empty plugin", func(t *testing.T) {
		l := NewLocal(WithInvokeFunc(func(context.Context, UIEvent) error { return nil }))
		err := l.InvokeUIEvent(ctx, UIEvent{EventID: "press"})
		assert.ErrorIs(t, err, uiid.ErrEmptyID)
	})
}

func TestLocal_PublishAfterCancelledRunIsRejected(t *testing.T) {
	l := NewLocal()
	delivered := 0
	l.Subscribe(KindPluginLoaded, func(context.Context, Event) error { delivered++; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	// Every attempt must fail; the queue still has room but nobody drains it.
	for i := 0; i < 100; i++ {
		err := l.Publish(context.Background(), LifecycleEvent(KindPluginLoaded, "plugin-A", true))
		require.ErrorIs(t, err, ErrClosed, "attempt %d", i)
	}
	assert.Zero(t, delivered)
	require.NoError(t, l.Close())
}

func TestLocal_CloseReleasesBlockedPublisher(t *testing.T) {
	l := NewLocal(WithQueueSize(1))
	ctx := context.Background()

	errs := make(chan error, 3)
	go func() {
		for i := 0; i < 3; i++ {
			errs <- l.Publish(ctx, MessageEvent(KindLog, "plugin-A", "info", "hello"))
		}
	}()
	// The first event fills the queue; the second blocks with no dispatcher.
	require.NoError(t, <-errs)

	closed := make(chan error, 1)
	go func() { closed <- l.Close() }()
	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return while a publisher was blocked on a full queue")
	}

	assert.ErrorIs(t, <-errs, ErrClosed)
	assert.ErrorIs(t, <-errs, ErrClosed)
}
