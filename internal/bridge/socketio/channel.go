// Package socketio implements bridge.Channel on top of a socket.io
// connection to a remote plugin runtime.
package socketio

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/specialistvlad/pluginui/internal/bridge"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// InvokeEventName is the socket.io event used for outbound UI events.
const InvokeEventName = "invokeUiEvent"

// DefaultTimeout bounds the initial connection when Config.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// Config describes how to reach the plugin runtime.
type Config struct {
	URL                string
	Namespace          string
	Timeout            time.Duration
	InsecureSkipVerify bool
	QueueSize          int
}

// Channel forwards socket.io events into a bridge.Local dispatcher, so
// subscribers get the same ordering guarantees as with an in-process runtime.
type Channel struct {
	*bridge.Local

	logger *slog.Logger
	io     *socket.Socket
}

var _ bridge.Channel = (*Channel)(nil)

// Dial connects to the runtime and blocks until the connection is established,
// fails, or the timeout elapses. The caller must still call Run to start
// dispatching events.
func Dial(ctx context.Context, cfg Config, logger *slog.Logger) (*Channel, error) {
	logger = logger.With("bridge", "socketio", "url", cfg.URL)

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bridge URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("bridge URL '%s' must be absolute", cfg.URL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Channel{logger: logger}
	c.Local = bridge.NewLocal(
		bridge.WithLogger(logger),
		bridge.WithQueueSize(cfg.QueueSize),
		bridge.WithInvokeFunc(c.emitUIEvent),
	)

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	c.io = manager.Socket(cfg.Namespace, opts)

	for _, kind := range bridge.Kinds {
		c.io.On(types.EventName(kind), c.forward(kind))
	}

	connectChan := make(chan error, 1)
	c.io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to plugin runtime", "sid", c.io.Id())
		connectChan <- nil
	})
	c.io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	logger.Debug("Initiating connection to plugin runtime...")
	c.io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			c.io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return c, nil
	case <-ctx.Done():
		c.io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		c.io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

// forward returns the raw socket.io listener for one event kind.
func (c *Channel) forward(kind bridge.Kind) func(...any) {
	return func(args ...any) {
		ev, err := decodeEvent(kind, args)
		if err != nil {
			c.logger.Warn("Failed to decode bridge event", "kind", kind, "error", err)
			return
		}
		if err := c.Publish(context.Background(), ev); err != nil {
			c.logger.Warn("Failed to queue bridge event", "kind", kind, "error", err)
		}
	}
}

func (c *Channel) emitUIEvent(_ context.Context, ev bridge.UIEvent) error {
	c.logger.Debug("Emitting ui event", "plugin", ev.PluginID, "event", ev.EventID)
	c.io.Emit(InvokeEventName, encodeUIEvent(ev))
	return nil
}

// Close disconnects from the runtime and drains the local dispatcher.
func (c *Channel) Close() error {
	c.logger.Debug("Disconnecting from plugin runtime")
	c.io.Disconnect()
	return c.Local.Close()
}
