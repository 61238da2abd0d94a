package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/pluginui/internal/bridge"
	"github.com/specialistvlad/pluginui/internal/bridge/socketio"
	"github.com/specialistvlad/pluginui/internal/config"
	"github.com/specialistvlad/pluginui/internal/ctxlog"
	"github.com/specialistvlad/pluginui/internal/inspect"
	"github.com/specialistvlad/pluginui/internal/metrics"
	"github.com/specialistvlad/pluginui/internal/registry"
	"github.com/specialistvlad/pluginui/internal/uiid"
)

var errAlreadyStarted = errors.New("app already started")

// App encapsulates one host context: its dependencies, configuration and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	model    *config.Model
	registry *registry.Registry
	metrics  *metrics.Collector
	promReg  *prometheus.Registry

	channel  bridge.Channel
	detach   []func()
	server   *inspect.Server
	runDone  chan error
	cancel   context.CancelFunc
	started  bool
	closeErr error
	mu       sync.Mutex
	once     sync.Once
}

// Option customises an App.
type Option func(*App)

// WithChannel injects the bridge channel instead of building one from the
// configured transport. The App takes ownership and closes it.
func WithChannel(ch bridge.Channel) Option {
	return func(a *App) { a.channel = ch }
}

// NewApp is the constructor for the host. It returns a fully initialised App
// with its own logger and registry. Configuration errors are programmer or
// operator errors and cause a panic, which the entrypoint recovers.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) *App {
	bootLogger := newLogger("info", "json", outW)
	ctx := ctxlog.WithLogger(context.Background(), bootLogger)

	model, err := loader.Load(ctx, config.Default(), appConfig.ConfigPaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	appConfig.Overrides.apply(model)
	if err := model.Validate(); err != nil {
		panic(fmt.Errorf("invalid configuration: %w", err))
	}

	logger := newLogger(model.Log.Level, model.Log.Format, outW)
	logger.Debug("Logger configured successfully.")

	promReg := prometheus.NewRegistry()
	col, err := metrics.New(promReg)
	if err != nil {
		panic(err)
	}

	a := &App{
		outW:    outW,
		logger:  logger,
		model:   model,
		metrics: col,
		promReg: promReg,
		registry: registry.New(
			registry.WithLogger(logger),
			registry.WithStrictOwnership(model.Registry.StrictOwnership),
			registry.WithObserver(col),
		),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.channel == nil && model.Bridge.Transport == config.TransportLocal {
		a.channel = bridge.NewLocal(
			bridge.WithLogger(logger),
			bridge.WithQueueSize(model.Bridge.QueueSize),
		)
	}

	logger.Debug("Host context created.", "transport", model.Bridge.Transport, "strict_ownership", model.Registry.StrictOwnership)
	return a
}

// Start connects the bridge, attaches the registry and begins dispatching
// events. It returns once everything is running.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return errAlreadyStarted
	}
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if a.channel == nil {
		ch, err := socketio.Dial(ctx, socketio.Config{
			URL:                a.model.Bridge.URL,
			Namespace:          a.model.Bridge.Namespace,
			Timeout:            a.model.Bridge.Timeout,
			InsecureSkipVerify: a.model.Bridge.InsecureSkipVerify,
			QueueSize:          a.model.Bridge.QueueSize,
		}, a.logger)
		if err != nil {
			return fmt.Errorf("failed to connect bridge: %w", err)
		}
		a.channel = ch
	}

	attachment := a.registry.Attach(a.channel)
	a.detach = append(a.detach,
		attachment.Detach,
		a.metrics.CountEvents(a.channel),
		attachLifecycleLogger(a.channel, a.logger),
	)

	if port := a.model.HTTP.Port; port > 0 {
		srv, err := inspect.Start(fmt.Sprintf(":%d", port), inspect.NewHandler(a.registry, a.promReg, a.logger), a.logger)
		if err != nil {
			a.detachAll()
			return fmt.Errorf("failed to start inspection server: %w", err)
		}
		a.server = srv
	}

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.runDone = make(chan error, 1)
	go func() { a.runDone <- a.channel.Run(runCtx) }()

	a.started = true
	a.logger.Info("🚀 Plugin host started.", "transport", a.model.Bridge.Transport)
	return nil
}

// Run starts the App and blocks until ctx is cancelled, then closes it. A
// failed start releases whatever was set up before the failure.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		if !errors.Is(err, errAlreadyStarted) {
			if closeErr := a.Close(); closeErr != nil {
				a.logger.Warn("Cleanup after failed start did not complete.", "error", closeErr)
			}
		}
		return err
	}
	<-ctx.Done()
	a.logger.Info("Shutdown requested.", "reason", ctx.Err())
	return a.Close()
}

// Close releases every subscription, drains and closes the bridge channel
// and stops the inspection server. It is safe to call more than once.
func (a *App) Close() error {
	a.once.Do(func() {
		a.mu.Lock()
		defer a.mu.Unlock()

		a.detachAll()
		if a.channel != nil {
			if err := a.channel.Close(); err != nil {
				a.closeErr = fmt.Errorf("failed to close bridge: %w", err)
			}
		}
		if a.cancel != nil {
			a.cancel()
			<-a.runDone
		}
		if a.server != nil {
			if err := a.server.Shutdown(context.Background()); err != nil && a.closeErr == nil {
				a.closeErr = err
			}
		}
		a.logger.Info("🏁 Plugin host stopped.")
	})
	return a.closeErr
}

func (a *App) detachAll() {
	for i := len(a.detach) - 1; i >= 0; i-- {
		a.detach[i]()
	}
	a.detach = nil
}

// InvokeUIEvent forwards an application UI event to the plugin runtime.
func (a *App) InvokeUIEvent(ctx context.Context, p uiid.PluginID, eventID string, data any) error {
	if a.channel == nil {
		return fmt.Errorf("invoke ui event: %w", bridge.ErrNoInvoker)
	}
	return a.channel.InvokeUIEvent(ctx, bridge.UIEvent{PluginID: p, EventID: eventID, Data: data})
}

// Registry returns the host context's registry, the query surface for the
// rendering collaborator.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Channel returns the bridge channel, nil until Start for remote transports.
func (a *App) Channel() bridge.Channel {
	return a.channel
}

// Model returns the effective configuration.
func (a *App) Model() *config.Model {
	return a.model
}

// InspectAddr returns the inspection server address, or "" when disabled.
func (a *App) InspectAddr() string {
	if a.server == nil {
		return ""
	}
	return a.server.Addr()
}
