// Package notify tells a running viewer that the catalog was rebuilt, by
// emitting an event over a socket.io connection.
package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/specialistvlad/patternindex/internal/ctxlog"
)

// DefaultTimeout bounds how long Notify waits for the initial connection.
const DefaultTimeout = 5 * time.Second

// Config describes the socket.io endpoint.
type Config struct {
	URL                string
	Namespace          string
	Event              string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Payload is the body of the catalog update event.
type Payload struct {
	PatternCount int
	GeneratedBy  string
	Outputs      []string
}

func (p Payload) fields() map[string]any {
	outputs := p.Outputs
	if outputs == nil {
		outputs = []string{}
	}
	return map[string]any{
		"patternCount": p.PatternCount,
		"generatedBy":  p.GeneratedBy,
		"outputs":      outputs,
	}
}

// Notifier keeps one client connection open across notifications, so watch
// sessions do not reconnect on every rebuild.
type Notifier struct {
	cfg     Config
	baseURL string
	path    string

	mu     sync.Mutex
	client *socket.Socket
}

// New validates cfg and returns a Notifier. No connection is made until the
// first Notify.
func New(cfg Config) (*Notifier, error) {
	if cfg.URL == "" {
		return nil, errors.New("notify url must not be empty")
	}
	if cfg.Event == "" {
		return nil, errors.New("notify event must not be empty")
	}
	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("notify url %q must include a scheme and host", cfg.URL)
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "/"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Notifier{
		cfg:     cfg,
		baseURL: fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host),
		path:    parsedURL.Path,
	}, nil
}

// Notify emits the configured event with payload, connecting first if
// needed.
func (n *Notifier) Notify(ctx context.Context, payload Payload) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	logger := ctxlog.FromContext(ctx).With("url", n.cfg.URL, "event", n.cfg.Event)

	if n.client == nil || !n.client.Connected() {
		client, err := n.connect(ctx)
		if err != nil {
			return err
		}
		n.client = client
	}

	n.client.Emit(n.cfg.Event, payload.fields())
	logger.Debug("Catalog update emitted.", "sid", n.client.Id(), "patterns", payload.PatternCount)
	return nil
}

// Close drops the connection, if any.
func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.client != nil {
		n.client.Disconnect()
		n.client = nil
	}
	return nil
}

func (n *Notifier) connect(ctx context.Context) (*socket.Socket, error) {
	logger := ctxlog.FromContext(ctx).With("url", n.cfg.URL, "namespace", n.cfg.Namespace)

	opts := socket.DefaultOptions()
	if n.path != "" {
		opts.SetPath(n.path)
	}
	if n.cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(n.baseURL, opts)
	io := manager.Socket(n.cfg.Namespace, opts)

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})

	logger.Debug("Connecting to notify endpoint.")
	io.Connect()

	timer := time.NewTimer(n.cfg.Timeout)
	defer timer.Stop()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		logger.Info("Connected to notify endpoint.", "sid", io.Id())
		return io, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-timer.C:
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", n.cfg.Timeout)
	}
}
