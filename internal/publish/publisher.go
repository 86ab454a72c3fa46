// Package publish sends a rendered launch document to a socket.io endpoint,
// typically a fleet dashboard or a remote launch supervisor that starts the
// session on the robot.
package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/specialistvlad/bringup/internal/ctxlog"
	"github.com/specialistvlad/bringup/internal/render"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the event name used when Options.Event is empty.
const DefaultEvent = "launch_description"

// DefaultTimeout bounds connecting and, when requested, waiting for an ack.
const DefaultTimeout = 10 * time.Second

// Options configures a Publisher.
type Options struct {
	URL                string
	Namespace          string
	Event              string
	// AckEvent, when set, is the event the receiver emits once it accepted
	// the document. Publish waits for it.
	AckEvent           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Publisher emits launch documents over socket.io.
type Publisher struct {
	opts    Options
	baseURL string
	path    string
}

// New validates opts and returns a Publisher.
func New(opts Options) (*Publisher, error) {
	if opts.URL == "" {
		return nil, errors.New("publish url is required")
	}
	parsed, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	switch parsed.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported publish url scheme '%s'", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("publish url '%s' has no host", opts.URL)
	}
	if opts.Event == "" {
		opts.Event = DefaultEvent
	}
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Publisher{
		opts:    opts,
		baseURL: fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host),
		path:    parsed.Path,
	}, nil
}

// Options returns the effective options after defaults were applied.
func (p *Publisher) Options() Options {
	return p.opts
}

// Publish connects, emits doc and disconnects. It returns once the document
// was emitted, or acknowledged when AckEvent is set.
func (p *Publisher) Publish(ctx context.Context, doc *render.Document) error {
	logger := ctxlog.Component(ctx, "publish").With("url", p.opts.URL, "namespace", p.opts.Namespace, "event", p.opts.Event)
	logger.Debug("Publisher started.")
	defer logger.Debug("Publisher finished.")

	opCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	opts := socket.DefaultOptions()
	if p.path != "" {
		opts.SetPath(p.path)
	}
	if p.opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(p.baseURL, opts)
	io := manager.Socket(p.opts.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	done := make(chan error, 1)
	var once sync.Once
	finish := func(err error) {
		once.Do(func() { done <- err })
	}

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected, emitting launch description.", "sid", io.Id(), "entities", len(doc.Launch))
		io.Emit(p.opts.Event, doc)
		if p.opts.AckEvent == "" {
			finish(nil)
		}
	})

	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection refused")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		finish(fmt.Errorf("socket.io connection failed: %w", err))
	})

	if p.opts.AckEvent != "" {
		io.Once(types.EventName(p.opts.AckEvent), func(...any) {
			logger.Info("Launch description acknowledged.")
			finish(nil)
		})
	}

	io.Connect()

	select {
	case err := <-done:
		return err
	case <-opCtx.Done():
		if ctx.Err() != nil {
			return fmt.Errorf("publish cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("timed out after %s publishing launch description", p.opts.Timeout)
	}
}
