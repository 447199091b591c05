// ABOUTME: Router holds the registered scripts and dispatches each hook to its subscribers.
// ABOUTME: Scripts run in registration order; failures degrade to "no override".

package hooks

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/mauromedda/irepl/internal/log"
	"github.com/mauromedda/irepl/pkg/hookapi"
)

// DefaultTimeout bounds a single OneOff invocation.
const DefaultTimeout = 10 * time.Second

type script struct {
	desc hookapi.Descriptor
	h    handle
}

// Router is owned by the main goroutine; it is not safe for concurrent use.
type Router struct {
	version *semver.Version
	timeout time.Duration
	scripts []script
	closed  bool
}

// NewRouter creates a router for a host at version. A non-positive timeout
// selects DefaultTimeout.
func NewRouter(version string, timeout time.Duration) (*Router, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("host version %q: %w", version, err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Router{version: v, timeout: timeout}, nil
}

// Version returns the host version scripts negotiate against.
func (r *Router) Version() *semver.Version {
	return r.version
}

// Register adds a script that will be run as argv. It returns false, and
// starts nothing, when the script's version requirement is not met.
// Daemons are spawned here.
func (r *Router) Register(desc hookapi.Descriptor, argv []string) (bool, error) {
	if len(argv) == 0 {
		return false, fmt.Errorf("script %s: empty command", desc.Name)
	}
	return r.add(desc, func() (handle, error) {
		switch desc.Type {
		case hookapi.Daemon:
			return startDaemon(argv)
		default:
			return &oneOff{argv: argv, timeout: r.timeout}, nil
		}
	})
}

func (r *Router) add(desc hookapi.Descriptor, open func() (handle, error)) (bool, error) {
	if err := desc.Validate(); err != nil {
		return false, err
	}
	if !Negotiate(desc.VersionRequirement, r.version) {
		log.Info("hooks: %s excluded, requires %q, host is %s", desc.Name, desc.VersionRequirement, r.version)
		return false, nil
	}
	h, err := open()
	if err != nil {
		return false, fmt.Errorf("script %s: %w", desc.Name, err)
	}
	r.scripts = append(r.scripts, script{desc: desc, h: h})
	log.Debug("hooks: registered %s (%s) for %v", desc.Name, desc.Type, desc.Hooks)
	return true, nil
}

// Scripts returns the descriptors of every registered script, in order.
func (r *Router) Scripts() []hookapi.Descriptor {
	out := make([]hookapi.Descriptor, len(r.scripts))
	for i, s := range r.scripts {
		out[i] = s.desc
	}
	return out
}

// each calls fn with every subscriber's response to the request built by
// mk. Failed calls are logged and skipped.
func (r *Router) each(ctx context.Context, h hookapi.Hook, mk func() hookapi.Request, fn func(*string)) {
	if r.closed {
		return
	}
	for _, s := range r.scripts {
		if !s.desc.Subscribes(h) {
			continue
		}
		resp, err := s.h.call(ctx, mk())
		if err != nil {
			log.Warn("hooks: %s %s: %v", s.desc.Name, h, err)
			continue
		}
		fn(resp)
	}
}

func (r *Router) lastNonEmpty(ctx context.Context, h hookapi.Hook, req hookapi.Request) (string, bool) {
	var (
		value string
		found bool
	)
	r.each(ctx, h, func() hookapi.Request { return req }, func(resp *string) {
		if resp != nil && *resp != "" {
			value, found = *resp, true
		}
	})
	return value, found
}

// SetTitle returns the title override, if any script provided one.
func (r *Router) SetTitle(ctx context.Context) (string, bool) {
	return r.lastNonEmpty(ctx, hookapi.SetTitle, hookapi.SetTitleRequest{})
}

// SetWelcomeMsg returns the welcome banner override, if any.
func (r *Router) SetWelcomeMsg(ctx context.Context) (string, bool) {
	return r.lastNonEmpty(ctx, hookapi.SetWelcomeMsg, hookapi.SetWelcomeMsgRequest{})
}

// OutputEvent passes output through every subscriber. Each one sees the
// output as left by the previous; the last override wins.
func (r *Router) OutputEvent(ctx context.Context, input, output string) string {
	current := output
	r.each(ctx, hookapi.OutputEvent,
		func() hookapi.Request { return hookapi.OutputEventRequest{Input: input, Output: current} },
		func(resp *string) {
			if resp != nil {
				current = *resp
			}
		})
	return current
}

// Startup notifies subscribers that the session is starting.
func (r *Router) Startup(ctx context.Context) {
	r.each(ctx, hookapi.Startup, func() hookapi.Request { return hookapi.StartupRequest{} }, func(*string) {})
}

// Shutdown notifies subscribers and then releases every script. Calling it
// again does nothing.
func (r *Router) Shutdown(ctx context.Context) {
	if r.closed {
		return
	}
	r.each(ctx, hookapi.Shutdown, func() hookapi.Request { return hookapi.ShutdownRequest{} }, func(*string) {})
	r.closed = true
	for _, s := range r.scripts {
		if err := s.h.close(); err != nil {
			log.Debug("hooks: %s exited: %v", s.desc.Name, err)
		}
	}
}
