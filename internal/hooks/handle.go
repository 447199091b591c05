// ABOUTME: handle is the per-script invocation strategy behind the router.
// ABOUTME: oneOff spawns a process per call; daemon talks to one long-lived process.

package hooks

import (
	"context"
	"errors"

	"github.com/mauromedda/irepl/pkg/hookapi"
)

// ErrScriptDead is returned for calls to a daemon whose pipe broke earlier
// in the session.
var ErrScriptDead = errors.New("script is dead")

type handle interface {
	// call sends req and returns the decoded response; nil means no override.
	call(ctx context.Context, req hookapi.Request) (*string, error)
	close() error
}
