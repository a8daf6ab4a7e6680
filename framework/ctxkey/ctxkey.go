package ctxkey

import (
	"context"

	"github.com/retro-framework/glob-playground/framework/types"
)

type contextKey string

func (c contextKey) String() string {
	return "playground " + string(c)
}

var (
	contextKeySessionID = contextKey("session id")
)

// AnonymousSession is reported for contexts that carry no session,
// e.g. the stateless match endpoint or the CLI.
const AnonymousSession types.SessionID = "anonymous"

// WithSessionID returns a copy of ctx carrying sid.
func WithSessionID(ctx context.Context, sid types.SessionID) context.Context {
	return context.WithValue(ctx, contextKeySessionID, sid)
}

// SessionID gets the session id from the context. If none is present
// then AnonymousSession is returned.
func SessionID(ctx context.Context) types.SessionID {
	sid, ok := ctx.Value(contextKeySessionID).(types.SessionID)
	if sid == "" || !ok {
		return AnonymousSession
	}
	return sid
}
