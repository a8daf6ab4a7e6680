// Package session keeps playground controllers in memory, keyed by a
// random session id. Sessions expire after a period of inactivity and
// the least recently used ones are dropped once the store is full.
// Nothing survives a restart.
package session

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"golang.org/x/xerrors"

	"github.com/retro-framework/glob-playground/framework/controller"
	"github.com/retro-framework/glob-playground/framework/ctxkey"
	"github.com/retro-framework/glob-playground/framework/types"
)

var ErrNoSession = xerrors.New("session: unknown session")

// Factory builds the controller for a fresh session.
type Factory func(ctx context.Context) *controller.Controller

// IDFunc generates session ids.
type IDFunc func() (string, error)

// RandomID is 12 random bytes, hex encoded.
func RandomID() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", b), nil
}

// Session serializes access to one controller.
type Session struct {
	ID types.SessionID

	mu sync.Mutex
	c  *controller.Controller
}

// Do runs fn with exclusive access to the controller. The context
// passed on carries the session id.
func (s *Session) Do(ctx context.Context, fn func(context.Context, *controller.Controller) controller.Update) controller.Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctxkey.WithSessionID(ctx, s.ID), s.c)
}

type Store struct {
	lru     *expirable.LRU[types.SessionID, *Session]
	factory Factory
	idFn    IDFunc
}

func NewStore(size int, ttl time.Duration, f Factory) *Store {
	return NewStoreWithIDs(size, ttl, f, RandomID)
}

func NewStoreWithIDs(size int, ttl time.Duration, f Factory, idFn IDFunc) *Store {
	if size <= 0 {
		size = 1
	}
	return &Store{
		lru:     expirable.NewLRU[types.SessionID, *Session](size, nil, ttl),
		factory: f,
		idFn:    idFn,
	}
}

// Create starts a session with a controller from the factory.
func (st *Store) Create(ctx context.Context) (*Session, error) {
	id, err := st.idFn()
	if err != nil {
		return nil, errors.Wrap(err, "id func returned an error when generating a session id")
	}
	sid := types.SessionID(id)
	s := &Session{ID: sid, c: st.factory(ctxkey.WithSessionID(ctx, sid))}
	st.lru.Add(sid, s)
	return s, nil
}

// Get looks up a live session, refreshing its position in the store.
func (st *Store) Get(sid types.SessionID) (*Session, error) {
	s, ok := st.lru.Get(sid)
	if !ok {
		return nil, errors.Wrapf(ErrNoSession, "%q", sid)
	}
	return s, nil
}

func (st *Store) Remove(sid types.SessionID) bool {
	return st.lru.Remove(sid)
}

func (st *Store) Len() int {
	return st.lru.Len()
}
