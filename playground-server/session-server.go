package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/retro-framework/glob-playground/framework/controller"
	"github.com/retro-framework/glob-playground/framework/ctxkey"
	"github.com/retro-framework/glob-playground/framework/session"
	"github.com/retro-framework/glob-playground/framework/types"
)

type contextKey string

var contextKeySession = contextKey("session")

func sessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(contextKeySession).(*session.Session)
	return s
}

// sessionMiddleware resolves the session cookie, requests without a
// live session get a 404.
type sessionMiddleware struct {
	store *session.Store
}

func (sm sessionMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := lookupSession(sm.store, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		var ctx = ctxkey.WithSessionID(r.Context(), sess.ID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, contextKeySession, sess)))
	})
}

func lookupSession(store *session.Store, r *http.Request) (*session.Session, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, errors.Wrap(session.ErrNoSession, "no session cookie")
	}
	return store.Get(types.SessionID(c.Value))
}

func (s *server) cookie(sid types.SessionID) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    string(sid),
		Path:     "/",
		Expires:  time.Now().Add(s.sessionTTL),
		HttpOnly: true,
	}
}

func snapshot(ctx context.Context, c *controller.Controller) controller.Update {
	return c.Snapshot()
}

func (s *server) createSessionHandler(w http.ResponseWriter, req *http.Request) {
	sess, err := s.store.Create(req.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Infof("server: started session %s (%d live)", sess.ID, s.store.Len())
	http.SetCookie(w, s.cookie(sess.ID))
	writeJSON(w, http.StatusCreated, sess.Do(req.Context(), snapshot))
}

func (s *server) stateHandler(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(req.Context()).Do(req.Context(), snapshot))
}

func (s *server) removeSessionHandler(w http.ResponseWriter, req *http.Request) {
	sess := sessionFrom(req.Context())
	s.store.Remove(sess.ID)
	c := s.cookie(sess.ID)
	c.Value, c.MaxAge = "", -1
	http.SetCookie(w, c)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) patternHandler(w http.ResponseWriter, req *http.Request) {
	body, err := ioutil.ReadAll(req.Body)
	if err != nil {
		http.Error(w, "error reading request body", http.StatusBadRequest)
		return
	}
	u := sessionFrom(req.Context()).Do(req.Context(), func(ctx context.Context, c *controller.Controller) controller.Update {
		return c.SetPattern(ctx, string(body))
	})
	writeJSON(w, http.StatusOK, u)
}

func (s *server) optionsHandler(w http.ResponseWriter, req *http.Request) {
	body, err := ioutil.ReadAll(req.Body)
	if err != nil {
		http.Error(w, "error reading request body", http.StatusBadRequest)
		return
	}
	u := sessionFrom(req.Context()).Do(req.Context(), func(ctx context.Context, c *controller.Controller) controller.Update {
		return c.SetOptionsText(ctx, string(body))
	})
	writeJSON(w, http.StatusOK, u)
}

func (s *server) candidatesHandler(w http.ResponseWriter, req *http.Request) {
	body, err := ioutil.ReadAll(req.Body)
	if err != nil {
		http.Error(w, "error reading request body", http.StatusBadRequest)
		return
	}
	cs := parseCandidates(body)
	u := sessionFrom(req.Context()).Do(req.Context(), func(ctx context.Context, c *controller.Controller) controller.Update {
		return c.SetCandidates(ctx, cs)
	})
	writeJSON(w, http.StatusOK, u)
}

// parseCandidates accepts a JSON list of {id, text} objects, a JSON
// list of strings (identified by index) or plain text with one
// candidate per line.
func parseCandidates(body []byte) []types.Candidate {
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		var cs []types.Candidate
		if err := json.Unmarshal(trimmed, &cs); err == nil {
			return cs
		}
		var texts []string
		if err := json.Unmarshal(trimmed, &texts); err == nil {
			cs = make([]types.Candidate, len(texts))
			for i, t := range texts {
				cs[i] = types.Candidate{ID: strconv.Itoa(i), Text: t}
			}
			return cs
		}
	}
	return types.CandidatesFromLines(string(body))
}
