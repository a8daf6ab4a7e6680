package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/retro-framework/glob-playground/framework/controller"
	"github.com/retro-framework/glob-playground/framework/matcher"
	"github.com/retro-framework/glob-playground/framework/session"
	"github.com/retro-framework/glob-playground/framework/types"
)

const sessionCookie = "playgroundSessionID"

// Demo content every new session starts out with.
var (
	seedPattern    = "/**/*.js"
	seedCandidates = []string{"/Users/doge/very/amaze.js", "usr/local/bin/wow"}
)

type server struct {
	engines    map[string]*matcher.Engine
	engine     string
	store      *session.Store
	sessionTTL time.Duration
	logger     types.Logger
}

func newServer(engine string, size int, ttl time.Duration, l types.Logger, obs ...controller.Observer) (*server, error) {
	if engine == "" {
		engine = matcher.DefaultEngine
	}
	engines := make(map[string]*matcher.Engine)
	for _, name := range matcher.Names() {
		e, err := matcher.New(name, l)
		if err != nil {
			return nil, err
		}
		engines[name] = e
	}
	if _, ok := engines[engine]; !ok {
		return nil, errors.Wrapf(matcher.ErrUnknownEngine, "%q", engine)
	}

	s := &server{
		engines:    engines,
		engine:     engine,
		sessionTTL: ttl,
		logger:     l,
	}
	s.store = session.NewStore(size, ttl, s.seed(obs))
	return s, nil
}

// seed returns the session factory, new controllers come up with the
// demo pattern and candidates already evaluated.
func (s *server) seed(obs []controller.Observer) session.Factory {
	return func(ctx context.Context) *controller.Controller {
		c := controller.New(s.engines[s.engine], s.logger, obs...)
		cs := make([]types.Candidate, len(seedCandidates))
		for i, text := range seedCandidates {
			cs[i] = types.Candidate{ID: text, Text: text}
		}
		c.SetCandidates(ctx, cs)
		c.SetPattern(ctx, seedPattern)
		return c
	}
}

func (s *server) routes() *mux.Router {
	rMux := mux.NewRouter()
	rMux.Use(tracingMiddleware)

	rMux.HandleFunc("/engines", s.enginesHandler).Methods("GET")
	rMux.HandleFunc("/options/default", s.defaultOptionsHandler).Methods("GET")
	rMux.HandleFunc("/match", s.matchHandler).Methods("POST")
	rMux.HandleFunc("/ws", s.wsHandler).Methods("GET")

	rMux.HandleFunc("/session", s.createSessionHandler).Methods("POST")
	var sMux = rMux.PathPrefix("/session").Subrouter()
	sMux.Use(sessionMiddleware{s.store}.Middleware)
	sMux.HandleFunc("", s.stateHandler).Methods("GET")
	sMux.HandleFunc("", s.removeSessionHandler).Methods("DELETE")
	sMux.HandleFunc("/pattern", s.patternHandler).Methods("PUT")
	sMux.HandleFunc("/options", s.optionsHandler).Methods("PUT")
	sMux.HandleFunc("/candidates", s.candidatesHandler).Methods("PUT")

	return rMux
}

// tracingMiddleware starts one span per request, named after the
// matched route.
func tracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var name = r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				name = tpl
			}
		}
		spn, ctx := opentracing.StartSpanFromContext(r.Context(), r.Method+" "+name)
		defer spn.Finish()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
