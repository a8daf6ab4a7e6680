package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	opentracing "github.com/opentracing/opentracing-go"

	"github.com/retro-framework/glob-playground/framework/ctxkey"
	"github.com/retro-framework/glob-playground/framework/evaluator"
	"github.com/retro-framework/glob-playground/framework/matcher"
	"github.com/retro-framework/glob-playground/framework/options"
	"github.com/retro-framework/glob-playground/framework/types"
)

type matchRequest struct {
	Pattern    string            `json:"pattern"`
	Options    *string           `json:"options"`
	Candidates []types.Candidate `json:"candidates"`
	Lines      string            `json:"lines"`
	Engine     string            `json:"engine"`
}

type matchResponse struct {
	Valid   bool   `json:"valid"`
	Matches []bool `json:"matches"`
	Count   int    `json:"count"`
	Summary string `json:"summary"`
}

func (s *server) enginesHandler(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, matcher.Names())
}

func (s *server) defaultOptionsHandler(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, options.DefaultText())
}

// matchHandler evaluates a pattern once, without a session. Options
// text that doesn't parse is reported invalid and the defaults are
// used instead.
func (s *server) matchHandler(w http.ResponseWriter, req *http.Request) {

	var mr matchRequest
	if err := json.NewDecoder(req.Body).Decode(&mr); err != nil {
		http.Error(w, fmt.Sprintf("error decoding request body: %s", err), http.StatusBadRequest)
		return
	}

	var name = mr.Engine
	if name == "" {
		name = s.engine
	}
	e, ok := s.engines[name]
	if !ok {
		http.Error(w, fmt.Sprintf("%s: %q", matcher.ErrUnknownEngine, name), http.StatusBadRequest)
		return
	}

	var (
		o     = options.Default()
		valid = true
		cs    = mr.Candidates
	)
	if mr.Options != nil {
		o, valid = options.Parse(*mr.Options, o)
	}
	if cs == nil {
		cs = types.CandidatesFromLines(mr.Lines)
	}

	var ctx = ctxkey.WithSessionID(req.Context(), ctxkey.AnonymousSession)
	if spn := opentracing.SpanFromContext(ctx); spn != nil {
		spn.SetTag("engine", name)
		spn.SetTag("valid", valid)
	}

	res := evaluator.New(e, s.logger).Evaluate(ctx, mr.Pattern, o, cs)
	writeJSON(w, http.StatusOK, matchResponse{
		Valid:   valid,
		Matches: res.Matches,
		Count:   res.Count,
		Summary: res.Summary(),
	})
}
