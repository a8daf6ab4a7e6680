// Package evaluator runs one evaluation pass: every candidate against
// the pattern under the current options. A pass never fails; matcher
// errors and panics turn into non-matches for the candidate concerned.
package evaluator

import (
	"context"
	"fmt"

	opentracing "github.com/opentracing/opentracing-go"

	"github.com/retro-framework/glob-playground/framework"
	"github.com/retro-framework/glob-playground/framework/options"
	"github.com/retro-framework/glob-playground/framework/types"
)

// Matcher defines a single function interface for matching a
// candidate against a glob pattern. *matcher.Engine implements it, in
// testing it may be replaced with a static or misbehaving matcher.
type Matcher interface {
	DoesMatch(candidate, pattern string, flags types.Flags) (bool, error)
}

// Evaluator pairs a Matcher with a logger for the failures it absorbs.
type Evaluator struct {
	m      Matcher
	logger types.Logger
}

func New(m Matcher, l types.Logger) Evaluator {
	if l == nil {
		l = framework.Noop{}
	}
	return Evaluator{m, l}
}

// Evaluate tests each candidate independently and in order. Empty
// candidates never reach the matcher.
func (e Evaluator) Evaluate(ctx context.Context, pattern string, o options.Options, cs []types.Candidate) types.MatchResult {

	spnEval, _ := opentracing.StartSpanFromContext(ctx, "evaluator.Evaluate")
	spnEval.SetTag("pattern", pattern)
	spnEval.SetTag("candidates", len(cs))
	defer spnEval.Finish()

	var (
		flags = o.Flags()
		res   = types.MatchResult{Matches: make([]bool, len(cs))}
	)
	for i, c := range cs {
		if c.Text == "" {
			continue
		}
		ok, err := e.safeMatch(c.Text, pattern, flags)
		if err != nil {
			e.logger.Debugf("evaluator: candidate %q treated as no match: %s", c.ID, err)
			spnEval.LogKV("event", "error", "candidate", c.ID, "error.object", err)
			continue
		}
		if ok {
			res.Matches[i] = true
			res.Count++
		}
	}
	spnEval.SetTag("matches", res.Count)
	return res
}

func (e Evaluator) safeMatch(candidate, pattern string, flags types.Flags) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("matcher panicked: %v", r)
		}
	}()
	return e.m.DoesMatch(candidate, pattern, flags)
}

// Evaluate is a convenience for one-off passes without a logger.
func Evaluate(ctx context.Context, m Matcher, pattern string, o options.Options, cs []types.Candidate) types.MatchResult {
	return New(m, nil).Evaluate(ctx, pattern, o, cs)
}
