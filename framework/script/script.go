// Package script replays a recorded playground session: a YAML list of
// input events, each optionally followed by expectations about the
// resulting update.
//
//	engine: minimatch
//	steps:
//	  - candidates: ["amaze.js", "wow"]
//	  - pattern: "*.js"
//	    expect: {count: 1, matches: [true, false]}
//	  - options: '{invalid json'
//	    expect: {valid: false}
package script

import (
	"context"
	"io"
	"io/ioutil"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/xerrors"
	yaml "gopkg.in/yaml.v2"

	"github.com/retro-framework/glob-playground/framework/controller"
	"github.com/retro-framework/glob-playground/framework/types"
)

var (
	ErrEmptyScript = xerrors.New("script: no steps")
	ErrInvalidStep = xerrors.New("script: step must set exactly one of pattern, options, candidates, lines")
	ErrExpectation = xerrors.New("script: expectation failed")
)

type Script struct {
	Engine string `yaml:"engine"`
	Steps  []Step `yaml:"steps"`
}

type Step struct {
	Pattern    *string  `yaml:"pattern"`
	Options    *string  `yaml:"options"`
	Candidates []string `yaml:"candidates"`
	Lines      *string  `yaml:"lines"`
	Expect     *Expect  `yaml:"expect"`
}

type Expect struct {
	Count   *int   `yaml:"count"`
	Valid   *bool  `yaml:"valid"`
	Matches []bool `yaml:"matches"`
}

func (s Step) inputs() int {
	var n int
	for _, set := range []bool{s.Pattern != nil, s.Options != nil, s.Candidates != nil, s.Lines != nil} {
		if set {
			n++
		}
	}
	return n
}

// Load reads and validates a script.
func Load(r io.Reader) (Script, error) {
	var s Script
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return s, errors.Wrap(err, "can't read script")
	}
	if err := yaml.UnmarshalStrict(b, &s); err != nil {
		return s, errors.Wrap(err, "can't parse script")
	}
	if len(s.Steps) == 0 {
		return s, ErrEmptyScript
	}
	for i, st := range s.Steps {
		if st.inputs() != 1 {
			return s, errors.Wrapf(ErrInvalidStep, "step %d", i)
		}
	}
	return s, nil
}

// Run delivers every step to c in order, calling fn with each update.
// It stops at the first unmet expectation.
func Run(ctx context.Context, c *controller.Controller, s Script, fn func(int, Step, controller.Update)) error {
	for i, st := range s.Steps {
		var u controller.Update
		switch {
		case st.Pattern != nil:
			u = c.SetPattern(ctx, *st.Pattern)
		case st.Options != nil:
			u = c.SetOptionsText(ctx, *st.Options)
		case st.Candidates != nil:
			u = c.SetCandidates(ctx, fromTexts(st.Candidates))
		case st.Lines != nil:
			u = c.SetCandidates(ctx, types.CandidatesFromLines(*st.Lines))
		default:
			return errors.Wrapf(ErrInvalidStep, "step %d", i)
		}
		if fn != nil {
			fn(i, st, u)
		}
		if err := check(st.Expect, u); err != nil {
			return errors.Wrapf(err, "step %d", i)
		}
	}
	return nil
}

func fromTexts(texts []string) []types.Candidate {
	cs := make([]types.Candidate, len(texts))
	for i, t := range texts {
		cs[i] = types.Candidate{ID: strconv.Itoa(i), Text: t}
	}
	return cs
}

func check(e *Expect, u controller.Update) error {
	if e == nil {
		return nil
	}
	if e.Valid != nil && *e.Valid != u.Valid {
		return errors.Wrapf(ErrExpectation, "valid: got %t want %t", u.Valid, *e.Valid)
	}
	if e.Count != nil && *e.Count != u.Result.Count {
		return errors.Wrapf(ErrExpectation, "count: got %d want %d", u.Result.Count, *e.Count)
	}
	if e.Matches != nil {
		if len(e.Matches) != len(u.Result.Matches) {
			return errors.Wrapf(ErrExpectation, "matches: got %v want %v", u.Result.Matches, e.Matches)
		}
		for i := range e.Matches {
			if e.Matches[i] != u.Result.Matches[i] {
				return errors.Wrapf(ErrExpectation, "matches: got %v want %v", u.Result.Matches, e.Matches)
			}
		}
	}
	return nil
}
