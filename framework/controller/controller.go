package controller

import (
	"context"
	"time"

	opentracing "github.com/opentracing/opentracing-go"

	"github.com/retro-framework/glob-playground/framework"
	"github.com/retro-framework/glob-playground/framework/ctxkey"
	"github.com/retro-framework/glob-playground/framework/evaluator"
	"github.com/retro-framework/glob-playground/framework/marker"
	"github.com/retro-framework/glob-playground/framework/options"
	"github.com/retro-framework/glob-playground/framework/types"
)

// Trigger names the input that caused an update.
type Trigger string

const (
	TriggerPattern    Trigger = "pattern"
	TriggerOptions    Trigger = "options"
	TriggerCandidates Trigger = "candidates"
)

// Pass describes one completed evaluation, for observers.
type Pass struct {
	Session    types.SessionID
	Revision   uint64
	Trigger    Trigger
	Pattern    string
	Candidates int
	Matches    int
	At         time.Time
	Duration   time.Duration
}

// Observer is told about every evaluation pass. Observe is called
// synchronously and must not block.
type Observer interface {
	Observe(context.Context, Pass)
}

// Update is everything the presentation layer needs after one input
// event. Ops are to be applied to the presentation's own marker state,
// in order. Revision increases with every event, a consumer holding a
// newer revision discards older updates.
type Update struct {
	Revision    uint64            `json:"revision"`
	Pattern     string            `json:"pattern"`
	OptionsText string            `json:"optionsText"`
	Options     options.Options   `json:"options"`
	Valid       bool              `json:"valid"`
	Evaluated   bool              `json:"evaluated"`
	Result      types.MatchResult `json:"result"`
	Summary     string            `json:"summary"`
	Ops         []types.MarkerOp  `json:"ops"`
}

type clock struct{}

func (c clock) Now() time.Time { return time.Now().UTC() }

// Controller owns the state of one playground: pattern, options text
// and record, candidates, the last result and the marker set. It is not
// safe for concurrent use, callers deliver one event at a time.
type Controller struct {
	eval      evaluator.Evaluator
	logger    types.Logger
	clock     types.Clock
	observers []Observer

	pattern     string
	optionsText string
	options     options.Options
	valid       bool
	candidates  []types.Candidate
	result      types.MatchResult
	markers     *marker.Set
	revision    uint64
}

// New returns a controller with an empty pattern, no candidates and the
// default options.
func New(m evaluator.Matcher, l types.Logger, obs ...Observer) *Controller {
	if l == nil {
		l = framework.Noop{}
	}
	return &Controller{
		eval:        evaluator.New(m, l),
		logger:      l,
		clock:       clock{},
		observers:   obs,
		optionsText: options.DefaultText(),
		options:     options.Default(),
		valid:       true,
		result:      types.MatchResult{Matches: []bool{}},
		markers:     marker.NewSet(),
	}
}

// SetPattern stores p and re-evaluates.
func (c *Controller) SetPattern(ctx context.Context, p string) Update {
	spn, ctx := opentracing.StartSpanFromContext(ctx, "controller.SetPattern")
	spn.SetTag("pattern", p)
	defer spn.Finish()

	c.pattern = p
	return c.evaluate(ctx, TriggerPattern)
}

// SetOptionsText always stores text. Only when it parses does the
// record change and evaluation run, otherwise the previous result stays
// and the update reports the text invalid.
func (c *Controller) SetOptionsText(ctx context.Context, text string) Update {
	spn, ctx := opentracing.StartSpanFromContext(ctx, "controller.SetOptionsText")
	defer spn.Finish()

	c.optionsText = text
	c.options, c.valid = options.Parse(text, c.options)
	spn.SetTag("valid", c.valid)
	if !c.valid {
		c.revision++
		c.logger.Debugf("controller(%s): options text does not parse, keeping previous record", ctxkey.SessionID(ctx))
		return c.update(false, nil)
	}
	return c.evaluate(ctx, TriggerOptions)
}

// SetCandidates replaces the candidate list and re-evaluates.
func (c *Controller) SetCandidates(ctx context.Context, cs []types.Candidate) Update {
	spn, ctx := opentracing.StartSpanFromContext(ctx, "controller.SetCandidates")
	spn.SetTag("candidates", len(cs))
	defer spn.Finish()

	c.candidates = append([]types.Candidate(nil), cs...)
	return c.evaluate(ctx, TriggerCandidates)
}

// State reports the current state without edits and without side
// effects.
func (c *Controller) State() Update {
	return c.update(false, nil)
}

// Snapshot is State with one add edit per current marker, for a
// consumer that starts out with an empty marker set.
func (c *Controller) Snapshot() Update {
	u := c.update(false, nil)
	for _, id := range c.markers.IDs() {
		u.Ops = append(u.Ops, types.MarkerOp{ID: id, Op: types.OpAdd})
	}
	return u
}

// Candidates returns a copy of the current candidate list.
func (c *Controller) Candidates() []types.Candidate {
	return append([]types.Candidate(nil), c.candidates...)
}

// Markers returns the ids currently flagged as matched, sorted.
func (c *Controller) Markers() []string {
	return c.markers.IDs()
}

func (c *Controller) evaluate(ctx context.Context, trigger Trigger) Update {
	var start = c.clock.Now()

	c.result = c.eval.Evaluate(ctx, c.pattern, c.options, c.candidates)
	ops := marker.Reconcile(c.markers, c.result, types.CandidateIDs(c.candidates))
	c.markers.Apply(ops)
	c.revision++

	pass := Pass{
		Session:    ctxkey.SessionID(ctx),
		Revision:   c.revision,
		Trigger:    trigger,
		Pattern:    c.pattern,
		Candidates: len(c.candidates),
		Matches:    c.result.Count,
		At:         start,
		Duration:   c.clock.Now().Sub(start),
	}
	c.logger.Debugf("controller(%s): rev %d %s: %d/%d matched, %d edits", pass.Session, pass.Revision, trigger, pass.Matches, pass.Candidates, len(ops))
	for _, o := range c.observers {
		o.Observe(ctx, pass)
	}
	return c.update(true, ops)
}

func (c *Controller) update(evaluated bool, ops []types.MarkerOp) Update {
	if ops == nil {
		ops = []types.MarkerOp{}
	}
	return Update{
		Revision:    c.revision,
		Pattern:     c.pattern,
		OptionsText: c.optionsText,
		Options:     c.options,
		Valid:       c.valid,
		Evaluated:   evaluated,
		Result:      c.result,
		Summary:     c.result.Summary(),
		Ops:         ops,
	}
}
