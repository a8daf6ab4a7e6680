package evaluator

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/retro-framework/glob-playground/framework/matcher"
	"github.com/retro-framework/glob-playground/framework/options"
	test "github.com/retro-framework/glob-playground/framework/test_helper"
	"github.com/retro-framework/glob-playground/framework/types"
)

// staticMatcher matches candidates listed in hits, errors on those
// listed in fails and panics on those listed in panics. It records
// every candidate it was asked about.
type staticMatcher struct {
	hits, fails, panics map[string]bool
	asked               []string
}

func (sm *staticMatcher) DoesMatch(candidate, _ string, _ types.Flags) (bool, error) {
	sm.asked = append(sm.asked, candidate)
	if sm.panics[candidate] {
		panic("pathological pattern")
	}
	if sm.fails[candidate] {
		return false, errors.New("can't compile glob pattern")
	}
	return sm.hits[candidate], nil
}

func mustEngine(t *testing.T) *matcher.Engine {
	t.Helper()
	e, err := matcher.New("", nil)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func Test_Evaluate(t *testing.T) {

	var ctx = context.Background()

	t.Run("amaze.js matches *.js, wow does not", func(t *testing.T) {
		res := Evaluate(ctx, mustEngine(t), "*.js", options.Default(), test.CandidateFixture("amaze.js", "wow"))
		test.H(t).BoolsEql(res.Matches, []bool{true, false})
		test.H(t).IntEql(res.Count, 1)
	})

	t.Run("globstar with matchBase", func(t *testing.T) {
		o := options.FromFlags(types.Flags{MatchBase: true})
		res := Evaluate(ctx, mustEngine(t), "/**/*.js", o, test.CandidateFixture("/Users/doge/very/amaze.js"))
		test.H(t).BoolsEql(res.Matches, []bool{true})
	})

	t.Run("empty candidates never match and never reach the matcher", func(t *testing.T) {
		for _, pattern := range []string{"", "*", "**", "!*.js", "#x"} {
			sm := &staticMatcher{hits: map[string]bool{"": true}}
			res := Evaluate(ctx, sm, pattern, options.Default(), []types.Candidate{{ID: "0", Text: ""}})
			test.H(t).BoolsEql(res.Matches, []bool{false})
			test.H(t).IntEql(res.Count, 0)
			test.H(t).IntEql(len(sm.asked), 0)
		}
	})

	t.Run("matcher errors and panics are contained to their candidate", func(t *testing.T) {
		sm := &staticMatcher{
			hits:   map[string]bool{"a": true, "b": true, "d": true},
			fails:  map[string]bool{"b": true},
			panics: map[string]bool{"c": true},
		}
		res := Evaluate(ctx, sm, "*", options.Default(), test.CandidateFixture("a", "b", "c", "d"))
		test.H(t).BoolsEql(res.Matches, []bool{true, false, false, true})
		test.H(t).IntEql(res.Count, 2)
		test.H(t).InterfaceEql(sm.asked, []string{"a", "b", "c", "d"})
	})

	t.Run("no candidates", func(t *testing.T) {
		res := Evaluate(ctx, mustEngine(t), "*", options.Default(), nil)
		test.H(t).IntEql(len(res.Matches), 0)
		test.H(t).IntEql(res.Count, 0)
	})

	t.Run("count equals the number of matches", func(t *testing.T) {
		cs := test.CandidateFixture("a.js", "b.js", "c.go", "", "d/e.js", ".f.js")
		res := Evaluate(ctx, mustEngine(t), "*.js", options.Default(), cs)
		var n int
		for _, m := range res.Matches {
			if m {
				n++
			}
		}
		test.H(t).IntEql(res.Count, n)
		test.H(t).IntEql(len(res.Matches), len(cs))
	})

	t.Run("deterministic", func(t *testing.T) {
		var (
			e  = mustEngine(t)
			o  = options.FromFlags(types.Flags{Dot: true, NoCase: true})
			cs = test.CandidateFixture("A.JS", ".b.js", "c/d.js", "wow")
		)
		first := Evaluate(ctx, e, "*.js", o, cs)
		for i := 0; i < 10; i++ {
			test.H(t).InterfaceEql(Evaluate(ctx, e, "*.js", o, cs), first)
		}
	})
}
