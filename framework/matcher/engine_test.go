package matcher

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"

	"github.com/retro-framework/glob-playground/framework"
	test "github.com/retro-framework/glob-playground/framework/test_helper"
	"github.com/retro-framework/glob-playground/framework/types"
)

type recordingLogger struct {
	framework.Noop
	debug []string
}

func (rl *recordingLogger) Debugf(pattern string, args ...interface{}) {
	rl.debug = append(rl.debug, fmt.Sprintf(pattern, args...))
}

func mustEngine(t *testing.T, name string) *Engine {
	t.Helper()
	e, err := New(name, nil)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

type matchCase struct {
	pattern, candidate string
	flags              types.Flags
	want               bool
}

func runCases(t *testing.T, e *Engine, cases []matchCase) {
	t.Helper()
	for _, tc := range cases {
		got, err := e.DoesMatch(tc.candidate, tc.pattern, tc.flags)
		if err != nil {
			t.Errorf("DoesMatch(%q, %q, %+v) unexpected error: %s", tc.candidate, tc.pattern, tc.flags, err)
			continue
		}
		if got != tc.want {
			t.Errorf("DoesMatch(%q, %q, %+v) = %t, want %t", tc.candidate, tc.pattern, tc.flags, got, tc.want)
		}
	}
}

func Test_New(t *testing.T) {
	t.Run("empty name is the default engine", func(t *testing.T) {
		test.H(t).StringEql(mustEngine(t, "").Name(), DefaultEngine)
	})
	t.Run("unknown engines are rejected", func(t *testing.T) {
		_, err := New("regexp", nil)
		test.H(t).NotNil(err)
		test.H(t).BoolEql(errors.Cause(err) == ErrUnknownEngine, true)
	})
	t.Run("names are sorted", func(t *testing.T) {
		test.H(t).InterfaceEql(Names(), []string{"doublestar", "minimatch", "simple"})
	})
}

func Test_Engine_Minimatch(t *testing.T) {
	var e = mustEngine(t, "minimatch")

	t.Run("plain globbing", func(t *testing.T) {
		runCases(t, e, []matchCase{
			{pattern: "*.js", candidate: "amaze.js", want: true},
			{pattern: "*.js", candidate: "wow", want: false},
			{pattern: "*.js", candidate: "very/amaze.js", want: false},
			{pattern: "/**/*.js", candidate: "/Users/doge/very/amaze.js", want: true},
			{pattern: "/**/*.js", candidate: "/Users/doge/very/amaze.js", flags: types.Flags{MatchBase: true}, want: true},
			{pattern: "/**/*.js", candidate: "usr/local/bin/wow", want: false},
			{pattern: "a?c", candidate: "abc", want: true},
			{pattern: "[a-c]x", candidate: "bx", want: true},
		})
	})

	t.Run("empty pattern only matches empty candidate", func(t *testing.T) {
		runCases(t, e, []matchCase{
			{pattern: "", candidate: "x", want: false},
			{pattern: "", candidate: "", want: true},
		})
	})

	t.Run("comments", func(t *testing.T) {
		runCases(t, e, []matchCase{
			{pattern: "#*.js", candidate: "#a.js", want: false},
			{pattern: "#*.js", candidate: "#a.js", flags: types.Flags{NoComment: true}, want: true},
		})
		test.H(t).BoolEql(e.Explain("#a.js", "#*.js", types.Flags{}).Reason() == ReasonComment, true)
	})

	t.Run("negation", func(t *testing.T) {
		runCases(t, e, []matchCase{
			{pattern: "!*.js", candidate: "wow", want: true},
			{pattern: "!*.js", candidate: "a.js", want: false},
			{pattern: "!!*.js", candidate: "a.js", want: true},
			{pattern: "!*.js", candidate: "a.js", flags: types.Flags{FlipNegate: true}, want: true},
			{pattern: "!*.js", candidate: "wow", flags: types.Flags{FlipNegate: true}, want: false},
			{pattern: "!*.js", candidate: "!a.js", flags: types.Flags{NoNegate: true}, want: true},
			{pattern: "!*.js", candidate: "wow", flags: types.Flags{NoNegate: true}, want: false},
		})
		test.H(t).BoolEql(e.Explain("wow", "!*.js", types.Flags{}).Reason() == ReasonNegated, true)
	})

	t.Run("nocase", func(t *testing.T) {
		runCases(t, e, []matchCase{
			{pattern: "*.JS", candidate: "A.js", want: false},
			{pattern: "*.JS", candidate: "A.js", flags: types.Flags{NoCase: true}, want: true},
		})
	})

	t.Run("matchBase", func(t *testing.T) {
		runCases(t, e, []matchCase{
			{pattern: "*.js", candidate: "a/b/c.js", want: false},
			{pattern: "*.js", candidate: "a/b/c.js", flags: types.Flags{MatchBase: true}, want: true},
			{pattern: "b/*.js", candidate: "a/b/c.js", flags: types.Flags{MatchBase: true}, want: false},
		})
	})

	t.Run("dot", func(t *testing.T) {
		runCases(t, e, []matchCase{
			{pattern: "*", candidate: ".hidden", want: false},
			{pattern: "*", candidate: ".hidden", flags: types.Flags{Dot: true}, want: true},
			{pattern: ".*", candidate: ".hidden", want: true},
			{pattern: "a/*", candidate: "a/.b", want: false},
			{pattern: "a/.*", candidate: "a/.b", want: true},
			{pattern: "**/*.js", candidate: "a/.git/x.js", want: false},
			{pattern: "**/*.js", candidate: "a/.git/x.js", flags: types.Flags{Dot: true}, want: true},
			{pattern: "!*", candidate: ".hidden", want: true},
			{pattern: "{.a,b}", candidate: ".a", want: true},
			{pattern: "{.a,b}", candidate: "b", want: true},
			{pattern: "x/{.a,b}/*", candidate: "x/.a/y", want: true},
			{pattern: "{a,b}", candidate: ".a", want: false},
		})
		test.H(t).BoolEql(e.Explain(".hidden", "*", types.Flags{}).Reason() == ReasonHidden, true)
	})

	t.Run("braces", func(t *testing.T) {
		runCases(t, e, []matchCase{
			{pattern: "{a,b}.js", candidate: "a.js", want: true},
			{pattern: "{a,b}.js", candidate: "a.js", flags: types.Flags{NoBrace: true}, want: false},
			{pattern: "{a,b}.js", candidate: "{a,b}.js", flags: types.Flags{NoBrace: true}, want: true},
		})
	})

	t.Run("globstar", func(t *testing.T) {
		runCases(t, e, []matchCase{
			{pattern: "a/**/c.js", candidate: "a/b/x/c.js", want: true},
			{pattern: "a/**/c.js", candidate: "a/b/x/c.js", flags: types.Flags{NoGlobstar: true}, want: false},
			{pattern: "a/**/c.js", candidate: "a/b/c.js", flags: types.Flags{NoGlobstar: true}, want: true},
			{pattern: "a/**/c.js", candidate: "a/c.js", want: true},
			{pattern: "**/*.js", candidate: "amaze.js", want: true},
			{pattern: "**/*.js", candidate: "very/amaze.js", want: true},
			{pattern: "/**/*.js", candidate: "/amaze.js", want: true},
			{pattern: "/**/*.js", candidate: "amaze.js", want: false},
			{pattern: "**.js", candidate: "b.js", want: true},
			{pattern: "**.js", candidate: "a/b.js", want: false},
			{pattern: "a/**/**/c.js", candidate: "a/c.js", want: true},
			{pattern: "**", candidate: "a/b/c", want: true},
		})
	})

	t.Run("extglob", func(t *testing.T) {
		runCases(t, e, []matchCase{
			{pattern: "@(a|b).js", candidate: "b.js", want: true},
			{pattern: "@(a|b).js", candidate: "c.js", want: false},
			{pattern: "@(a|b).js", candidate: "b.js", flags: types.Flags{NoExt: true}, want: false},
		})
	})

	t.Run("debug logs the compiled pattern", func(t *testing.T) {
		var (
			rl     = &recordingLogger{}
			de, _  = New("minimatch", rl)
			_, err = de.DoesMatch("A.js", "*.JS", types.Flags{Debug: true, NoCase: true})
		)
		test.H(t).IsNil(err)
		test.H(t).IntEql(len(rl.debug), 1)
		test.H(t).StringEql(rl.debug[0], `matcher(minimatch): "*.JS" as "*.js" against "a.js": true`)
	})
}

func Test_Engine_Doublestar(t *testing.T) {
	var e = mustEngine(t, "doublestar")

	runCases(t, e, []matchCase{
		{pattern: "*.js", candidate: "amaze.js", want: true},
		{pattern: "*.js", candidate: "a/amaze.js", want: false},
		{pattern: "**/*.js", candidate: "a/b/c.js", want: true},
		{pattern: "!*.js", candidate: "wow", want: true},
	})

	t.Run("bad patterns are errors", func(t *testing.T) {
		ok, err := e.DoesMatch("a", "a[", types.Flags{})
		test.H(t).BoolEql(ok, false)
		test.H(t).NotNil(err)
		test.H(t).BoolEql(e.Explain("a", "a[", types.Flags{}).Reason() == ReasonError, true)
	})
}

func Test_Engine_Simple(t *testing.T) {
	var e = mustEngine(t, "simple")
	runCases(t, e, []matchCase{
		{pattern: "*.js", candidate: "amaze.js", want: true},
		{pattern: "*.js", candidate: "wow", want: false},
		{pattern: "*.JS", candidate: "amaze.js", flags: types.Flags{NoCase: true}, want: true},
	})
}

func Test_Engine_Filter(t *testing.T) {
	var (
		e     = mustEngine(t, "")
		paths = []string{"amaze.js", "wow", "such.js"}
	)
	t.Run("keeps matches in order", func(t *testing.T) {
		test.H(t).InterfaceEql(e.Filter(paths, "*.js", types.Flags{}), []string{"amaze.js", "such.js"})
	})
	t.Run("no matches is empty", func(t *testing.T) {
		test.H(t).IntEql(len(e.Filter(paths, "*.go", types.Flags{})), 0)
	})
	t.Run("nonull returns the pattern when nothing matches", func(t *testing.T) {
		test.H(t).InterfaceEql(e.Filter(paths, "*.go", types.Flags{NonNull: true}), []string{"*.go"})
	})
}

func Test_rewriteExtglob(t *testing.T) {
	test.H(t).StringEql(rewriteExtglob("@(a|b).js"), "{a,b}.js")
	test.H(t).StringEql(rewriteExtglob(`\@(a|b)`), `\@(a|b)`)
	test.H(t).StringEql(rewriteExtglob("x@(a"), "x@(a")
	test.H(t).StringEql(rewriteExtglob("+(a|b)"), "+(a|b)")
}

func Test_globstarVariants(t *testing.T) {
	var cases = []struct {
		pattern string
		want    []string
	}{
		{"*.js", []string{"*.js"}},
		{"**", []string{"**"}},
		{"**.js", []string{"*.js"}},
		{"a/**/c.js", []string{"a/**/c.js", "a/c.js"}},
		{"/**/*.js", []string{"/**/*.js", "/*.js"}},
		{"a/**/**/c", []string{"a/**/c", "a/c"}},
		{"**/x/**", []string{"**/x/**", "**/x", "x/**", "x"}},
	}
	for _, tc := range cases {
		test.H(t).InterfaceEql(globstarVariants(tc.pattern), tc.want)
	}
}
