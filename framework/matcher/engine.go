package matcher

import (
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"golang.org/x/xerrors"

	"github.com/retro-framework/glob-playground/framework"
	"github.com/retro-framework/glob-playground/framework/types"
)

// DefaultEngine is used when no engine name is given.
const DefaultEngine = "minimatch"

const cacheSize = 256

var ErrUnknownEngine = xerrors.New("matcher: unknown engine")

var engines = map[string]compileFunc{
	"minimatch":  compileGobwas,
	"doublestar": compileDoublestar,
	"simple":     compileSimple,
}

// Names lists the available engines in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Engine matches candidates against patterns with one of the upstream
// globbing libraries, applying the option flags around it. Compiled
// patterns are cached, an Engine is safe for concurrent use.
type Engine struct {
	name    string
	compile compileFunc
	cache   *lru.Cache[string, Glob]
	logger  types.Logger
}

func New(name string, l types.Logger) (*Engine, error) {
	if name == "" {
		name = DefaultEngine
	}
	fn, ok := engines[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownEngine, "%q", name)
	}
	cache, err := lru.New[string, Glob](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "can't allocate glob cache")
	}
	if l == nil {
		l = framework.Noop{}
	}
	return &Engine{name: name, compile: fn, cache: cache, logger: l}, nil
}

func (e *Engine) Name() string { return e.name }

// DoesMatch reports whether candidate matches pattern under f. The error
// is non-nil only when the pattern can't be compiled.
func (e *Engine) DoesMatch(candidate, pattern string, f types.Flags) (bool, error) {
	r := e.Explain(candidate, pattern, f)
	return r.Success(), r.Err()
}

// Explain is DoesMatch with the reason attached.
func (e *Engine) Explain(candidate, pattern string, f types.Flags) Result {
	p := prepare(pattern, f)
	if p.comment {
		return ResultNoMatch(ReasonComment)
	}
	if p.empty {
		if candidate == "" {
			return ResultBoolean(true)
		}
		return ResultNoMatch(ReasonEmpty)
	}

	g, err := e.compiled(p.pattern)
	if err != nil {
		return ResultError(err)
	}

	var (
		subject = p.subject(candidate)
		hit     = g.Match(subject)
	)
	if f.Debug {
		e.logger.Debugf("matcher(%s): %q as %q against %q: %t", e.name, pattern, p.pattern, subject, hit)
	}
	if hit && p.hides(subject) {
		if !p.negate {
			return ResultNoMatch(ReasonHidden)
		}
		hit = false
	}
	if p.negate {
		return ResultNegated(hit, f.FlipNegate)
	}
	return ResultBoolean(hit)
}

// Filter returns the candidates matching pattern, in order. With the
// nonull flag and no matches the pattern itself is returned.
func (e *Engine) Filter(candidates []string, pattern string, f types.Flags) []string {
	var kept []string
	for _, c := range candidates {
		if e.Explain(c, pattern, f).Success() {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 && f.NonNull {
		return []string{pattern}
	}
	return kept
}

func (e *Engine) compiled(pattern string) (Glob, error) {
	if g, ok := e.cache.Get(pattern); ok {
		return g, nil
	}
	g, err := e.compile(pattern)
	if err != nil {
		return nil, err
	}
	e.cache.Add(pattern, g)
	return g, nil
}
