package matcher

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gobwas "github.com/gobwas/glob"
	"github.com/pkg/errors"
	zglob "github.com/zyedidia/glob"
)

// Glob is a compiled pattern as produced by one of the
// upstream globbing libraries.
type Glob interface {
	Match(string) bool
}

type compileFunc func(pattern string) (Glob, error)

// compileGobwas treats "/" as separator, so "*" stays within a path
// segment. gobwas' "**" crosses separators anywhere, the pattern is
// compiled once per globstarVariants result to get segment semantics.
func compileGobwas(pattern string) (Glob, error) {
	var gs anyGlob
	for _, v := range globstarVariants(pattern) {
		g, err := gobwas.Compile(v, '/')
		if err != nil {
			return nil, errors.Wrap(err, "can't compile glob pattern")
		}
		gs = append(gs, g)
	}
	if len(gs) == 1 {
		return gs[0], nil
	}
	return gs, nil
}

// maxGlobstarForks bounds the variants to 2^maxGlobstarForks, later
// "**" segments always need at least one segment.
const maxGlobstarForks = 6

// globstarVariants spells out the ways a "**" path segment can match:
// as one or more segments, or as none at all. A "**" sharing its
// segment with anything else is a plain "*". Runs of "**" segments
// collapse into one.
func globstarVariants(pattern string) []string {
	var (
		segs     = strings.Split(pattern, "/")
		variants = [][]string{nil}
		forks    int
	)
	for i, seg := range segs {
		if seg != "**" {
			for strings.Contains(seg, "**") {
				seg = strings.Replace(seg, "**", "*", -1)
			}
			for j := range variants {
				variants[j] = append(variants[j], seg)
			}
			continue
		}
		if len(segs) == 1 || (i > 0 && segs[i-1] == "**") || forks >= maxGlobstarForks {
			if i == 0 || segs[i-1] != "**" {
				for j := range variants {
					variants[j] = append(variants[j], seg)
				}
			}
			continue
		}
		forks++
		next := make([][]string, 0, 2*len(variants))
		for _, v := range variants {
			kept := append(append([]string(nil), v...), seg)
			dropped := append([]string(nil), v...)
			next = append(next, kept, dropped)
		}
		variants = next
	}
	out := make([]string, len(variants))
	for i, v := range variants {
		out[i] = strings.Join(v, "/")
	}
	return out
}

type anyGlob []Glob

func (ag anyGlob) Match(s string) bool {
	for _, g := range ag {
		if g.Match(s) {
			return true
		}
	}
	return false
}

type doublestarGlob string

func (dg doublestarGlob) Match(s string) bool {
	ok, err := doublestar.Match(string(dg), s)
	return err == nil && ok
}

func compileDoublestar(pattern string) (Glob, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Wrapf(doublestar.ErrBadPattern, "can't compile glob pattern %q", pattern)
	}
	return doublestarGlob(pattern), nil
}

type simpleGlob struct {
	glob *zglob.Glob
}

func (sg simpleGlob) Match(s string) bool { return sg.glob.MatchString(s) }

func compileSimple(pattern string) (Glob, error) {
	g, err := zglob.Compile(pattern)
	if err != nil {
		return nil, errors.Wrap(err, "can't compile glob pattern")
	}
	return simpleGlob{g}, nil
}
