package matcher

import (
	"strings"

	"github.com/retro-framework/glob-playground/framework/types"
)

// plan is a pattern rewritten according to the option flags, plus
// what must happen to each candidate before it is handed to a Glob.
type plan struct {
	pattern  string
	negate   bool
	comment  bool
	empty    bool
	base     bool
	nocase   bool
	dot      bool
	globstar bool
	segments []string
}

var braceEscaper = strings.NewReplacer("{", `\{`, "}", `\}`)

func prepare(pattern string, f types.Flags) plan {
	if !f.NoComment && strings.HasPrefix(pattern, "#") {
		return plan{comment: true}
	}
	if pattern == "" {
		return plan{empty: true}
	}

	var p = plan{nocase: f.NoCase, dot: f.Dot}

	if !f.NoNegate {
		n := 0
		for n < len(pattern) && pattern[n] == '!' {
			n++
		}
		p.negate = n%2 == 1
		pattern = pattern[n:]
	}

	if f.NoBrace {
		pattern = braceEscaper.Replace(pattern)
	} else if !f.NoExt {
		pattern = rewriteExtglob(pattern)
	}

	if f.NoGlobstar {
		for strings.Contains(pattern, "**") {
			pattern = strings.Replace(pattern, "**", "*", -1)
		}
	}

	if f.NoCase {
		pattern = strings.ToLower(pattern)
	}

	p.base = f.MatchBase && !strings.Contains(pattern, "/")
	p.pattern = pattern
	p.segments = strings.Split(pattern, "/")
	for _, seg := range p.segments {
		if seg == "**" {
			p.globstar = true
		}
	}
	return p
}

// rewriteExtglob turns "@(a|b)" into "{a,b}". Other extglob forms have
// no equivalent in the upstream libraries and are left alone.
func rewriteExtglob(pattern string) string {
	if !strings.Contains(pattern, "@(") {
		return pattern
	}
	var (
		b     strings.Builder
		depth int
	)
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			b.WriteByte(c)
			b.WriteByte(pattern[i+1])
			i++
		case c == '@' && i+1 < len(pattern) && pattern[i+1] == '(' && depth == 0 && closes(pattern[i+2:]):
			b.WriteByte('{')
			depth++
			i++
		case c == '|' && depth > 0:
			b.WriteByte(',')
		case c == ')' && depth > 0:
			b.WriteByte('}')
			depth--
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func closes(rest string) bool {
	i := strings.IndexByte(rest, ')')
	return i >= 0 && !strings.Contains(rest[:i], "(")
}

// subject is the string the compiled Glob sees for candidate.
func (p plan) subject(candidate string) string {
	if p.base {
		candidate = candidate[strings.LastIndex(candidate, "/")+1:]
	}
	if p.nocase {
		candidate = strings.ToLower(candidate)
	}
	return candidate
}

// hides reports whether subject has a segment starting with "." that
// the pattern did not spell out with a leading "." of its own.
func (p plan) hides(subject string) bool {
	if p.dot {
		return false
	}
	var (
		segs   = strings.Split(subject, "/")
		hidden int
	)
	for _, seg := range segs {
		if strings.HasPrefix(seg, ".") {
			hidden++
		}
	}
	if hidden == 0 {
		return false
	}
	if !p.globstar && len(segs) == len(p.segments) {
		for i, seg := range segs {
			if strings.HasPrefix(seg, ".") && !dotted(p.segments[i]) {
				return true
			}
		}
		return false
	}
	var explicit int
	for _, seg := range p.segments {
		if dotted(seg) {
			explicit++
		}
	}
	return hidden > explicit
}

// dotted reports whether a pattern segment starts with ".", directly or
// in one of the alternatives of a leading brace group.
func dotted(seg string) bool {
	if strings.HasPrefix(seg, ".") {
		return true
	}
	if !strings.HasPrefix(seg, "{") {
		return false
	}
	end := strings.IndexByte(seg, '}')
	if end < 0 {
		return false
	}
	for _, alt := range strings.Split(seg[1:end], ",") {
		if strings.HasPrefix(alt, ".") {
			return true
		}
	}
	return false
}
