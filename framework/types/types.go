package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gobuffalo/flect"
)

// Logger is the generic logging interface. It explicitly avoids including
// Fatal and Fatalf because of the relative brutal nature of os.Exit
// without a chance to clean up.
type Logger interface {
	Debug(...interface{})
	Debugf(string, ...interface{})
	Info(...interface{})
	Infof(string, ...interface{})
	Warn(...interface{})
	Warnf(string, ...interface{})
	Error(...interface{})
	Errorf(string, ...interface{})
}

// Clock allows dependency injection of a function returning
// the current time, tests use a clock with a predictable step.
type Clock interface {
	Now() time.Time
}

// SessionID names one playground session. A real session ID is required
// and not any (maybe empty) string.
type SessionID string

// Flags is the fixed set of matcher switches. Each defaults to false, the
// json names are the ones users type into the options editor.
type Flags struct {
	Debug      bool `json:"debug"`
	NoBrace    bool `json:"nobrace"`
	NoGlobstar bool `json:"noglobstar"`
	Dot        bool `json:"dot"`
	NoExt      bool `json:"noext"`
	NoCase     bool `json:"nocase"`
	NonNull    bool `json:"nonull"`
	MatchBase  bool `json:"matchBase"`
	NoComment  bool `json:"nocomment"`
	NoNegate   bool `json:"nonegate"`
	FlipNegate bool `json:"flipNegate"`
}

// FlagNames lists the option keys in the order they are presented.
var FlagNames = []string{
	"debug",
	"nobrace",
	"noglobstar",
	"dot",
	"noext",
	"nocase",
	"nonull",
	"matchBase",
	"nocomment",
	"nonegate",
	"flipNegate",
}

// Set sets the flag with the given json name to v, unknown names are
// reported with false.
func (f *Flags) Set(name string, v bool) bool {
	switch name {
	case "debug":
		f.Debug = v
	case "nobrace":
		f.NoBrace = v
	case "noglobstar":
		f.NoGlobstar = v
	case "dot":
		f.Dot = v
	case "noext":
		f.NoExt = v
	case "nocase":
		f.NoCase = v
	case "nonull":
		f.NonNull = v
	case "matchBase":
		f.MatchBase = v
	case "nocomment":
		f.NoComment = v
	case "nonegate":
		f.NoNegate = v
	case "flipNegate":
		f.FlipNegate = v
	default:
		return false
	}
	return true
}

// Candidate is one unit of text tested against the pattern. The ID is
// opaque and owned by whoever renders the candidate.
type Candidate struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// CandidatesFromLines splits a blob of text into one candidate per line,
// identified by line index. A trailing newline does not produce an
// extra candidate.
func CandidatesFromLines(text string) []Candidate {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(strings.Replace(text, "\r\n", "\n", -1), "\n")
	var (
		lines = strings.Split(text, "\n")
		cs    = make([]Candidate, 0, len(lines))
	)
	for i, l := range lines {
		cs = append(cs, Candidate{ID: strconv.Itoa(i), Text: l})
	}
	return cs
}

// CandidateIDs returns the ids in candidate order.
func CandidateIDs(cs []Candidate) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}

// MatchResult is parallel to the candidate list of one evaluation pass.
type MatchResult struct {
	Matches []bool `json:"matches"`
	Count   int    `json:"count"`
}

// Summary renders the status line shown next to the pattern field.
func (mr MatchResult) Summary() string {
	noun := "item"
	if mr.Count != 1 {
		noun = flect.Pluralize(noun)
	}
	return fmt.Sprintf("(currently matching %d %s)", mr.Count, noun)
}

// Matched reports the result at position i, positions outside the result
// are not matched.
func (mr MatchResult) Matched(i int) bool {
	if i < 0 || i >= len(mr.Matches) {
		return false
	}
	return mr.Matches[i]
}

// Op is the kind of edit to a marker set.
type Op int

const (
	OpAdd Op = iota + 1
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

func (o Op) MarshalText() ([]byte, error) {
	if o != OpAdd && o != OpRemove {
		return nil, fmt.Errorf("types: can't marshal op %d", int(o))
	}
	return []byte(o.String()), nil
}

func (o *Op) UnmarshalText(b []byte) error {
	switch string(b) {
	case "add":
		*o = OpAdd
	case "remove":
		*o = OpRemove
	default:
		return fmt.Errorf("types: unknown op %q", string(b))
	}
	return nil
}

// MarkerOp is a single edit for the rendering layer to apply.
type MarkerOp struct {
	ID string `json:"id"`
	Op Op     `json:"op"`
}

func (mo MarkerOp) String() string {
	return fmt.Sprintf("%s %s", mo.Op, mo.ID)
}
