// Package marker reconciles the set of candidates flagged as matched
// with a fresh match result. Instead of re-flagging every candidate it
// computes the edits that bring the set in line, so a rendering layer
// only touches what changed.
package marker

import (
	"sort"

	"github.com/golang-collections/collections/set"

	"github.com/retro-framework/glob-playground/framework/types"
)

// Membership is what Reconcile needs to know about a marker set.
type Membership interface {
	Has(id string) bool
	IDs() []string
}

// Set holds the ids currently flagged as matched. It starts empty and
// changes only through Apply.
type Set struct {
	s *set.Set
}

func NewSet(ids ...string) *Set {
	s := &Set{set.New()}
	for _, id := range ids {
		s.s.Insert(id)
	}
	return s
}

func (s *Set) Has(id string) bool { return s.s.Has(id) }
func (s *Set) Len() int           { return s.s.Len() }

// IDs returns the members in sorted order.
func (s *Set) IDs() []string {
	ids := make([]string, 0, s.s.Len())
	s.s.Do(func(v interface{}) {
		ids = append(ids, v.(string))
	})
	sort.Strings(ids)
	return ids
}

// Apply performs the edits in order.
func (s *Set) Apply(ops []types.MarkerOp) {
	for _, op := range ops {
		switch op.Op {
		case types.OpAdd:
			s.s.Insert(op.ID)
		case types.OpRemove:
			s.s.Remove(op.ID)
		}
	}
}

// Reconcile returns the minimal edits turning markers into exactly the
// ids whose result is true. ids is parallel to result.Matches, missing
// results count as false and a repeated id is decided by its first
// position. Members no longer among ids are removed after everything
// else, in sorted order.
//
// Applying the returned edits and reconciling again yields nothing.
func Reconcile(markers Membership, result types.MatchResult, ids []string) []types.MarkerOp {
	var (
		ops  []types.MarkerOp
		seen = make(map[string]bool, len(ids))
	)
	for i, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		var (
			isMember = markers.Has(id)
			matched  = result.Matched(i)
		)
		switch {
		case matched && !isMember:
			ops = append(ops, types.MarkerOp{ID: id, Op: types.OpAdd})
		case !matched && isMember:
			ops = append(ops, types.MarkerOp{ID: id, Op: types.OpRemove})
		}
	}
	for _, id := range markers.IDs() {
		if !seen[id] {
			ops = append(ops, types.MarkerOp{ID: id, Op: types.OpRemove})
		}
	}
	return ops
}
