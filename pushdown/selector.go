// Package pushdown walks a logical plan against a backend capability
// profile and splits it into the maximal subtrees the backend can execute
// natively plus the residual plan the host must execute itself.
package pushdown

import (
	"strconv"

	"github.com/guileen/fedsql/capability"
	"github.com/guileen/fedsql/plan"
)

// Decision is the outcome of pushdown selection. Pushed holds the maximal
// pushable subtrees in left-to-right plan order; each one appears in the
// residual plan as an opaque remote-scan leaf carrying the schema the
// subtree produces. When the root itself is pushable, Residual is nil and
// Pushed holds the whole plan. No-pushdown is not an error: Pushed is
// empty and Residual is the plan unchanged.
type Decision struct {
	Pushed   []*plan.Node
	Residual *plan.Node
}

// Full reports whether the entire plan was pushed down
func (d Decision) Full() bool {
	return d.Residual == nil && len(d.Pushed) == 1
}

// None reports whether nothing could be pushed down
func (d Decision) None() bool {
	return len(d.Pushed) == 0
}

// Select determines the maximal contiguous pushable subtrees of root
// under the given capability profile. The input plan is never mutated;
// the residual is a new tree referencing unpushed subtrees of the input.
func Select(root *plan.Node, profile *capability.Profile) Decision {
	s := &selector{profile: profile, pushable: make(map[*plan.Node]bool)}
	if s.mark(root) {
		return Decision{Pushed: []*plan.Node{root}}
	}
	residual := s.rewrite(root)
	return Decision{Pushed: s.pushed, Residual: residual}
}

type selector struct {
	profile  *capability.Profile
	pushable map[*plan.Node]bool
	pushed   []*plan.Node
}

// mark evaluates pushability bottom-up: a node is pushable iff all its
// children are pushable, its operator kind is supported, its join kind
// (for joins) is supported, and every expression it references is built
// entirely from supported expression kinds. Subquery wrappers are
// transparent: they push down iff their single child does.
func (s *selector) mark(n *plan.Node) bool {
	ok := true
	for _, c := range n.Children {
		// Evaluate every child so maximal subtrees below a blocked node
		// are still discovered
		if !s.mark(c) {
			ok = false
		}
	}
	if ok {
		switch n.Kind {
		case plan.NodeSubquery, plan.NodeSubqueryAlias:
			// transparent
		case plan.NodeRemoteScan:
			ok = false
		default:
			if !s.profile.SupportsOperator(n.Kind) {
				ok = false
			}
			if n.Kind == plan.NodeJoin && !s.profile.SupportsJoin(n.JoinType) {
				ok = false
			}
		}
	}
	if ok {
		for _, e := range n.Expressions() {
			if !s.profile.SupportsExpression(e) {
				ok = false
				break
			}
		}
	}
	s.pushable[n] = ok
	return ok
}

// rewrite builds the residual plan, substituting each maximal pushable
// subtree with a remote-scan leaf carrying the subtree's output schema
func (s *selector) rewrite(n *plan.Node) *plan.Node {
	if s.pushable[n] {
		s.pushed = append(s.pushed, n)
		name := "remote_" + strconv.Itoa(len(s.pushed)-1)
		return plan.RemoteScan(name, n.OutputSchema())
	}
	out := *n
	out.Children = make([]*plan.Node, len(n.Children))
	for i, c := range n.Children {
		out.Children[i] = s.rewrite(c)
	}
	return &out
}

// Score counts the operators in a pushed subtree whose kind the profile
// declares preferred. It is a tie-breaking heuristic for choosing among
// backends that can each take the same subtree, not a cost model; no
// statistics are consulted.
func Score(subtree *plan.Node, profile *capability.Profile) int {
	score := 0
	subtree.Walk(func(n *plan.Node) bool {
		if profile.IsPreferred(n.Kind) {
			score++
		}
		return true
	})
	return score
}
