package plan

import (
	"fmt"

	"github.com/guileen/fedsql/types"
)

// Validate checks the structural invariants of a plan tree: node arity per
// kind, resolvable attribute references, and resolved expression types.
// Host-supplied plans are validated once before pushdown selection.
func Validate(n *Node) error {
	if n == nil {
		return fmt.Errorf("plan: nil node")
	}
	if err := checkArity(n); err != nil {
		return err
	}

	// Attribute references in a node's own expressions must resolve
	// against the children's combined output.
	var visible types.Schema
	for _, c := range n.Children {
		if err := Validate(c); err != nil {
			return err
		}
		visible = append(visible, c.OutputSchema()...)
	}
	for _, e := range n.Expressions() {
		if err := validateExpr(e, visible); err != nil {
			return fmt.Errorf("plan: %s node: %w", n.Kind, err)
		}
	}

	switch n.Kind {
	case NodeScan, NodeRemoteScan:
		if n.Table == "" && n.Kind == NodeScan {
			return fmt.Errorf("plan: scan node has no table")
		}
		if len(n.Attrs) == 0 {
			return fmt.Errorf("plan: %s node has no output attributes", n.Kind)
		}
	case NodeProject:
		if len(n.Projections) == 0 {
			return fmt.Errorf("plan: project node has no projections")
		}
	case NodeFilter:
		if len(n.Predicates) == 0 {
			return fmt.Errorf("plan: filter node has no predicates")
		}
		for _, p := range n.Predicates {
			if p.Type != types.TypeBoolean {
				return fmt.Errorf("plan: filter predicate has type %s, want boolean", p.Type)
			}
		}
	case NodeAggregate:
		if len(n.Aggregations) == 0 {
			return fmt.Errorf("plan: aggregate node has no output expressions")
		}
	case NodeSort:
		if len(n.SortKeys) == 0 {
			return fmt.Errorf("plan: sort node has no sort keys")
		}
	case NodeGlobalLimit, NodeLocalLimit:
		if n.Limit < 0 {
			return fmt.Errorf("plan: %s node has negative limit %d", n.Kind, n.Limit)
		}
	case NodeJoin:
		switch n.JoinType {
		case JoinInner, JoinCross, JoinLeftOuter, JoinRightOuter, JoinFullOuter:
		default:
			return fmt.Errorf("plan: join node has unknown join kind %q", n.JoinType)
		}
		if n.JoinType != JoinCross && n.Condition == nil {
			return fmt.Errorf("plan: %s join has no condition", n.JoinType)
		}
		// Name-based attribute references cannot distinguish the two
		// sides, so a shared output name would qualify ambiguously
		left := n.Children[0].OutputSchema()
		for _, a := range n.Children[1].OutputSchema() {
			if left.Contains(a.Name) {
				return fmt.Errorf("plan: join inputs both output column %q; alias one side", a.Name)
			}
		}
	case NodeSubqueryAlias:
		if n.Alias == "" {
			return fmt.Errorf("plan: subquery alias node has empty alias")
		}
	case NodeSubquery:
	default:
		return fmt.Errorf("plan: unknown node kind %q", n.Kind)
	}
	return nil
}

func checkArity(n *Node) error {
	want := 1
	switch n.Kind {
	case NodeScan, NodeRemoteScan:
		want = 0
	case NodeJoin:
		want = 2
	}
	if len(n.Children) != want {
		return fmt.Errorf("plan: %s node has %d children, want %d", n.Kind, len(n.Children), want)
	}
	return nil
}

// validateExpr checks that every node of the expression tree has a
// resolved semantic type and that attribute references resolve against
// the visible schema
func validateExpr(e *Expr, visible types.Schema) error {
	var err error
	e.Walk(func(x *Expr) bool {
		if !types.IsValidSemanticType(x.Type) {
			err = fmt.Errorf("expression %s has unresolved type %q", x.Kind, x.Type)
			return false
		}
		switch x.Kind {
		case ExprLiteral, ExprAttribute, ExprUnary, ExprBinary,
			ExprFunction, ExprCase, ExprCast, ExprAggregate:
		default:
			err = fmt.Errorf("unknown expression kind %q", x.Kind)
			return false
		}
		if x.Kind == ExprAttribute && !visible.Contains(x.Name) {
			err = fmt.Errorf("attribute %q not found in child output", x.Name)
			return false
		}
		return true
	})
	return err
}
