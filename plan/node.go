package plan

import (
	"github.com/guileen/fedsql/types"
)

// NodeKind identifies the variant of a logical plan node
type NodeKind string

const (
	NodeScan          NodeKind = "scan"
	NodeProject       NodeKind = "project"
	NodeFilter        NodeKind = "filter"
	NodeAggregate     NodeKind = "aggregate"
	NodeSort          NodeKind = "sort"
	NodeGlobalLimit   NodeKind = "global_limit"
	NodeLocalLimit    NodeKind = "local_limit"
	NodeJoin          NodeKind = "join"
	NodeSubquery      NodeKind = "subquery"
	NodeSubqueryAlias NodeKind = "subquery_alias"

	// NodeRemoteScan is an opaque leaf standing in for a subtree delegated
	// to an external backend. It only ever appears in residual plans
	// produced by the pushdown selector, never in host-supplied plans.
	NodeRemoteScan NodeKind = "remote_scan"
)

// JoinKind identifies the join semantics of a join node
type JoinKind string

const (
	JoinInner      JoinKind = "inner"
	JoinCross      JoinKind = "cross"
	JoinLeftOuter  JoinKind = "left_outer"
	JoinRightOuter JoinKind = "right_outer"
	JoinFullOuter  JoinKind = "full_outer"
)

// NamedExpr pairs an expression with its output attribute name
type NamedExpr struct {
	Name string `json:"name"`
	Expr *Expr  `json:"expr"`
}

// SortKey is one ORDER BY key with direction and null-ordering flags
type SortKey struct {
	Expr       *Expr `json:"expr"`
	Descending bool  `json:"descending,omitempty"`
	NullsFirst bool  `json:"nulls_first,omitempty"`
}

// Node is a logical plan operator. Kind selects the variant; only the
// fields belonging to that variant are populated. Plan trees are owned by
// the host and are never mutated by this subsystem; derived plans
// (residuals) are new trees that may reference subtrees of the input.
type Node struct {
	Kind NodeKind `json:"kind"`

	// Scan and RemoteScan: base relation and its output attributes.
	// Qualifier optionally carries a catalog/schema prefix for Scan.
	Table     string       `json:"table,omitempty"`
	Qualifier string       `json:"qualifier,omitempty"`
	Attrs     types.Schema `json:"attrs,omitempty"`

	// Project
	Projections []NamedExpr `json:"projections,omitempty"`

	// Filter: predicates combined as a conjunction
	Predicates []*Expr `json:"predicates,omitempty"`

	// Aggregate: GroupBy in declared order, Aggregations is the full
	// output list (grouping references and aggregate calls)
	GroupBy      []*Expr     `json:"group_by,omitempty"`
	Aggregations []NamedExpr `json:"aggregations,omitempty"`

	// Sort
	SortKeys []SortKey `json:"sort_keys,omitempty"`

	// GlobalLimit / LocalLimit
	Limit int64 `json:"limit,omitempty"`

	// Join
	JoinType  JoinKind `json:"join_type,omitempty"`
	Condition *Expr    `json:"condition,omitempty"`

	// SubqueryAlias
	Alias string `json:"alias,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// Scan creates a base table scan leaf
func Scan(table string, attrs types.Schema) *Node {
	return &Node{Kind: NodeScan, Table: table, Attrs: attrs}
}

// QualifiedScan creates a scan with a catalog/schema qualifier
func QualifiedScan(qualifier, table string, attrs types.Schema) *Node {
	return &Node{Kind: NodeScan, Qualifier: qualifier, Table: table, Attrs: attrs}
}

// RemoteScan creates an opaque leaf carrying the schema a delegated
// subtree produces
func RemoteScan(table string, attrs types.Schema) *Node {
	return &Node{Kind: NodeRemoteScan, Table: table, Attrs: attrs}
}

// Project creates a projection over child
func Project(child *Node, projections []NamedExpr) *Node {
	return &Node{Kind: NodeProject, Projections: projections, Children: []*Node{child}}
}

// Filter creates a filter over child; predicates form a conjunction
func Filter(child *Node, predicates ...*Expr) *Node {
	return &Node{Kind: NodeFilter, Predicates: predicates, Children: []*Node{child}}
}

// AggregateNode creates a grouped aggregation over child
func AggregateNode(child *Node, groupBy []*Expr, aggregations []NamedExpr) *Node {
	return &Node{Kind: NodeAggregate, GroupBy: groupBy, Aggregations: aggregations, Children: []*Node{child}}
}

// Sort creates a sort over child
func Sort(child *Node, keys ...SortKey) *Node {
	return &Node{Kind: NodeSort, SortKeys: keys, Children: []*Node{child}}
}

// GlobalLimit creates a global row limit over child
func GlobalLimit(child *Node, limit int64) *Node {
	return &Node{Kind: NodeGlobalLimit, Limit: limit, Children: []*Node{child}}
}

// LocalLimit creates a per-partition row limit over child
func LocalLimit(child *Node, limit int64) *Node {
	return &Node{Kind: NodeLocalLimit, Limit: limit, Children: []*Node{child}}
}

// Join creates a join of left and right. Condition may be nil for cross
// joins. Join order is preserved exactly as given.
func Join(left, right *Node, kind JoinKind, condition *Expr) *Node {
	return &Node{Kind: NodeJoin, JoinType: kind, Condition: condition, Children: []*Node{left, right}}
}

// Subquery wraps child as a subquery boundary
func Subquery(child *Node) *Node {
	return &Node{Kind: NodeSubquery, Children: []*Node{child}}
}

// SubqueryAlias wraps child as a named derived relation
func SubqueryAlias(child *Node, alias string) *Node {
	return &Node{Kind: NodeSubqueryAlias, Alias: alias, Children: []*Node{child}}
}

// Expressions returns every expression the node itself references:
// projection expressions, filter predicates, grouping and aggregate
// expressions, sort keys and join conditions.
func (n *Node) Expressions() []*Expr {
	var exprs []*Expr
	switch n.Kind {
	case NodeProject:
		for _, p := range n.Projections {
			exprs = append(exprs, p.Expr)
		}
	case NodeFilter:
		exprs = append(exprs, n.Predicates...)
	case NodeAggregate:
		exprs = append(exprs, n.GroupBy...)
		for _, a := range n.Aggregations {
			exprs = append(exprs, a.Expr)
		}
	case NodeSort:
		for _, k := range n.SortKeys {
			exprs = append(exprs, k.Expr)
		}
	case NodeJoin:
		if n.Condition != nil {
			exprs = append(exprs, n.Condition)
		}
	}
	return exprs
}

// OutputSchema derives the node's output attributes from its children's
// outputs plus its own expressions
func (n *Node) OutputSchema() types.Schema {
	switch n.Kind {
	case NodeScan, NodeRemoteScan:
		return n.Attrs
	case NodeProject:
		out := make(types.Schema, len(n.Projections))
		for i, p := range n.Projections {
			out[i] = types.Attribute{Name: p.Name, Type: p.Expr.Type, Nullable: n.child().schemaNullable(p.Expr)}
		}
		return out
	case NodeAggregate:
		out := make(types.Schema, len(n.Aggregations))
		for i, a := range n.Aggregations {
			// Aggregate outputs may be NULL over empty groups; grouping
			// references inherit nullability from the child schema
			nullable := a.Expr.Kind == ExprAggregate || n.child().schemaNullable(a.Expr)
			out[i] = types.Attribute{Name: a.Name, Type: a.Expr.Type, Nullable: nullable}
		}
		return out
	case NodeJoin:
		left := n.Children[0].OutputSchema()
		right := n.Children[1].OutputSchema()
		switch n.JoinType {
		case JoinLeftOuter:
			right = right.AsNullable()
		case JoinRightOuter:
			left = left.AsNullable()
		case JoinFullOuter:
			left = left.AsNullable()
			right = right.AsNullable()
		}
		out := make(types.Schema, 0, len(left)+len(right))
		out = append(out, left...)
		out = append(out, right...)
		return out
	default:
		// Filter, Sort, limits and subquery wrappers pass the child
		// schema through unchanged
		if c := n.child(); c != nil {
			return c.OutputSchema()
		}
		return nil
	}
}

func (n *Node) child() *Node {
	if len(n.Children) > 0 {
		return n.Children[0]
	}
	return nil
}

// schemaNullable reports whether an expression over n's output may yield
// NULL: a reference to a nullable attribute, an explicit NULL literal, a
// CASE with no ELSE branch, or any operator over a nullable input.
func (n *Node) schemaNullable(e *Expr) bool {
	if n == nil || e == nil {
		return true
	}
	nullable := false
	schema := n.OutputSchema()
	e.Walk(func(x *Expr) bool {
		switch x.Kind {
		case ExprAttribute:
			if i := schema.IndexOf(x.Name); i >= 0 && schema[i].Nullable {
				nullable = true
				return false
			}
		case ExprLiteral:
			if x.Value == nil {
				nullable = true
				return false
			}
		case ExprCase:
			// A CASE without ELSE yields NULL when no branch matches
			if x.Else == nil {
				nullable = true
				return false
			}
		}
		return true
	})
	return nullable
}

// Walk visits n and every descendant node in pre-order. The walk stops
// early when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}
