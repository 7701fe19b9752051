// Package capability declares what a federated backend can execute
// natively: operator kinds, expression kinds, join kinds, and a preferred
// subset used as a tie-breaking heuristic. Profiles are immutable after
// construction and safe for concurrent use.
package capability

import (
	"github.com/guileen/fedsql/plan"
)

// Spec enumerates a backend's declared capabilities. It is the
// registration-time configuration from which a Profile is built; no
// runtime discovery happens.
type Spec struct {
	Operators   []plan.NodeKind       `json:"operators,omitempty"`
	Expressions []plan.ExprKind       `json:"expressions,omitempty"`
	BinaryOps   []plan.BinaryOperator `json:"binary_ops,omitempty"`
	UnaryOps    []plan.UnaryOperator  `json:"unary_ops,omitempty"`
	Functions   []plan.FunctionName   `json:"functions,omitempty"`
	Aggregates  []plan.AggregateFunc  `json:"aggregates,omitempty"`
	Joins       []plan.JoinKind       `json:"joins,omitempty"`

	// Preferred marks operator kinds the backend executes efficiently.
	// Consulted only as a tie-breaking heuristic, never as a cost model.
	Preferred []plan.NodeKind `json:"preferred,omitempty"`

	// All short-circuits every support query to true. Escape hatch for
	// backends with no fixed capability ceiling.
	All bool `json:"all,omitempty"`
}

// Profile answers capability queries for one backend
type Profile struct {
	operators   map[plan.NodeKind]struct{}
	expressions map[plan.ExprKind]struct{}
	binaryOps   map[plan.BinaryOperator]struct{}
	unaryOps    map[plan.UnaryOperator]struct{}
	functions   map[plan.FunctionName]struct{}
	aggregates  map[plan.AggregateFunc]struct{}
	joins       map[plan.JoinKind]struct{}
	preferred   map[plan.NodeKind]struct{}
	all         bool
}

// New builds an immutable Profile from the declared capability spec
func New(spec Spec) *Profile {
	return &Profile{
		operators:   toSet(spec.Operators),
		expressions: toSet(spec.Expressions),
		binaryOps:   toSet(spec.BinaryOps),
		unaryOps:    toSet(spec.UnaryOps),
		functions:   toSet(spec.Functions),
		aggregates:  toSet(spec.Aggregates),
		joins:       toSet(spec.Joins),
		preferred:   toSet(spec.Preferred),
		all:         spec.All,
	}
}

func toSet[T comparable](list []T) map[T]struct{} {
	set := make(map[T]struct{}, len(list))
	for _, v := range list {
		set[v] = struct{}{}
	}
	return set
}

// SupportsAll reports whether the profile short-circuits all queries to true
func (p *Profile) SupportsAll() bool {
	return p.all
}

// SupportsOperator reports whether the backend can execute the operator kind
func (p *Profile) SupportsOperator(kind plan.NodeKind) bool {
	if p.all {
		return true
	}
	_, ok := p.operators[kind]
	return ok
}

// SupportsJoin reports whether the backend can execute the join kind
func (p *Profile) SupportsJoin(kind plan.JoinKind) bool {
	if p.all {
		return true
	}
	_, ok := p.joins[kind]
	return ok
}

// IsPreferred reports whether the backend declared the operator kind as
// one it executes efficiently
func (p *Profile) IsPreferred(kind plan.NodeKind) bool {
	_, ok := p.preferred[kind]
	return ok
}

// SupportsExpression reports whether the backend can evaluate the whole
// expression tree: every node in it, including nested arguments, must be a
// supported kind. A single unsupported leaf or operator anywhere
// disqualifies the expression.
func (p *Profile) SupportsExpression(e *plan.Expr) bool {
	if p.all {
		return true
	}
	supported := true
	e.Walk(func(x *plan.Expr) bool {
		if !p.supportsExprNode(x) {
			supported = false
			return false
		}
		return true
	})
	return supported
}

// supportsExprNode checks a single expression node, with operator-level
// granularity for unary/binary operators, functions and aggregates
func (p *Profile) supportsExprNode(e *plan.Expr) bool {
	if _, ok := p.expressions[e.Kind]; !ok {
		return false
	}
	switch e.Kind {
	case plan.ExprUnary:
		_, ok := p.unaryOps[e.UnaryOp]
		return ok
	case plan.ExprBinary:
		_, ok := p.binaryOps[e.BinaryOp]
		return ok
	case plan.ExprFunction:
		_, ok := p.functions[e.Func]
		return ok
	case plan.ExprAggregate:
		_, ok := p.aggregates[e.Agg]
		return ok
	}
	return true
}
