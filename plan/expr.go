package plan

import (
	"github.com/guileen/fedsql/types"
)

// ExprKind identifies the variant of a scalar expression node
type ExprKind string

const (
	ExprLiteral   ExprKind = "literal"
	ExprAttribute ExprKind = "attribute"
	ExprUnary     ExprKind = "unary"
	ExprBinary    ExprKind = "binary"
	ExprFunction  ExprKind = "function"
	ExprCase      ExprKind = "case"
	ExprCast      ExprKind = "cast"
	ExprAggregate ExprKind = "aggregate"
)

// BinaryOperator identifies a binary operator by logical name.
// The dialect maps logical names to native symbols.
type BinaryOperator string

const (
	OpAdd      BinaryOperator = "add"
	OpSubtract BinaryOperator = "subtract"
	OpMultiply BinaryOperator = "multiply"
	OpDivide   BinaryOperator = "divide"
	OpModulo   BinaryOperator = "modulo"

	OpEqual        BinaryOperator = "eq"
	OpNotEqual     BinaryOperator = "neq"
	OpLessThan     BinaryOperator = "lt"
	OpLessEqual    BinaryOperator = "lte"
	OpGreaterThan  BinaryOperator = "gt"
	OpGreaterEqual BinaryOperator = "gte"

	// OpNullSafeEqual compares two values treating NULL as a comparable
	// value (NULL <=> NULL is true, never NULL)
	OpNullSafeEqual BinaryOperator = "nullsafe_eq"

	OpAnd BinaryOperator = "and"
	OpOr  BinaryOperator = "or"

	OpBitAnd BinaryOperator = "bitand"
	OpBitOr  BinaryOperator = "bitor"
	OpBitXor BinaryOperator = "bitxor"

	OpLike BinaryOperator = "like"
)

// UnaryOperator identifies a unary operator by logical name
type UnaryOperator string

const (
	OpNot       UnaryOperator = "not"
	OpNegate    UnaryOperator = "negate"
	OpBitNot    UnaryOperator = "bitnot"
	OpIsNull    UnaryOperator = "isnull"
	OpIsNotNull UnaryOperator = "isnotnull"
)

// FunctionName identifies a scalar function by logical name.
// The dialect maps logical names to native function names.
type FunctionName string

const (
	FuncAbs   FunctionName = "abs"
	FuncCeil  FunctionName = "ceil"
	FuncFloor FunctionName = "floor"
	FuncRound FunctionName = "round"
	FuncSqrt  FunctionName = "sqrt"
	FuncPower FunctionName = "power"

	FuncLower     FunctionName = "lower"
	FuncUpper     FunctionName = "upper"
	FuncTrim      FunctionName = "trim"
	FuncLength    FunctionName = "length"
	FuncSubstring FunctionName = "substring"
	FuncConcat    FunctionName = "concat"
	FuncCoalesce  FunctionName = "coalesce"

	FuncYear  FunctionName = "year"
	FuncMonth FunctionName = "month"
	FuncDay   FunctionName = "day"

	FuncMD5    FunctionName = "md5"
	FuncSHA256 FunctionName = "sha256"
)

// AggregateFunc identifies an aggregate function by logical name
type AggregateFunc string

const (
	AggCount AggregateFunc = "count"
	AggSum   AggregateFunc = "sum"
	AggAvg   AggregateFunc = "avg"
	AggMin   AggregateFunc = "min"
	AggMax   AggregateFunc = "max"
)

// WhenClause is one WHEN/THEN branch of a CASE expression
type WhenClause struct {
	When *Expr `json:"when"`
	Then *Expr `json:"then"`
}

// Expr is a scalar expression node. Kind selects the variant; only the
// fields belonging to that variant are populated. Every expression carries
// a resolved semantic type before translation is attempted.
type Expr struct {
	Kind ExprKind           `json:"kind"`
	Type types.SemanticType `json:"type"`

	// Literal: Value holds the Go value, nil means SQL NULL
	Value any `json:"value,omitempty"`

	// Attribute: Name references an attribute of a child node's output
	Name string `json:"name,omitempty"`

	// Unary and Cast: Input is the single operand
	Input *Expr `json:"input,omitempty"`

	// Unary/Binary operators
	UnaryOp  UnaryOperator  `json:"unary_op,omitempty"`
	BinaryOp BinaryOperator `json:"binary_op,omitempty"`
	Left     *Expr          `json:"left,omitempty"`
	Right    *Expr          `json:"right,omitempty"`

	// Function and Aggregate arguments
	Func     FunctionName  `json:"func,omitempty"`
	Agg      AggregateFunc `json:"agg,omitempty"`
	Args     []*Expr       `json:"args,omitempty"`
	Distinct bool          `json:"distinct,omitempty"`

	// Case branches, evaluated in order; Else may be nil
	Whens []WhenClause `json:"whens,omitempty"`
	Else  *Expr        `json:"else,omitempty"`
}

// Literal creates a typed literal expression. A nil value is SQL NULL.
func Literal(value any, typ types.SemanticType) *Expr {
	return &Expr{Kind: ExprLiteral, Type: typ, Value: value}
}

// Null creates an untyped NULL literal
func Null() *Expr {
	return &Expr{Kind: ExprLiteral, Type: types.TypeNull}
}

// Attribute creates a reference to a named attribute of a child's output
func Attribute(name string, typ types.SemanticType) *Expr {
	return &Expr{Kind: ExprAttribute, Type: typ, Name: name}
}

// Unary creates a unary operator expression
func Unary(op UnaryOperator, input *Expr, typ types.SemanticType) *Expr {
	return &Expr{Kind: ExprUnary, Type: typ, UnaryOp: op, Input: input}
}

// Binary creates a binary operator expression
func Binary(op BinaryOperator, left, right *Expr, typ types.SemanticType) *Expr {
	return &Expr{Kind: ExprBinary, Type: typ, BinaryOp: op, Left: left, Right: right}
}

// Function creates a scalar function call expression
func Function(fn FunctionName, typ types.SemanticType, args ...*Expr) *Expr {
	return &Expr{Kind: ExprFunction, Type: typ, Func: fn, Args: args}
}

// Case creates a CASE expression; elseExpr may be nil
func Case(whens []WhenClause, elseExpr *Expr, typ types.SemanticType) *Expr {
	return &Expr{Kind: ExprCase, Type: typ, Whens: whens, Else: elseExpr}
}

// Cast creates a cast of input to the target semantic type
func Cast(input *Expr, target types.SemanticType) *Expr {
	return &Expr{Kind: ExprCast, Type: target, Input: input}
}

// Aggregate creates an aggregate function call expression
func Aggregate(agg AggregateFunc, distinct bool, typ types.SemanticType, args ...*Expr) *Expr {
	return &Expr{Kind: ExprAggregate, Type: typ, Agg: agg, Distinct: distinct, Args: args}
}

// Children returns the direct child expressions of e in evaluation order
func (e *Expr) Children() []*Expr {
	var children []*Expr
	switch e.Kind {
	case ExprUnary, ExprCast:
		if e.Input != nil {
			children = append(children, e.Input)
		}
	case ExprBinary:
		if e.Left != nil {
			children = append(children, e.Left)
		}
		if e.Right != nil {
			children = append(children, e.Right)
		}
	case ExprFunction, ExprAggregate:
		children = append(children, e.Args...)
	case ExprCase:
		for _, w := range e.Whens {
			children = append(children, w.When, w.Then)
		}
		if e.Else != nil {
			children = append(children, e.Else)
		}
	}
	return children
}

// Walk visits e and every descendant expression in pre-order. The walk
// stops early when fn returns false.
func (e *Expr) Walk(fn func(*Expr) bool) bool {
	if e == nil {
		return true
	}
	if !fn(e) {
		return false
	}
	for _, c := range e.Children() {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}
