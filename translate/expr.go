package translate

import (
	"strings"

	"github.com/guileen/fedsql/plan"
)

// joinScope qualifies attribute references inside a join condition with
// the table factor they belong to
type joinScope struct {
	leftPrefix  string
	rightPrefix string
	left        map[string]struct{}
	right       map[string]struct{}
}

func (s *joinScope) prefix(name string) string {
	if s == nil {
		return ""
	}
	if _, ok := s.left[name]; ok {
		return s.leftPrefix
	}
	if _, ok := s.right[name]; ok {
		return s.rightPrefix
	}
	return ""
}

// Expression translates a scalar expression tree into dialect-specific
// text. Exposed for hosts that translate expressions outside a full plan.
func (b *Builder) Expression(e *plan.Expr) (string, error) {
	return b.renderExpr(e, nil)
}

func (b *Builder) renderExpr(e *plan.Expr, scope *joinScope) (string, error) {
	switch e.Kind {
	case plan.ExprLiteral:
		text, err := b.dialect.Literal(e.Type, e.Value)
		if err != nil {
			return "", &ContractError{Op: "literal", Err: err}
		}
		return text, nil

	case plan.ExprAttribute:
		quoted := b.dialect.QuoteIdentifier(e.Name)
		if prefix := scope.prefix(e.Name); prefix != "" {
			return prefix + "." + quoted, nil
		}
		return quoted, nil

	case plan.ExprUnary:
		symbol, ok := b.dialect.UnaryOp(e.UnaryOp)
		if !ok {
			return "", contractErrf("unary", "dialect %s has no mapping for unary operator %q", b.dialect.Name(), e.UnaryOp)
		}
		operand, err := b.operand(e.Input, scope)
		if err != nil {
			return "", err
		}
		switch e.UnaryOp {
		case plan.OpIsNull, plan.OpIsNotNull:
			return operand + " " + symbol, nil
		case plan.OpNot:
			return symbol + " " + operand, nil
		default:
			return symbol + operand, nil
		}

	case plan.ExprBinary:
		symbol, ok := b.dialect.BinaryOp(e.BinaryOp)
		if !ok {
			return "", contractErrf("binary", "dialect %s has no mapping for binary operator %q", b.dialect.Name(), e.BinaryOp)
		}
		left, err := b.operand(e.Left, scope)
		if err != nil {
			return "", err
		}
		right, err := b.operand(e.Right, scope)
		if err != nil {
			return "", err
		}
		return left + " " + symbol + " " + right, nil

	case plan.ExprFunction:
		native, ok := b.dialect.Function(e.Func)
		if !ok {
			return "", contractErrf("function", "dialect %s has no mapping for function %q", b.dialect.Name(), e.Func)
		}
		args, err := b.renderArgs(e.Args, scope)
		if err != nil {
			return "", err
		}
		// Some native mappings are templates over the argument list
		// rather than plain function names (e.g. EXTRACT syntax)
		if strings.Contains(native, "%s") {
			return strings.Replace(native, "%s", strings.Join(args, ", "), 1), nil
		}
		return native + "(" + strings.Join(args, ", ") + ")", nil

	case plan.ExprCase:
		var sb strings.Builder
		sb.WriteString("CASE")
		for _, w := range e.Whens {
			when, err := b.renderExpr(w.When, scope)
			if err != nil {
				return "", err
			}
			then, err := b.renderExpr(w.Then, scope)
			if err != nil {
				return "", err
			}
			sb.WriteString(" WHEN ")
			sb.WriteString(when)
			sb.WriteString(" THEN ")
			sb.WriteString(then)
		}
		if e.Else != nil {
			text, err := b.renderExpr(e.Else, scope)
			if err != nil {
				return "", err
			}
			sb.WriteString(" ELSE ")
			sb.WriteString(text)
		}
		sb.WriteString(" END")
		return sb.String(), nil

	case plan.ExprCast:
		typeName, ok := b.dialect.CastType(e.Type)
		if !ok {
			return "", contractErrf("cast", "dialect %s has no type name for %q", b.dialect.Name(), e.Type)
		}
		input, err := b.renderExpr(e.Input, scope)
		if err != nil {
			return "", err
		}
		return "CAST(" + input + " AS " + typeName + ")", nil

	case plan.ExprAggregate:
		native, ok := b.dialect.AggregateFunc(e.Agg)
		if !ok {
			return "", contractErrf("aggregate", "dialect %s has no mapping for aggregate %q", b.dialect.Name(), e.Agg)
		}
		if len(e.Args) == 0 {
			// COUNT with no argument is COUNT(*)
			return native + "(*)", nil
		}
		args, err := b.renderArgs(e.Args, scope)
		if err != nil {
			return "", err
		}
		if e.Distinct {
			return native + "(DISTINCT " + strings.Join(args, ", ") + ")", nil
		}
		return native + "(" + strings.Join(args, ", ") + ")", nil

	default:
		return "", contractErrf("expression", "unsupported expression kind %q", e.Kind)
	}
}

// operand renders a child expression, parenthesizing operator expressions
// so that precedence is explicit regardless of the target grammar
func (b *Builder) operand(e *plan.Expr, scope *joinScope) (string, error) {
	text, err := b.renderExpr(e, scope)
	if err != nil {
		return "", err
	}
	switch e.Kind {
	case plan.ExprUnary, plan.ExprBinary:
		return "(" + text + ")", nil
	}
	return text, nil
}

func (b *Builder) renderArgs(args []*plan.Expr, scope *joinScope) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		text, err := b.renderExpr(a, scope)
		if err != nil {
			return nil, err
		}
		out[i] = text
	}
	return out, nil
}
