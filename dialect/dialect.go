// Package dialect describes the syntax rules of one target query
// language: identifier quoting, literal formatting per semantic type, and
// the mapping from logical operator/function names to native syntax.
// Dialects are immutable values constructed once per target language.
package dialect

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/guileen/fedsql/plan"
	"github.com/guileen/fedsql/types"
)

// Dialect is a pure description of a target query language. No state.
type Dialect struct {
	name            string
	quoteChar       string
	nullKeyword     string
	trueKeyword     string
	falseKeyword    string
	datePrefix      string
	timestampPrefix string
	nullOrdering    bool
	defaultPort     int

	escapeString func(string) string
	renderBinary func([]byte) string

	binaryOps  map[plan.BinaryOperator]string
	unaryOps   map[plan.UnaryOperator]string
	functions  map[plan.FunctionName]string
	aggregates map[plan.AggregateFunc]string
	castTypes  map[types.SemanticType]string
	joins      map[plan.JoinKind]string
}

// Name returns the dialect identifier
func (d *Dialect) Name() string {
	return d.name
}

// DefaultPort returns the protocol default port of the backend this
// dialect targets
func (d *Dialect) DefaultPort() int {
	return d.defaultPort
}

// SupportsNullOrdering reports whether the dialect accepts explicit
// NULLS FIRST / NULLS LAST in ORDER BY
func (d *Dialect) SupportsNullOrdering() bool {
	return d.nullOrdering
}

// QuoteIdentifier quotes an identifier, doubling any embedded quote
// characters
func (d *Dialect) QuoteIdentifier(name string) string {
	return d.quoteChar + strings.ReplaceAll(name, d.quoteChar, d.quoteChar+d.quoteChar) + d.quoteChar
}

// NullKeyword returns the dialect's NULL keyword
func (d *Dialect) NullKeyword() string {
	return d.nullKeyword
}

// BinaryOp returns the native infix symbol for a logical binary operator
func (d *Dialect) BinaryOp(op plan.BinaryOperator) (string, bool) {
	s, ok := d.binaryOps[op]
	return s, ok
}

// UnaryOp returns the native symbol for a logical unary operator
func (d *Dialect) UnaryOp(op plan.UnaryOperator) (string, bool) {
	s, ok := d.unaryOps[op]
	return s, ok
}

// Function returns the native name for a logical scalar function
func (d *Dialect) Function(fn plan.FunctionName) (string, bool) {
	s, ok := d.functions[fn]
	return s, ok
}

// AggregateFunc returns the native name for a logical aggregate function
func (d *Dialect) AggregateFunc(agg plan.AggregateFunc) (string, bool) {
	s, ok := d.aggregates[agg]
	return s, ok
}

// JoinSyntax returns the native join keyword sequence for a join kind
func (d *Dialect) JoinSyntax(kind plan.JoinKind) (string, bool) {
	s, ok := d.joins[kind]
	return s, ok
}

// CastType returns the native type name used in CAST expressions for a
// semantic type
func (d *Dialect) CastType(typ types.SemanticType) (string, bool) {
	s, ok := d.castTypes[typ]
	return s, ok
}

// Literal renders a typed literal value in the dialect's native syntax.
// A nil value renders as the NULL keyword regardless of type.
func (d *Dialect) Literal(typ types.SemanticType, value any) (string, error) {
	if value == nil {
		return d.nullKeyword, nil
	}
	switch typ {
	case types.TypeNull:
		return d.nullKeyword, nil
	case types.TypeString:
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("dialect %s: string literal holds %T", d.name, value)
		}
		return "'" + d.escapeString(s) + "'", nil
	case types.TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return "", fmt.Errorf("dialect %s: boolean literal holds %T", d.name, value)
		}
		if b {
			return d.trueKeyword, nil
		}
		return d.falseKeyword, nil
	case types.TypeSmallInt, types.TypeInteger, types.TypeBigInt:
		i, err := toInt64(value)
		if err != nil {
			return "", fmt.Errorf("dialect %s: %s literal: %w", d.name, typ, err)
		}
		return strconv.FormatInt(i, 10), nil
	case types.TypeReal, types.TypeDouble:
		f, err := toFloat64(value)
		if err != nil {
			return "", fmt.Errorf("dialect %s: %s literal: %w", d.name, typ, err)
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case types.TypeDecimal:
		// Decimals travel as strings to avoid float rounding
		switch v := value.(type) {
		case string:
			return v, nil
		default:
			f, err := toFloat64(value)
			if err != nil {
				return "", fmt.Errorf("dialect %s: decimal literal: %w", d.name, err)
			}
			return strconv.FormatFloat(f, 'g', -1, 64), nil
		}
	case types.TypeDate:
		s, err := temporalString(value, "2006-01-02")
		if err != nil {
			return "", fmt.Errorf("dialect %s: date literal: %w", d.name, err)
		}
		return d.datePrefix + " '" + d.escapeString(s) + "'", nil
	case types.TypeTimestamp:
		s, err := temporalString(value, "2006-01-02 15:04:05")
		if err != nil {
			return "", fmt.Errorf("dialect %s: timestamp literal: %w", d.name, err)
		}
		return d.timestampPrefix + " '" + d.escapeString(s) + "'", nil
	case types.TypeBinary:
		b, ok := value.([]byte)
		if !ok {
			return "", fmt.Errorf("dialect %s: binary literal holds %T", d.name, value)
		}
		return d.renderBinary(b), nil
	default:
		return "", fmt.Errorf("dialect %s: no literal rendering for type %q", d.name, typ)
	}
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		// JSON-decoded plans carry integers as float64
		i := int64(v)
		if float64(i) != v {
			return 0, fmt.Errorf("value %v is not integral", v)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("value holds %T, want integer", value)
	}
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("value holds %T, want float", value)
	}
}

func temporalString(value any, layout string) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case time.Time:
		return v.UTC().Format(layout), nil
	default:
		return "", fmt.Errorf("value holds %T, want string or time.Time", value)
	}
}
