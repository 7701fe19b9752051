package dialect

import (
	"encoding/hex"
	"strings"

	"github.com/guileen/fedsql/plan"
	"github.com/guileen/fedsql/types"
)

// Postgres returns the PostgreSQL dialect
func Postgres() *Dialect {
	return &Dialect{
		name:            "postgres",
		quoteChar:       `"`,
		nullKeyword:     "NULL",
		trueKeyword:     "TRUE",
		falseKeyword:    "FALSE",
		datePrefix:      "DATE",
		timestampPrefix: "TIMESTAMP",
		nullOrdering:    true,
		defaultPort:     5432,
		escapeString: func(s string) string {
			return strings.ReplaceAll(s, "'", "''")
		},
		renderBinary: func(b []byte) string {
			return `'\x` + hex.EncodeToString(b) + `'`
		},
		binaryOps: map[plan.BinaryOperator]string{
			plan.OpAdd:           "+",
			plan.OpSubtract:      "-",
			plan.OpMultiply:      "*",
			plan.OpDivide:        "/",
			plan.OpModulo:        "%",
			plan.OpEqual:         "=",
			plan.OpNotEqual:      "<>",
			plan.OpLessThan:      "<",
			plan.OpLessEqual:     "<=",
			plan.OpGreaterThan:   ">",
			plan.OpGreaterEqual:  ">=",
			plan.OpNullSafeEqual: "IS NOT DISTINCT FROM",
			plan.OpAnd:           "AND",
			plan.OpOr:            "OR",
			plan.OpBitAnd:        "&",
			plan.OpBitOr:         "|",
			plan.OpBitXor:        "#",
			plan.OpLike:          "LIKE",
		},
		unaryOps: map[plan.UnaryOperator]string{
			plan.OpNot:       "NOT",
			plan.OpNegate:    "-",
			plan.OpBitNot:    "~",
			plan.OpIsNull:    "IS NULL",
			plan.OpIsNotNull: "IS NOT NULL",
		},
		functions: map[plan.FunctionName]string{
			plan.FuncAbs:       "ABS",
			plan.FuncCeil:      "CEIL",
			plan.FuncFloor:     "FLOOR",
			plan.FuncRound:     "ROUND",
			plan.FuncSqrt:      "SQRT",
			plan.FuncPower:     "POWER",
			plan.FuncLower:     "LOWER",
			plan.FuncUpper:     "UPPER",
			plan.FuncTrim:      "TRIM",
			plan.FuncLength:    "LENGTH",
			plan.FuncSubstring: "SUBSTRING",
			plan.FuncConcat:    "CONCAT",
			plan.FuncCoalesce:  "COALESCE",
			plan.FuncYear:      "EXTRACT(YEAR FROM %s)",
			plan.FuncMonth:     "EXTRACT(MONTH FROM %s)",
			plan.FuncDay:       "EXTRACT(DAY FROM %s)",
			plan.FuncMD5:       "MD5",
			plan.FuncSHA256:    "SHA256",
		},
		aggregates: map[plan.AggregateFunc]string{
			plan.AggCount: "COUNT",
			plan.AggSum:   "SUM",
			plan.AggAvg:   "AVG",
			plan.AggMin:   "MIN",
			plan.AggMax:   "MAX",
		},
		joins: map[plan.JoinKind]string{
			plan.JoinInner:      "INNER JOIN",
			plan.JoinCross:      "CROSS JOIN",
			plan.JoinLeftOuter:  "LEFT OUTER JOIN",
			plan.JoinRightOuter: "RIGHT OUTER JOIN",
			plan.JoinFullOuter:  "FULL OUTER JOIN",
		},
		castTypes: map[types.SemanticType]string{
			types.TypeBoolean:   "BOOLEAN",
			types.TypeSmallInt:  "SMALLINT",
			types.TypeInteger:   "INTEGER",
			types.TypeBigInt:    "BIGINT",
			types.TypeReal:      "REAL",
			types.TypeDouble:    "DOUBLE PRECISION",
			types.TypeDecimal:   "NUMERIC",
			types.TypeString:    "TEXT",
			types.TypeDate:      "DATE",
			types.TypeTimestamp: "TIMESTAMP",
			types.TypeBinary:    "BYTEA",
		},
	}
}
