package dialect

import (
	"encoding/hex"
	"strings"

	"github.com/guileen/fedsql/plan"
	"github.com/guileen/fedsql/types"
)

// MySQL returns the MySQL dialect
func MySQL() *Dialect {
	return &Dialect{
		name:            "mysql",
		quoteChar:       "`",
		nullKeyword:     "NULL",
		trueKeyword:     "TRUE",
		falseKeyword:    "FALSE",
		datePrefix:      "DATE",
		timestampPrefix: "TIMESTAMP",
		nullOrdering:    false,
		defaultPort:     3306,
		escapeString: func(s string) string {
			s = strings.ReplaceAll(s, `\`, `\\`)
			return strings.ReplaceAll(s, "'", "''")
		},
		renderBinary: func(b []byte) string {
			return "X'" + hex.EncodeToString(b) + "'"
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
			plan.OpNullSafeEqual: "<=>",
			plan.OpAnd:           "AND",
			plan.OpOr:            "OR",
			plan.OpBitAnd:        "&",
			plan.OpBitOr:         "|",
			plan.OpBitXor:        "^",
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
			plan.FuncCeil:      "CEILING",
			plan.FuncFloor:     "FLOOR",
			plan.FuncRound:     "ROUND",
			plan.FuncSqrt:      "SQRT",
			plan.FuncPower:     "POW",
			plan.FuncLower:     "LOWER",
			plan.FuncUpper:     "UPPER",
			plan.FuncTrim:      "TRIM",
			plan.FuncLength:    "CHAR_LENGTH",
			plan.FuncSubstring: "SUBSTRING",
			plan.FuncConcat:    "CONCAT",
			plan.FuncCoalesce:  "COALESCE",
			plan.FuncYear:      "YEAR",
			plan.FuncMonth:     "MONTH",
			plan.FuncDay:       "DAY",
			plan.FuncMD5:       "MD5",
			plan.FuncSHA256:    "SHA2(%s, 256)",
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
		},
		castTypes: map[types.SemanticType]string{
			types.TypeBoolean:   "UNSIGNED",
			types.TypeSmallInt:  "SIGNED",
			types.TypeInteger:   "SIGNED",
			types.TypeBigInt:    "SIGNED",
			types.TypeReal:      "FLOAT",
			types.TypeDouble:    "DOUBLE",
			types.TypeDecimal:   "DECIMAL(38, 9)",
			types.TypeString:    "CHAR",
			types.TypeDate:      "DATE",
			types.TypeTimestamp: "DATETIME",
			types.TypeBinary:    "BINARY",
		},
	}
}
