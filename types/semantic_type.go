package types

// SemanticType represents the resolved semantic type of an attribute or expression
type SemanticType string

const (
	TypeBoolean   SemanticType = "boolean"
	TypeSmallInt  SemanticType = "smallint"
	TypeInteger   SemanticType = "integer"
	TypeBigInt    SemanticType = "bigint"
	TypeReal      SemanticType = "real"
	TypeDouble    SemanticType = "double"
	TypeDecimal   SemanticType = "decimal"
	TypeString    SemanticType = "string"
	TypeDate      SemanticType = "date"
	TypeTimestamp SemanticType = "timestamp"
	TypeBinary    SemanticType = "binary"

	// TypeNull is the type of an untyped NULL literal
	TypeNull SemanticType = "null"
)

// IsValidSemanticType checks if a semantic type is valid
func IsValidSemanticType(typ SemanticType) bool {
	switch typ {
	case TypeBoolean, TypeSmallInt, TypeInteger, TypeBigInt,
		TypeReal, TypeDouble, TypeDecimal, TypeString,
		TypeDate, TypeTimestamp, TypeBinary, TypeNull:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether the type is a numeric type
func (t SemanticType) IsNumeric() bool {
	switch t {
	case TypeSmallInt, TypeInteger, TypeBigInt, TypeReal, TypeDouble, TypeDecimal:
		return true
	default:
		return false
	}
}

// IsIntegral reports whether the type is an integer type
func (t SemanticType) IsIntegral() bool {
	switch t {
	case TypeSmallInt, TypeInteger, TypeBigInt:
		return true
	default:
		return false
	}
}
