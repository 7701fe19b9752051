package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guileen/fedsql/types"
)

func TestValidate(t *testing.T) {
	scan := ordersScan()

	t.Run("ValidPlan", func(t *testing.T) {
		node := Filter(
			Project(scan, []NamedExpr{
				{Name: "id", Expr: Attribute("id", types.TypeBigInt)},
				{Name: "amount", Expr: Attribute("amount", types.TypeBigInt)},
			}),
			Binary(OpGreaterThan,
				Attribute("amount", types.TypeBigInt),
				Literal(int64(100), types.TypeBigInt),
				types.TypeBoolean))
		assert.NoError(t, Validate(node))
	})

	t.Run("BareScanIsValid", func(t *testing.T) {
		assert.NoError(t, Validate(scan))
	})

	t.Run("ScanWithoutTable", func(t *testing.T) {
		err := Validate(&Node{Kind: NodeScan, Attrs: types.Schema{{Name: "x", Type: types.TypeBigInt}}})
		assert.ErrorContains(t, err, "no table")
	})

	t.Run("WrongArity", func(t *testing.T) {
		err := Validate(&Node{Kind: NodeFilter, Predicates: []*Expr{Literal(true, types.TypeBoolean)}})
		assert.ErrorContains(t, err, "children")
	})

	t.Run("UnresolvedAttribute", func(t *testing.T) {
		node := Filter(scan, Binary(OpEqual,
			Attribute("missing", types.TypeBigInt),
			Literal(int64(1), types.TypeBigInt),
			types.TypeBoolean))
		err := Validate(node)
		assert.ErrorContains(t, err, `"missing"`)
	})

	t.Run("NonBooleanPredicate", func(t *testing.T) {
		node := Filter(scan, Attribute("amount", types.TypeBigInt))
		err := Validate(node)
		assert.ErrorContains(t, err, "want boolean")
	})

	t.Run("UnresolvedExpressionType", func(t *testing.T) {
		node := Filter(scan, &Expr{Kind: ExprBinary, BinaryOp: OpEqual,
			Left:  Attribute("id", types.TypeBigInt),
			Right: Literal(int64(1), types.TypeBigInt)})
		err := Validate(node)
		assert.ErrorContains(t, err, "unresolved type")
	})

	t.Run("CrossJoinNeedsNoCondition", func(t *testing.T) {
		other := Scan("b", types.Schema{{Name: "y", Type: types.TypeBigInt}})
		assert.NoError(t, Validate(Join(scan, other, JoinCross, nil)))
		err := Validate(Join(scan, other, JoinInner, nil))
		assert.ErrorContains(t, err, "no condition")
	})

	t.Run("DuplicateJoinColumnNames", func(t *testing.T) {
		other := Scan("b", types.Schema{{Name: "id", Type: types.TypeBigInt}})
		err := Validate(Join(scan, other, JoinCross, nil))
		assert.ErrorContains(t, err, `both output column "id"`)

		renamed := SubqueryAlias(Project(other, []NamedExpr{
			{Name: "b_id", Expr: Attribute("id", types.TypeBigInt)},
		}), "b2")
		assert.NoError(t, Validate(Join(scan, renamed, JoinCross, nil)))
	})

	t.Run("EmptyAlias", func(t *testing.T) {
		err := Validate(SubqueryAlias(scan, ""))
		assert.ErrorContains(t, err, "empty alias")
	})

	t.Run("NegativeLimit", func(t *testing.T) {
		err := Validate(GlobalLimit(scan, -1))
		assert.ErrorContains(t, err, "negative limit")
	})
}

func TestPlanJSONRoundTrip(t *testing.T) {
	node := Sort(
		Filter(
			Project(ordersScan(), []NamedExpr{
				{Name: "id", Expr: Attribute("id", types.TypeBigInt)},
				{Name: "amount", Expr: Attribute("amount", types.TypeBigInt)},
			}),
			Binary(OpGreaterThan,
				Attribute("amount", types.TypeBigInt),
				Literal(int64(100), types.TypeBigInt),
				types.TypeBoolean)),
		SortKey{Expr: Attribute("amount", types.TypeBigInt), Descending: true})

	data, err := MarshalPlan(node)
	require.NoError(t, err)

	decoded, err := UnmarshalPlan(data)
	require.NoError(t, err)

	assert.Equal(t, NodeSort, decoded.Kind)
	assert.Equal(t, node.OutputSchema(), decoded.OutputSchema())
	require.Len(t, decoded.SortKeys, 1)
	assert.True(t, decoded.SortKeys[0].Descending)

	filter := decoded.Children[0]
	require.Equal(t, NodeFilter, filter.Kind)
	require.Len(t, filter.Predicates, 1)
	assert.Equal(t, OpGreaterThan, filter.Predicates[0].BinaryOp)
	// JSON numbers decode as float64; the dialect layer accepts both
	assert.Equal(t, float64(100), filter.Predicates[0].Right.Value)
}

func TestUnmarshalPlanRejectsInvalid(t *testing.T) {
	_, err := UnmarshalPlan([]byte(`{"kind":"filter"}`))
	assert.Error(t, err)

	_, err = UnmarshalPlan([]byte(`not json`))
	assert.Error(t, err)
}
