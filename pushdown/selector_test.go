package pushdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guileen/fedsql/capability"
	"github.com/guileen/fedsql/plan"
	"github.com/guileen/fedsql/types"
)

func ordersScan() *plan.Node {
	return plan.Scan("orders", types.Schema{
		{Name: "id", Type: types.TypeBigInt},
		{Name: "amount", Type: types.TypeBigInt},
	})
}

func amountOver100() *plan.Expr {
	return plan.Binary(plan.OpGreaterThan,
		plan.Attribute("amount", types.TypeBigInt),
		plan.Literal(int64(100), types.TypeBigInt),
		types.TypeBoolean)
}

func scanProjectFilter() *plan.Node {
	return plan.Filter(
		plan.Project(ordersScan(), []plan.NamedExpr{
			{Name: "id", Expr: plan.Attribute("id", types.TypeBigInt)},
			{Name: "amount", Expr: plan.Attribute("amount", types.TypeBigInt)},
		}),
		amountOver100())
}

func TestSelectFullPushdown(t *testing.T) {
	decision := Select(scanProjectFilter(), capability.New(capability.Spec{All: true}))

	assert.True(t, decision.Full())
	assert.False(t, decision.None())
	assert.Nil(t, decision.Residual)
	require.Len(t, decision.Pushed, 1)
	assert.Equal(t, plan.NodeFilter, decision.Pushed[0].Kind)
}

func TestSelectPartialPushdown(t *testing.T) {
	// Backend takes scans and projections but cannot evaluate comparisons
	profile := capability.New(capability.Spec{
		Operators:   []plan.NodeKind{plan.NodeScan, plan.NodeProject},
		Expressions: []plan.ExprKind{plan.ExprAttribute},
	})
	root := scanProjectFilter()
	decision := Select(root, profile)

	assert.False(t, decision.Full())
	assert.False(t, decision.None())
	require.Len(t, decision.Pushed, 1)
	assert.Equal(t, plan.NodeProject, decision.Pushed[0].Kind)

	// Residual keeps the filter and replaces the projection with an
	// opaque leaf carrying the projection's output schema
	require.NotNil(t, decision.Residual)
	assert.Equal(t, plan.NodeFilter, decision.Residual.Kind)
	leaf := decision.Residual.Children[0]
	assert.Equal(t, plan.NodeRemoteScan, leaf.Kind)
	assert.Equal(t, "remote_0", leaf.Table)
	assert.Equal(t, decision.Pushed[0].OutputSchema(), leaf.OutputSchema())

	// Input plan is untouched
	assert.Equal(t, plan.NodeProject, root.Children[0].Kind)
}

func TestSelectFindsSubtreesBelowBlockedJoin(t *testing.T) {
	left := plan.Filter(
		plan.Scan("a", types.Schema{{Name: "id", Type: types.TypeBigInt}}),
		plan.Binary(plan.OpGreaterThan,
			plan.Attribute("id", types.TypeBigInt),
			plan.Literal(int64(0), types.TypeBigInt),
			types.TypeBoolean))
	right := plan.Scan("b", types.Schema{{Name: "id2", Type: types.TypeBigInt}})
	root := plan.Join(left, right, plan.JoinLeftOuter,
		plan.Binary(plan.OpEqual,
			plan.Attribute("id", types.TypeBigInt),
			plan.Attribute("id2", types.TypeBigInt),
			types.TypeBoolean))

	// No join support: both sides push, the join stays local
	profile := capability.New(capability.Spec{
		Operators:   []plan.NodeKind{plan.NodeScan, plan.NodeFilter},
		Expressions: []plan.ExprKind{plan.ExprAttribute, plan.ExprLiteral, plan.ExprBinary},
		BinaryOps:   []plan.BinaryOperator{plan.OpEqual, plan.OpGreaterThan},
	})
	decision := Select(root, profile)

	assert.False(t, decision.Full())
	require.Len(t, decision.Pushed, 2)
	assert.Equal(t, plan.NodeFilter, decision.Pushed[0].Kind)
	assert.Equal(t, plan.NodeScan, decision.Pushed[1].Kind)

	require.Equal(t, plan.NodeJoin, decision.Residual.Kind)
	assert.Equal(t, "remote_0", decision.Residual.Children[0].Table)
	assert.Equal(t, "remote_1", decision.Residual.Children[1].Table)
}

func TestSelectMaximality(t *testing.T) {
	// Everything is supported, so the single pushed subtree must be the
	// root rather than any smaller fragment
	profile := capability.New(capability.Spec{
		Operators:   []plan.NodeKind{plan.NodeScan, plan.NodeProject, plan.NodeFilter, plan.NodeSort},
		Expressions: []plan.ExprKind{plan.ExprAttribute, plan.ExprLiteral, plan.ExprBinary},
		BinaryOps:   []plan.BinaryOperator{plan.OpGreaterThan},
	})
	root := plan.Sort(scanProjectFilter(),
		plan.SortKey{Expr: plan.Attribute("amount", types.TypeBigInt)})
	decision := Select(root, profile)

	assert.True(t, decision.Full())
	assert.Same(t, root, decision.Pushed[0])
}

func TestSelectNone(t *testing.T) {
	profile := capability.New(capability.Spec{})
	root := scanProjectFilter()
	decision := Select(root, profile)

	assert.True(t, decision.None())
	assert.False(t, decision.Full())
	assert.Empty(t, decision.Pushed)
	assert.Equal(t, plan.NodeFilter, decision.Residual.Kind)
}

func TestSelectUnsupportedExpressionBlocksNode(t *testing.T) {
	profile := capability.New(capability.Spec{
		Operators:   []plan.NodeKind{plan.NodeScan, plan.NodeFilter},
		Expressions: []plan.ExprKind{plan.ExprAttribute, plan.ExprLiteral, plan.ExprBinary},
		BinaryOps:   []plan.BinaryOperator{plan.OpEqual},
	})
	root := plan.Filter(ordersScan(), amountOver100())
	decision := Select(root, profile)

	// The comparison operator is not declared, so only the scan pushes
	require.Len(t, decision.Pushed, 1)
	assert.Equal(t, plan.NodeScan, decision.Pushed[0].Kind)
	assert.Equal(t, plan.NodeFilter, decision.Residual.Kind)
}

func TestSelectSubqueryTransparency(t *testing.T) {
	profile := capability.New(capability.Spec{
		Operators:   []plan.NodeKind{plan.NodeScan, plan.NodeProject},
		Expressions: []plan.ExprKind{plan.ExprAttribute},
	})
	root := plan.SubqueryAlias(
		plan.Project(ordersScan(), []plan.NamedExpr{
			{Name: "id", Expr: plan.Attribute("id", types.TypeBigInt)},
		}), "o")
	decision := Select(root, profile)

	// The alias wrapper itself never blocks pushdown
	assert.True(t, decision.Full())
}

func TestSelectRemoteScanNeverPushes(t *testing.T) {
	root := plan.RemoteScan("remote_0", ordersScan().Attrs)
	decision := Select(root, capability.New(capability.Spec{All: true}))
	assert.True(t, decision.None())
	require.NotNil(t, decision.Residual)
	assert.Equal(t, plan.NodeRemoteScan, decision.Residual.Kind)
	assert.Equal(t, "remote_0", decision.Residual.Table)
}

func TestScore(t *testing.T) {
	subtree := scanProjectFilter()

	preferred := capability.New(capability.Spec{
		All:       true,
		Preferred: []plan.NodeKind{plan.NodeFilter, plan.NodeScan},
	})
	assert.Equal(t, 2, Score(subtree, preferred))

	indifferent := capability.New(capability.Spec{All: true})
	assert.Equal(t, 0, Score(subtree, indifferent))
}
