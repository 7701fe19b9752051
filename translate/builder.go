// Package translate converts a pushable logical plan subtree into a
// single dialect-specific SQL statement. Translation is a pure function
// of the plan tree and the dialect; the same inputs always yield the same
// query text.
package translate

import (
	"strconv"
	"strings"

	"github.com/guileen/fedsql/dialect"
	"github.com/guileen/fedsql/plan"
	"github.com/guileen/fedsql/types"
)

// Result is the translated query text plus the output schema the query
// produces. The schema is derived exactly as the logical plan derives its
// own output attributes, so the host can trust it without re-deriving.
type Result struct {
	SQL    string       `json:"sql"`
	Schema types.Schema `json:"schema"`
}

// Builder renders plan subtrees for one dialect. A Builder is cheap to
// create and not safe for concurrent use; create one per translation.
type Builder struct {
	dialect *dialect.Dialect
	aliasN  int
}

// NewBuilder creates a builder for the given dialect
func NewBuilder(d *dialect.Dialect) *Builder {
	return &Builder{dialect: d}
}

// Build translates a pushable subtree into a single SQL statement
func Build(n *plan.Node, d *dialect.Dialect) (Result, error) {
	return NewBuilder(d).Build(n)
}

// Build translates a pushable subtree into a single SQL statement
func (b *Builder) Build(n *plan.Node) (Result, error) {
	q, err := b.buildNode(n)
	if err != nil {
		return Result{}, err
	}
	return Result{SQL: b.render(q), Schema: q.schema}, nil
}

// query accumulates the clauses of one SELECT statement. Operators merge
// into the current statement when the merge preserves semantics and wrap
// it into a derived table otherwise.
type query struct {
	sel     []string
	from    string
	where   []string
	groupBy []string
	orderBy []string
	limit   *int64
	schema  types.Schema

	// selSimple means sel is unset or pure column pruning, so clauses
	// merged above it may still reference base columns by name
	selSimple bool
}

func (b *Builder) buildNode(n *plan.Node) (*query, error) {
	switch n.Kind {
	case plan.NodeScan:
		return &query{from: b.tableRef(n), schema: n.Attrs, selSimple: true}, nil

	case plan.NodeRemoteScan:
		return nil, contractErrf("scan", "remote scan leaf cannot be translated; it marks an already-delegated subtree")

	case plan.NodeSubquery:
		return b.buildNode(n.Children[0])

	case plan.NodeSubqueryAlias:
		child, err := b.buildNode(n.Children[0])
		if err != nil {
			return nil, err
		}
		return b.wrapAs(child, n.Alias), nil

	case plan.NodeProject:
		q, err := b.buildNode(n.Children[0])
		if err != nil {
			return nil, err
		}
		if q.sel != nil || q.groupBy != nil {
			q = b.wrap(q)
		}
		sel := make([]string, len(n.Projections))
		for i, p := range n.Projections {
			text, err := b.renderExpr(p.Expr, nil)
			if err != nil {
				return nil, err
			}
			if !isPlainColumn(p) {
				text += " AS " + b.dialect.QuoteIdentifier(p.Name)
			}
			sel[i] = text
		}
		q.sel = sel
		q.selSimple = isColumnPruning(n.Projections)
		q.schema = n.OutputSchema()
		return q, nil

	case plan.NodeFilter:
		q, err := b.buildNode(n.Children[0])
		if err != nil {
			return nil, err
		}
		if (q.sel != nil && !q.selSimple) || q.groupBy != nil || q.limit != nil {
			q = b.wrap(q)
		}
		for _, p := range n.Predicates {
			text, err := b.renderExpr(p, nil)
			if err != nil {
				return nil, err
			}
			if len(n.Predicates) > 1 && isOperatorExpr(p) {
				text = "(" + text + ")"
			}
			q.where = append(q.where, text)
		}
		return q, nil

	case plan.NodeAggregate:
		q, err := b.buildNode(n.Children[0])
		if err != nil {
			return nil, err
		}
		if (q.sel != nil && !q.selSimple) || q.groupBy != nil || len(q.orderBy) > 0 || q.limit != nil {
			q = b.wrap(q)
		}
		sel := make([]string, len(n.Aggregations))
		for i, a := range n.Aggregations {
			text, err := b.renderExpr(a.Expr, nil)
			if err != nil {
				return nil, err
			}
			if !isPlainColumn(a) {
				text += " AS " + b.dialect.QuoteIdentifier(a.Name)
			}
			sel[i] = text
		}
		groupBy := make([]string, len(n.GroupBy))
		for i, g := range n.GroupBy {
			text, err := b.renderExpr(g, nil)
			if err != nil {
				return nil, err
			}
			groupBy[i] = text
		}
		q.sel = sel
		q.selSimple = false
		q.groupBy = groupBy
		q.schema = n.OutputSchema()
		return q, nil

	case plan.NodeSort:
		q, err := b.buildNode(n.Children[0])
		if err != nil {
			return nil, err
		}
		// ORDER BY expressions resolve against FROM columns; only a bare
		// output name may reference a SELECT alias. An expression key over
		// a computed projection needs the aliases as real columns.
		if q.limit != nil || (q.sel != nil && !q.selSimple && !bareSortKeys(n.SortKeys)) {
			q = b.wrap(q)
		}
		orderBy := make([]string, len(n.SortKeys))
		for i, k := range n.SortKeys {
			text, err := b.renderExpr(k.Expr, nil)
			if err != nil {
				return nil, err
			}
			if k.Descending {
				text += " DESC"
			} else {
				text += " ASC"
			}
			if b.dialect.SupportsNullOrdering() {
				if k.NullsFirst {
					text += " NULLS FIRST"
				} else {
					text += " NULLS LAST"
				}
			}
			orderBy[i] = text
		}
		// An outer sort defines the final order; any inner ordering is
		// superseded
		q.orderBy = orderBy
		return q, nil

	case plan.NodeGlobalLimit, plan.NodeLocalLimit:
		child := n.Children[0]
		q, err := b.buildNode(child)
		if err != nil {
			return nil, err
		}
		limit := n.Limit
		if q.limit != nil {
			if child.Kind == plan.NodeGlobalLimit || child.Kind == plan.NodeLocalLimit {
				// Directly nested local/global limits collapse into a
				// single LIMIT clause, no double limiting
				if *q.limit < limit {
					limit = *q.limit
				}
			} else {
				q = b.wrap(q)
			}
		}
		q.limit = &limit
		return q, nil

	case plan.NodeJoin:
		return b.buildJoin(n)

	default:
		return nil, contractErrf("plan", "unsupported operator kind %q", n.Kind)
	}
}

func (b *Builder) buildJoin(n *plan.Node) (*query, error) {
	syntax, ok := b.dialect.JoinSyntax(n.JoinType)
	if !ok {
		return nil, contractErrf("join", "dialect %s has no syntax for join kind %q", b.dialect.Name(), n.JoinType)
	}
	left, leftPrefix, err := b.joinSide(n.Children[0])
	if err != nil {
		return nil, err
	}
	right, rightPrefix, err := b.joinSide(n.Children[1])
	if err != nil {
		return nil, err
	}
	from := left + " " + syntax + " " + right
	if n.Condition != nil {
		scope := &joinScope{
			leftPrefix:  leftPrefix,
			rightPrefix: rightPrefix,
			left:        nameSet(n.Children[0].OutputSchema()),
			right:       nameSet(n.Children[1].OutputSchema()),
		}
		cond, err := b.renderExpr(n.Condition, scope)
		if err != nil {
			return nil, err
		}
		from += " ON " + cond
	}
	// selSimple stays false: clauses above a join always wrap so that
	// attribute references cannot turn ambiguous between the two sides
	return &query{from: from, schema: n.OutputSchema()}, nil
}

// joinSide renders one join input as a table factor and returns the
// quoted prefix that qualifies its columns
func (b *Builder) joinSide(n *plan.Node) (string, string, error) {
	if n.Kind == plan.NodeScan {
		return b.tableRef(n), b.dialect.QuoteIdentifier(n.Table), nil
	}
	if n.Kind == plan.NodeSubqueryAlias {
		child, err := b.buildNode(n.Children[0])
		if err != nil {
			return "", "", err
		}
		quoted := b.dialect.QuoteIdentifier(n.Alias)
		return "(" + b.render(child) + ") AS " + quoted, quoted, nil
	}
	q, err := b.buildNode(n)
	if err != nil {
		return "", "", err
	}
	alias := b.nextAlias()
	quoted := b.dialect.QuoteIdentifier(alias)
	return "(" + b.render(q) + ") AS " + quoted, quoted, nil
}

// wrap renders the accumulated statement and restarts clause collection
// with the rendered text as a derived table
func (b *Builder) wrap(q *query) *query {
	return b.wrapAs(q, b.nextAlias())
}

func (b *Builder) wrapAs(q *query, alias string) *query {
	from := "(" + b.render(q) + ") AS " + b.dialect.QuoteIdentifier(alias)
	return &query{from: from, schema: q.schema, selSimple: true}
}

func (b *Builder) nextAlias() string {
	alias := "t" + strconv.Itoa(b.aliasN)
	b.aliasN++
	return alias
}

func (b *Builder) tableRef(n *plan.Node) string {
	if n.Qualifier != "" {
		return b.dialect.QuoteIdentifier(n.Qualifier) + "." + b.dialect.QuoteIdentifier(n.Table)
	}
	return b.dialect.QuoteIdentifier(n.Table)
}

func (b *Builder) render(q *query) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if q.sel != nil {
		sb.WriteString(strings.Join(q.sel, ", "))
	} else {
		for i, a := range q.schema {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(b.dialect.QuoteIdentifier(a.Name))
		}
	}
	sb.WriteString(" FROM ")
	sb.WriteString(q.from)
	if len(q.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(q.where, " AND "))
	}
	if len(q.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(q.groupBy, ", "))
	}
	if len(q.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(q.orderBy, ", "))
	}
	if q.limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.FormatInt(*q.limit, 10))
	}
	return sb.String()
}

// isPlainColumn reports whether a named expression is a bare attribute
// reference keeping its own name, which needs no AS clause
func isPlainColumn(p plan.NamedExpr) bool {
	return p.Expr.Kind == plan.ExprAttribute && p.Expr.Name == p.Name
}

// isColumnPruning reports whether a projection only selects existing
// columns under their own names
func isColumnPruning(projections []plan.NamedExpr) bool {
	for _, p := range projections {
		if !isPlainColumn(p) {
			return false
		}
	}
	return true
}

func isOperatorExpr(e *plan.Expr) bool {
	return e.Kind == plan.ExprUnary || e.Kind == plan.ExprBinary
}

// bareSortKeys reports whether every sort key is a plain attribute
// reference
func bareSortKeys(keys []plan.SortKey) bool {
	for _, k := range keys {
		if k.Expr.Kind != plan.ExprAttribute {
			return false
		}
	}
	return true
}

func nameSet(s types.Schema) map[string]struct{} {
	set := make(map[string]struct{}, len(s))
	for _, a := range s {
		set[a.Name] = struct{}{}
	}
	return set
}
