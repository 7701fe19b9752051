package translate

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// VerifyPostgres parses generated SQL with the PostgreSQL grammar and
// reports syntax errors. Used by the explain API in debug mode and by
// tests; translation itself never depends on it.
func VerifyPostgres(sql string) error {
	result, err := pg_query.Parse(sql)
	if err != nil {
		return fmt.Errorf("translate: generated SQL failed to parse: %w", err)
	}
	if len(result.Stmts) != 1 {
		return fmt.Errorf("translate: generated SQL parsed to %d statements, want 1", len(result.Stmts))
	}
	return nil
}
