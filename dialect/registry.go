package dialect

import (
	"fmt"
	"strings"

	"github.com/guileen/fedsql/capability"
)

// ByName returns the dialect for a configured dialect name
func ByName(name string) (*Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql":
		return Postgres(), nil
	case "mysql":
		return MySQL(), nil
	default:
		return nil, fmt.Errorf("dialect: unknown dialect %q", name)
	}
}

// ValidateSpec checks that every operator, function and aggregate the
// capability spec enumerates has a native mapping in the dialect. Run at
// backend registration so that profile and dialect stay consistent;
// translation never re-checks. A spec with All set cannot be validated
// against a fixed mapping and is rejected for dialects that do not cover
// the full logical surface only when translation is attempted.
func (d *Dialect) ValidateSpec(spec capability.Spec) error {
	if spec.All {
		return nil
	}
	var missing []string
	for _, op := range spec.BinaryOps {
		if _, ok := d.binaryOps[op]; !ok {
			missing = append(missing, fmt.Sprintf("binary operator %q", op))
		}
	}
	for _, op := range spec.UnaryOps {
		if _, ok := d.unaryOps[op]; !ok {
			missing = append(missing, fmt.Sprintf("unary operator %q", op))
		}
	}
	for _, fn := range spec.Functions {
		if _, ok := d.functions[fn]; !ok {
			missing = append(missing, fmt.Sprintf("function %q", fn))
		}
	}
	for _, j := range spec.Joins {
		if _, ok := d.joins[j]; !ok {
			missing = append(missing, fmt.Sprintf("join kind %q", j))
		}
	}
	for _, agg := range spec.Aggregates {
		if _, ok := d.aggregates[agg]; !ok {
			missing = append(missing, fmt.Sprintf("aggregate %q", agg))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("dialect %s: capability spec declares unmapped syntax: %s",
			d.name, strings.Join(missing, ", "))
	}
	return nil
}
