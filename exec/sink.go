package exec

import (
	"context"
	"fmt"
	"strings"

	"github.com/guileen/fedsql/types"
)

// DestinationConfig identifies where a sink writer delivers rows
type DestinationConfig struct {
	Table           string            `json:"table"`
	RequiredColumns []string          `json:"required_columns,omitempty"`
	Options         map[string]string `json:"options,omitempty"`
}

// Writer is the sink-writer collaborator contract. Implementations own
// per-row delivery guarantees and resource cleanup; this core only
// defines the interface the host consumes.
type Writer interface {
	Write(ctx context.Context, rows RowIterator, dest DestinationConfig) error
}

// ValidateSchema checks that a result schema carries every column the
// destination requires. Run before any rows flow; a missing column is a
// configuration error.
func ValidateSchema(attrs types.Schema, requiredColumns []string) error {
	var missing []string
	for _, col := range requiredColumns {
		if !attrs.Contains(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("exec: output schema is missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
