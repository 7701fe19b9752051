package plan

import (
	"encoding/json"
	"fmt"
)

// The tagged unions serialize with plain struct tags: Kind is the
// discriminator and unset variant fields are omitted. Literal values
// survive a round trip with JSON number semantics (integers decode as
// float64), which is acceptable for the wire surface; in-process callers
// hand plan trees over directly.

// MarshalPlan encodes a plan tree as JSON
func MarshalPlan(n *Node) ([]byte, error) {
	return json.Marshal(n)
}

// UnmarshalPlan decodes and validates a plan tree from JSON
func UnmarshalPlan(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("plan: decode: %w", err)
	}
	if err := Validate(&n); err != nil {
		return nil, err
	}
	return &n, nil
}
