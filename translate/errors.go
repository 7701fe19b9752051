package translate

import (
	"errors"
	"fmt"
)

// ContractError reports an internal inconsistency between the capability
// profile and the dialect: an expression or operator kind reached the
// translator without dialect support despite having been marked supported.
// It is a programming-contract violation, not a user-facing error; the
// pushdown selector should have excluded the offending node.
type ContractError struct {
	Op  string
	Err error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("translation contract violation during %s: %v", e.Op, e.Err)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// IsContractError checks if an error is a translation contract error
func IsContractError(err error) bool {
	var target *ContractError
	return errors.As(err, &target)
}

func contractErrf(op, format string, args ...any) error {
	return &ContractError{Op: op, Err: fmt.Errorf(format, args...)}
}
