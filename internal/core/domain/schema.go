package domain

import (
	"fmt"
	"strings"
)

// ErrSchemaViolation is returned when a request body does not conform to its
// JSON schema. Errors holds one message per failing keyword.
type ErrSchemaViolation struct {
	Errors []string
}

func (e *ErrSchemaViolation) Error() string {
	return fmt.Sprintf("schema validation failed: %s", strings.Join(e.Errors, "; "))
}
