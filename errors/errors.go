package errors

import (
	"fmt"
	"strings"

	"github.com/pontaoski/lemonc/types"
)

// SyntaxError reports the furthest point the grammar could not match.
type SyntaxError struct {
	Expected []string
	Location types.Position
}

func (e SyntaxError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("%s: syntax error", e.Location)
	}
	return fmt.Sprintf("%s: expected %s", e.Location, strings.Join(e.Expected, ", "))
}

// Line and Column are 1-based.
func (e SyntaxError) Line() int   { return e.Location.Line }
func (e SyntaxError) Column() int { return e.Location.Column }

type SemanticError struct {
	Message string
}

func (e SemanticError) Error() string {
	return e.Message
}

func Semanticf(format string, args ...interface{}) SemanticError {
	return SemanticError{Message: fmt.Sprintf(format, args...)}
}
