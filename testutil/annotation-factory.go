package testutil

import (
	"strings"

	"github.com/cs-au-dk/flow/analysis/cfg"
)

var (
	id_LIVE        = "live"
	id_NULLNESS    = "nullness"
	id_DEAD        = "dead"
	id_UNREACHABLE = "unreachable"
)

type annFactory struct{}

// Factory for creating annotation strings. Interpolate results with source
// code. Wrap multiple factory calls in the At function to concatenate multiple
// annotations on the same line and prefix with "//@ "
var Ann = annFactory{}

// Create a liveness annotation. It specifies that exactly the given variables
// are live before the annotated statement.
func (annFactory) Live(vars ...string) string {
	return id_LIVE + "(" + strings.Join(vars, ", ") + ")"
}

// Create a nullness annotation. It specifies the abstract value of the
// variable after the annotated statement.
func (annFactory) Nullness(variable, value string) string {
	return id_NULLNESS + "(" + variable + ", " + value + ")"
}

// Create a dead branch annotation for the condition on the annotated line.
func (annFactory) Dead(label cfg.Label) string {
	return id_DEAD + "(" + label.String() + ")"
}

func (annFactory) Unreachable() string {
	return id_UNREACHABLE
}

// At joins annotations into one note comment.
func At(anns ...string) string {
	return "//@ " + strings.Join(anns, ", ")
}
