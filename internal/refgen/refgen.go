// Package refgen produces short human-facing booking references.
package refgen

import (
	"strings"

	"github.com/google/uuid"
)

// Length of a booking reference in characters.
const Length = 8

// Generator mints 8-character uppercase references from a cryptographically
// random UUID prefix (e.g. "F8A9C1D2"). Collision probability is negligible
// at expected volumes, but uniqueness is still enforced by the storage layer;
// callers retry generation on a duplicate rather than failing the booking.
type Generator struct{}

// New returns a Generator.
func New() *Generator { return &Generator{} }

// Generate returns a new reference.
func (g *Generator) Generate() string {
	return strings.ToUpper(uuid.NewString()[:Length])
}
