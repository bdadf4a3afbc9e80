package schema

import "context"

// ConstraintSource derives constraint facts for an external concept.
// Implementations may consult remote catalogs; a source that cannot
// establish a fact leaves it zero-valued rather than guessing.
type ConstraintSource interface {
	Facts(ctx context.Context, conceptID string) (ConstraintFacts, error)
}
