package schema

// Edge records the cardinality of a directed connection between two
// nodes. The connection itself is stored symmetrically on the nodes; a
// single Edge covers both directions.
type Edge struct {
	ID          string
	From        string
	To          string
	Cardinality string
}

// EdgeID builds the canonical edge key for a from/to pair. The key is
// direction-sensitive; lookups try both orders.
func EdgeID(from, to string) string {
	return from + "-" + to
}
