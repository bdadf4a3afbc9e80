package schema

import (
	"fmt"

	"github.com/I14Y-ch/structure-generator/errors"
)

// NodeKind is the closed set of schema element kinds.
type NodeKind string

// NodeKind constants define the four element kinds of a structure:
//   - KindDataset: the single root element describing the dataset itself
//   - KindClass: a grouping of properties emitted as its own closed shape
//   - KindConcept: a property backed by a catalog concept
//   - KindDataElement: a plain property without catalog backing
const (
	KindDataset     NodeKind = "dataset"
	KindClass       NodeKind = "class"
	KindConcept     NodeKind = "concept"
	KindDataElement NodeKind = "data_element"
)

// Valid reports whether k is one of the four known kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindDataset, KindClass, KindConcept, KindDataElement:
		return true
	default:
		return false
	}
}

// IsProperty reports whether nodes of this kind are emitted as property
// shapes (concepts and data elements, as opposed to classes).
func (k NodeKind) IsProperty() bool {
	return k == KindConcept || k == KindDataElement
}

// String returns the wire representation of the kind.
func (k NodeKind) String() string {
	return string(k)
}

// ParseKind converts a wire string to a NodeKind, rejecting unknown values.
func ParseKind(s string) (NodeKind, error) {
	k := NodeKind(s)
	if !k.Valid() {
		return "", errors.WrapInvalid(
			fmt.Errorf("%w: %q", errors.ErrInvalidKind, s),
			"schema", "ParseKind", "unknown node kind")
	}
	return k, nil
}
