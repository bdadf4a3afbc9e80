package vocabulary

import "strings"

// NormalizeID converts a free-text title into a URI-safe path segment.
// Spaces and hyphens become underscores, parentheses are dropped and
// runs of underscores collapse to one. An empty result falls back to
// "property".
func NormalizeID(label string) string {
	return normalize(label, "property")
}

// DatasetID derives the dataset path segment from the dataset title.
// Same rules as NormalizeID, but uppercased and falling back to
// "DATASET", matching catalog convention for structure identifiers.
func DatasetID(title string) string {
	return strings.ToUpper(normalize(title, "dataset"))
}

func normalize(label, fallback string) string {
	base := strings.TrimSpace(label)
	if base == "" {
		return fallback
	}
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.ReplaceAll(base, "-", "_")
	base = strings.ReplaceAll(base, "(", "")
	base = strings.ReplaceAll(base, ")", "")
	for strings.Contains(base, "__") {
		base = strings.ReplaceAll(base, "__", "_")
	}
	base = strings.Trim(base, "_")
	if base == "" {
		return fallback
	}
	return base
}

// DatasetNamespace returns the per-dataset structure namespace the
// exported document binds as i14y:.
func DatasetNamespace(datasetID string) string {
	return I14YVocab + datasetID + "/structure/"
}

// ConceptURI returns the public description page of a catalog concept.
func ConceptURI(conceptID string) string {
	return I14YBase + "/catalog/concepts/" + conceptID + "/description"
}

// DatasetURI returns the public description page of a catalog dataset.
func DatasetURI(datasetID string) string {
	return I14YBase + "/catalog/datasets/" + datasetID + "/description"
}
