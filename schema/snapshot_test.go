package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serr "github.com/I14Y-ch/structure-generator/errors"
)

func TestSnapshotRoundTrip(t *testing.T) {
	g := New("Bevölkerung", "Bevölkerungsstatistik")
	ds := g.Dataset()
	cls, err := g.AddNode(KindClass, "Person", "")
	require.NoError(t, err)
	prop, err := g.AddNode(KindConcept, "Alter", "Alter in Jahren")
	require.NoError(t, err)
	prop.Datatype = "xsd:integer"
	min := "0"
	require.NoError(t, g.UpdateConstraints(prop.ID, ConstraintUpdate{MinCount: &min}))

	_, err = g.Connect(ds.ID, cls.ID)
	require.NoError(t, err)
	_, err = g.Connect(cls.ID, prop.ID)
	require.NoError(t, err)
	require.NoError(t, g.UpdateEdgeCardinality(cls.ID, prop.ID, "0..n"))

	data, err := g.MarshalSnapshot()
	require.NoError(t, err)

	restored, err := LoadSnapshot(data)
	require.NoError(t, err)

	if diff := cmp.Diff(g.Snapshot(), restored.Snapshot(),
		cmpopts.EquateEmpty(), cmp.AllowUnexported(Text{})); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	// Structural checks on the restored graph.
	assert.Equal(t, 3, restored.Len())
	rds := restored.Dataset()
	require.NotNil(t, rds)
	assert.Equal(t, ds.ID, rds.ID)
	e, err := restored.EdgeBetween(cls.ID, prop.ID)
	require.NoError(t, err)
	assert.Equal(t, "0..n", e.Cardinality)
}

func TestSnapshotRoundTripWithoutEdges(t *testing.T) {
	g := New("My Dataset", "")

	data, err := g.MarshalSnapshot()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"edges":[]`)
	assert.Contains(t, string(data), `"nodes":[`)

	restored, err := LoadSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Len())
	require.NotNil(t, restored.Dataset())
	assert.Equal(t, g.Dataset().ID, restored.Dataset().ID)
}

func TestLoadSnapshotAcceptsNullEdges(t *testing.T) {
	input := `{"version":1,"nodes":[
		{"id":"a","kind":"dataset","title":"x"}],
		"edges":null}`

	g, err := LoadSnapshot([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
}

func TestLoadSnapshotRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:  "not json",
			input: `{{`,
		},
		{
			name:    "no nodes",
			input:   `{"version":1,"nodes":[]}`,
			wantErr: serr.ErrInvalidData,
		},
		{
			name:    "unknown kind",
			input:   `{"version":1,"nodes":[{"id":"a","kind":"table","title":"x"}]}`,
			wantErr: serr.ErrInvalidData,
		},
		{
			name:    "missing dataset",
			input:   `{"version":1,"nodes":[{"id":"a","kind":"class","title":"x"}]}`,
			wantErr: serr.ErrDatasetMissing,
		},
		{
			name: "two datasets",
			input: `{"version":1,"nodes":[
				{"id":"a","kind":"dataset","title":"x"},
				{"id":"b","kind":"dataset","title":"y"}]}`,
			wantErr: serr.ErrDatasetExists,
		},
		{
			name: "dangling connection",
			input: `{"version":1,"nodes":[
				{"id":"a","kind":"dataset","title":"x","connections":["ghost"]}]}`,
			wantErr: serr.ErrNodeNotFound,
		},
		{
			name: "dangling edge endpoint",
			input: `{"version":1,"nodes":[
				{"id":"a","kind":"dataset","title":"x"}],
				"edges":[{"from":"a","to":"ghost"}]}`,
			wantErr: serr.ErrNodeNotFound,
		},
		{
			name: "unmirrored connection",
			input: `{"version":1,"nodes":[
				{"id":"a","kind":"dataset","title":"x"},
				{"id":"c1","kind":"class","title":"c1","connections":["c2"]},
				{"id":"c2","kind":"class","title":"c2"}]}`,
			wantErr: serr.ErrInvalidData,
		},
		{
			name: "edge between unconnected nodes",
			input: `{"version":1,"nodes":[
				{"id":"a","kind":"dataset","title":"x"},
				{"id":"b","kind":"concept","title":"y"}],
				"edges":[{"from":"a","to":"b"}]}`,
			wantErr: serr.ErrInvalidData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSnapshot([]byte(tt.input))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.True(t, serr.IsInvalid(err))
		})
	}
}

func TestLoadSnapshotSynthesizesMissingEdge(t *testing.T) {
	// Connected pair with no edge record: the edge appears with the
	// default cardinality, as if created by Connect.
	input := `{"version":1,"nodes":[
		{"id":"a","kind":"dataset","title":"x","connections":["b"]},
		{"id":"b","kind":"concept","title":"y","connections":["a"]}]}`

	g, err := LoadSnapshot([]byte(input))
	require.NoError(t, err)
	e, err := g.EdgeBetween("a", "b")
	require.NoError(t, err)
	assert.Equal(t, DefaultCardinality, e.Cardinality)

	// Deleting one endpoint cascades and leaves nothing dangling.
	require.NoError(t, g.DeleteNode("b"))
	assert.Empty(t, g.Dataset().Connections())
	_, err = g.EdgeBetween("a", "b")
	assert.ErrorIs(t, err, serr.ErrEdgeNotFound)
}

func TestLoadSnapshotDefaultsEdgeCardinality(t *testing.T) {
	input := `{"version":1,"nodes":[
		{"id":"a","kind":"dataset","title":"x","connections":["b"]},
		{"id":"b","kind":"concept","title":"y","connections":["a"]}],
		"edges":[{"from":"a","to":"b"}]}`

	g, err := LoadSnapshot([]byte(input))
	require.NoError(t, err)
	e, err := g.EdgeBetween("a", "b")
	require.NoError(t, err)
	assert.Equal(t, DefaultCardinality, e.Cardinality)
}
