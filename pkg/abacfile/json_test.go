package abacfile

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
)

const legacyDoc = `{
  "version": "1.0.0",
  "axes": {
    "xAxis": {"min": 0, "max": 40, "unit": "kt", "title": "Vent"},
    "yAxis": {"min": 0, "max": 1000, "unit": "m", "title": "Distance"}
  },
  "curves": [
    {"id": "c1", "name": "headwind 10", "color": "#ff0000", "points": [{"x": 0, "y": 100}, {"x": 40, "y": 300}]}
  ],
  "metadata": {"createdAt": "2024-01-01T00:00:00Z"}
}`

const systemDoc = `{
  "version": "2.0",
  "system": {
    "graphs": [
      {"id": "alt", "name": "Altitude", "curves": [
        {"id": "a1", "name": "2000 ft", "color": "#000000", "points": []}
      ]},
      {"id": "mass", "name": "Masse", "isWindRelated": false, "curves": []},
      {"id": "wind", "name": "Correction vent", "isWindRelated": false, "curves": []}
    ],
    "relationships": [
      {"from": "alt", "to": "mass"},
      {"from": "mass", "to": "wind"}
    ]
  },
  "metadata": {"systemType": "takeoff_distance", "aircraftModel": "DR400"}
}`

func TestParseLegacyDocument(t *testing.T) {
	sys, err := ParseJSON([]byte(legacyDoc))
	require.NoError(t, err)
	require.Len(t, sys.Graphs, 1)

	g := sys.Graphs[0]
	assert.Equal(t, LegacyGraphName, g.Name)
	assert.NotEmpty(t, g.ID)
	assert.True(t, g.IsWindRelated, "axis title mentions wind")
	assert.Equal(t, abac.EdgeMin, g.ReferenceEdge)
	require.Len(t, g.Curves, 1)

	c := g.Curves[0]
	require.NotNil(t, c.Parameter)
	assert.Equal(t, 10.0, *c.Parameter)
	assert.Equal(t, abac.WindHeadwind, c.WindDirection)
	assert.Equal(t, "2024-01-01T00:00:00Z", sys.Metadata.CreatedAt)
}

func TestParseSystemDocument(t *testing.T) {
	sys, err := ParseJSON([]byte(systemDoc))
	require.NoError(t, err)
	require.Len(t, sys.Graphs, 3)

	alt, ok := sys.Graph("alt")
	require.True(t, ok)
	assert.Equal(t, []string{"mass"}, alt.LinkedTo)
	require.NotNil(t, alt.Curves[0].Parameter)
	assert.Equal(t, 2000.0, *alt.Curves[0].Parameter)

	mass, _ := sys.Graph("mass")
	assert.Equal(t, []string{"alt"}, mass.LinkedFrom)
	assert.Equal(t, []string{"wind"}, mass.LinkedTo)
	assert.Equal(t, abac.EdgeMax, mass.ReferenceEdge)
	assert.NotNil(t, mass.Curves)

	wind, _ := sys.Graph("wind")
	assert.False(t, wind.IsWindRelated, "explicit flag wins over name")

	assert.Equal(t, "takeoff_distance", sys.Metadata.SystemType)
	assert.Equal(t, "DR400", sys.Metadata.AircraftModel)
}

func TestParseTopLevelGraphs(t *testing.T) {
	doc := `{"version": "2.0", "graphs": [{"id": "g", "name": "Wind effect", "curves": []}], "metadata": {}}`
	sys, err := ParseJSON([]byte(doc))
	require.NoError(t, err)
	require.Len(t, sys.Graphs, 1)
	assert.True(t, sys.Graphs[0].IsWindRelated)
}

func TestParseErrors(t *testing.T) {
	_, err := ParseJSON([]byte(`{"version": "2.0"}`))
	assert.True(t, errors.Is(err, ErrEmptyDocument))

	_, err = ParseJSON([]byte(`{`))
	assert.Error(t, err)

	bad := `{"system": {"graphs": [{"id": "a", "name": "A", "curves": []}],
	         "relationships": [{"from": "a", "to": "zz"}]}}`
	_, err = ParseJSON([]byte(bad))
	require.Error(t, err)
	assert.True(t, errors.Is(err, abac.ErrNotFound))
}

func TestSystemRoundTrip(t *testing.T) {
	sys, err := ParseJSON([]byte(systemDoc))
	require.NoError(t, err)

	data, err := ToJSON(sys, true)
	require.NoError(t, err)
	again, err := ParseJSON(data)
	require.NoError(t, err)

	assert.Equal(t, SystemVersion, again.Version)
	if diff := cmp.Diff(sys.Graphs, again.Graphs); diff != "" {
		t.Errorf("graphs changed on round trip (-want +got):\n%s", diff)
	}
	assert.Equal(t, sys.Metadata, again.Metadata)
}

func TestModelDocument(t *testing.T) {
	m, err := ParseModel([]byte(legacyDoc))
	require.NoError(t, err)
	require.Len(t, m.Curves, 1)
	assert.Equal(t, 10.0, *m.Curves[0].Parameter)

	_, err = ParseModel([]byte(`{"version": "1.0.0", "curves": []}`))
	assert.True(t, errors.Is(err, abac.ErrInvalidState))
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()

	sys, err := ParseJSON([]byte(systemDoc))
	require.NoError(t, err)
	path := filepath.Join(dir, "system.json")
	require.NoError(t, WriteFile(path, sys))
	read, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, read.Graphs, 3)

	m, err := ParseModel([]byte(legacyDoc))
	require.NoError(t, err)
	mpath := filepath.Join(dir, "chart.json")
	require.NoError(t, WriteModelFile(mpath, m))
	readModel, err := ReadModelFile(mpath)
	require.NoError(t, err)
	if diff := cmp.Diff(m, readModel); diff != "" {
		t.Errorf("model changed on round trip (-want +got):\n%s", diff)
	}

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
