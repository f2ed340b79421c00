package spatial_test

import (
	"encoding/json"
	"testing"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/geometry"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/spatial"

	sq "github.com/Masterminds/squirrel"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const squareJSON = `{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}`

func TestParseFilter(t *testing.T) {
	want := geometry.NewPolygon(orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}})

	quoted, err := json.Marshal(squareJSON)
	require.NoError(t, err)

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"object", squareJSON, false},
		{"string", string(quoted), false},
		{"empty", ``, true},
		{"null", `null`, true},
		{"not json", `{"type":`, true},
		{"bad string", `"{\"type\":"`, true},
		{"line string", `{"type":"LineString","coordinates":[[0,0],[1,1]]}`, true},
		{"open ring", `{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10]]]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := spatial.ParseFilter(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, spatial.ErrMalformedFilter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestPredicate_SQL(t *testing.T) {
	area, err := spatial.ParseFilter(json.RawMessage(squareJSON))
	require.NoError(t, err)

	pred, err := spatial.Build(area)
	require.NoError(t, err)

	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("id").From("todos").Where(pred).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM todos WHERE ST_Intersects(geom, ST_GeomFromEWKB($1))", query)
	require.Len(t, args, 1)

	decoded, err := geometry.Decode(args[0].([]byte))
	require.NoError(t, err)
	assert.Equal(t, area, decoded)
}

func TestPredicate_Matches(t *testing.T) {
	area, err := spatial.ParseFilter(json.RawMessage(squareJSON))
	require.NoError(t, err)
	pred, err := spatial.Build(area)
	require.NoError(t, err)

	assert.True(t, pred.Matches(geometry.NewPoint(5, 5)))
	assert.False(t, pred.Matches(geometry.NewPoint(50, 50)))
}

func TestBuild_Invalid(t *testing.T) {
	_, err := spatial.Build(geometry.Geometry{Type: geometry.TypePolygon})
	assert.ErrorIs(t, err, spatial.ErrMalformedFilter)
}
