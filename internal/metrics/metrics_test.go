package metrics

import (
	"strings"
	"testing"

	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/internal/spatial"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource []domain.WorldSummary

func (s staticSource) Summaries() []domain.WorldSummary { return s }

func TestTreeCollector(t *testing.T) {
	world := domain.NewGameWorld(3, 16, 16, 1)
	world.SetTerrain(spatial.Rect{W: 16, H: 16}, domain.TerrainFloor)
	world.SetTerrain(spatial.Rect{X: 3, Y: 3, W: 1, H: 1}, domain.TerrainWall)
	world.Spatial.Insert(1, 0, 0)
	world.Spatial.Insert(2, 15, 15)
	world.Spatial.Insert(3, 100, 100) // рост индекса

	c := NewTreeCollector(staticSource{world.Summary()})

	// 3 дерева × (nodes, leaves, depth) + elements + growths
	assert.Equal(t, 11, testutil.CollectAndCount(c))

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	expected := `
# HELP neon_tree_elements The number of indexed entities.
# TYPE neon_tree_elements gauge
neon_tree_elements{level="3",tree="entities",world_id="` + world.ID.String() + `"} 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "neon_tree_elements"))

	growths := testutil.CollectAndCount(c, "neon_tree_growths")
	assert.Equal(t, 1, growths)
}

func TestTreeCollector_Empty(t *testing.T) {
	c := NewTreeCollector(staticSource{})
	assert.Equal(t, 0, testutil.CollectAndCount(c))
}

func TestInstrumentTurn(t *testing.T) {
	before := testutil.ToFloat64(turnsTotal.With(prometheus.Labels{worldLabel: "w1", outcomeLabel: OutcomeMoved}))
	InstrumentTurn("w1", OutcomeMoved)
	InstrumentTurn("w1", OutcomeMoved)
	InstrumentTurn("w1", OutcomeBlocked)

	after := testutil.ToFloat64(turnsTotal.With(prometheus.Labels{worldLabel: "w1", outcomeLabel: OutcomeMoved}))
	assert.Equal(t, before+2, after)

	InstrumentTick("w1", 0.001)
	assert.Equal(t, 1.0, testutil.ToFloat64(ticksTotal.With(prometheus.Labels{worldLabel: "w1"})))
}

func TestInstrumentStream(t *testing.T) {
	before := testutil.ToFloat64(streamClients)
	InstrumentStreamConnect()
	InstrumentStreamConnect()
	InstrumentStreamDisconnect()
	assert.Equal(t, before+1, testutil.ToFloat64(streamClients))
}
