package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/account-intel/internal/model"
)

func TestDefault_Layers(t *testing.T) {
	g := Default()

	layers := g.Layers()
	require.Len(t, layers, 4)

	assert.Equal(t, []model.PhaseName{model.PhaseProfile}, layers[0])
	assert.ElementsMatch(t, []model.PhaseName{
		model.PhaseOpportunity, model.PhasePriorities, model.PhaseUnits,
	}, layers[1])
	assert.Equal(t, []model.PhaseName{model.PhaseOptimization}, layers[2])
	assert.Equal(t, []model.PhaseName{model.PhaseSynthesis}, layers[3])
}

func TestDefault_Dependencies(t *testing.T) {
	g := Default()

	assert.Empty(t, g.DependenciesOf(model.PhaseProfile))
	assert.Equal(t, []model.PhaseName{model.PhaseProfile}, g.DependenciesOf(model.PhaseUnits))
	assert.Equal(t, []model.PhaseName{model.PhaseOpportunity}, g.DependenciesOf(model.PhaseOptimization))
	assert.Len(t, g.DependenciesOf(model.PhaseSynthesis), 4)
}

func TestNew_RejectsCycle(t *testing.T) {
	_, err := New(map[model.PhaseName][]model.PhaseName{
		model.PhaseProfile:     {model.PhaseUnits},
		model.PhaseUnits:       {model.PhasePriorities},
		model.PhasePriorities:  {model.PhaseProfile},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestNew_RejectsSelfDependency(t *testing.T) {
	_, err := New(map[model.PhaseName][]model.PhaseName{
		model.PhaseProfile: {model.PhaseProfile},
	})
	require.Error(t, err)
}

func TestNew_RejectsUnknownPhase(t *testing.T) {
	_, err := New(map[model.PhaseName][]model.PhaseName{
		model.PhaseName("mystery"): nil,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown phase")
}

func TestNew_RejectsUndeclaredDependency(t *testing.T) {
	// units depends on profile but profile is not declared in the map.
	_, err := New(map[model.PhaseName][]model.PhaseName{
		model.PhaseUnits: {model.PhaseProfile},
	})
	require.Error(t, err)
}

func TestNew_ImmutableAfterBuild(t *testing.T) {
	deps := map[model.PhaseName][]model.PhaseName{
		model.PhaseProfile: nil,
		model.PhaseUnits:   {model.PhaseProfile},
	}
	g, err := New(deps)
	require.NoError(t, err)

	// Mutating the input or a returned slice must not affect the graph.
	deps[model.PhaseUnits] = nil
	got := g.DependenciesOf(model.PhaseUnits)
	require.Equal(t, []model.PhaseName{model.PhaseProfile}, got)
	got[0] = model.PhaseSynthesis
	assert.Equal(t, []model.PhaseName{model.PhaseProfile}, g.DependenciesOf(model.PhaseUnits))
}

func TestLayers_NoOrderingWithinLayer(t *testing.T) {
	g := Default()
	for _, layerPhases := range g.Layers() {
		inLayer := make(map[model.PhaseName]bool)
		for _, p := range layerPhases {
			inLayer[p] = true
		}
		for _, p := range layerPhases {
			for _, d := range g.DependenciesOf(p) {
				assert.False(t, inLayer[d], "phase %s depends on %s in the same layer", p, d)
			}
		}
	}
}
