// Package graph declares the fixed research phase topology and computes the
// dependency layering the executor schedules from.
package graph

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/account-intel/internal/model"
)

// Graph is a validated directed acyclic dependency graph over the fixed
// phase set. Construction fails on unknown phases or cycles; a built Graph
// is immutable and safe for concurrent reads.
type Graph struct {
	deps   map[model.PhaseName][]model.PhaseName
	layers [][]model.PhaseName
}

// New builds a Graph from a phase → direct-dependencies map. Every phase in
// the map and every referenced dependency must be a member of the fixed
// phase enumeration. Cyclic topologies are rejected.
func New(deps map[model.PhaseName][]model.PhaseName) (*Graph, error) {
	known := make(map[model.PhaseName]bool, len(model.AllPhases()))
	for _, p := range model.AllPhases() {
		known[p] = true
	}

	for phase, ds := range deps {
		if !known[phase] {
			return nil, eris.Errorf("graph: unknown phase %q", phase)
		}
		for _, d := range ds {
			if !known[d] {
				return nil, eris.Errorf("graph: phase %q depends on unknown phase %q", phase, d)
			}
			if d == phase {
				return nil, eris.Errorf("graph: phase %q depends on itself", phase)
			}
			if _, ok := deps[d]; !ok {
				return nil, eris.Errorf("graph: phase %q depends on undeclared phase %q", phase, d)
			}
		}
	}

	layers, err := layer(deps)
	if err != nil {
		return nil, err
	}

	// Defensive copy so callers cannot mutate the topology after validation.
	copied := make(map[model.PhaseName][]model.PhaseName, len(deps))
	for phase, ds := range deps {
		copied[phase] = append([]model.PhaseName(nil), ds...)
	}

	return &Graph{deps: copied, layers: layers}, nil
}

// Default returns the fixed production topology.
func Default() *Graph {
	g, err := New(map[model.PhaseName][]model.PhaseName{
		model.PhaseProfile:      nil,
		model.PhaseUnits:        {model.PhaseProfile},
		model.PhasePriorities:   {model.PhaseProfile},
		model.PhaseOpportunity:  {model.PhaseProfile},
		model.PhaseOptimization: {model.PhaseOpportunity},
		model.PhaseSynthesis: {
			model.PhaseProfile,
			model.PhasePriorities,
			model.PhaseOpportunity,
			model.PhaseOptimization,
		},
	})
	if err != nil {
		// The default topology is statically valid; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return g
}

// DependenciesOf returns the direct dependency set of a phase.
func (g *Graph) DependenciesOf(phase model.PhaseName) []model.PhaseName {
	return append([]model.PhaseName(nil), g.deps[phase]...)
}

// Phases returns every phase declared in the graph.
func (g *Graph) Phases() []model.PhaseName {
	out := make([]model.PhaseName, 0, len(g.deps))
	for p := range g.deps {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Layers returns the topological layering: phases within a layer have no
// dependency relation to each other and may run concurrently. Layer order
// respects every dependency edge.
func (g *Graph) Layers() [][]model.PhaseName {
	out := make([][]model.PhaseName, len(g.layers))
	for i, l := range g.layers {
		out[i] = append([]model.PhaseName(nil), l...)
	}
	return out
}

// layer performs Kahn's algorithm, emitting all zero-indegree phases as one
// layer per round. Leftover phases after the rounds indicate a cycle.
func layer(deps map[model.PhaseName][]model.PhaseName) ([][]model.PhaseName, error) {
	indegree := make(map[model.PhaseName]int, len(deps))
	for phase, ds := range deps {
		indegree[phase] = len(ds)
	}

	dependents := make(map[model.PhaseName][]model.PhaseName, len(deps))
	for phase, ds := range deps {
		for _, d := range ds {
			dependents[d] = append(dependents[d], phase)
		}
	}

	var layers [][]model.PhaseName
	remaining := len(deps)

	for remaining > 0 {
		var ready []model.PhaseName
		for phase, n := range indegree {
			if n == 0 {
				ready = append(ready, phase)
			}
		}
		if len(ready) == 0 {
			return nil, eris.New("graph: dependency cycle detected")
		}
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })

		for _, phase := range ready {
			delete(indegree, phase)
			remaining--
			for _, dep := range dependents[phase] {
				if _, ok := indegree[dep]; ok {
					indegree[dep]--
				}
			}
		}
		layers = append(layers, ready)
	}

	return layers, nil
}
