package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTopoOrderDeterministicTieBreak(t *testing.T) {
	t.Parallel()

	g := newMultigraph()
	g.addNode("b")
	g.addNode("a")
	g.addNode("c")

	order, err := topoOrder(g)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a", "c"}, order, "ties break on schema insertion order")
}

func TestTopoOrderRespectsEdges(t *testing.T) {
	t.Parallel()

	g := newMultigraph()
	g.addNode("a")
	g.addNode("b")
	g.addNode("c")
	g.addEdge("a", "b", "O", "I")
	g.addEdge("b", "c", "O", "I")

	order, err := topoOrder(g)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestDetectCycleIgnoresParallelEdges(t *testing.T) {
	t.Parallel()

	g := newMultigraph()
	g.addNode("a")
	g.addNode("b")
	g.addEdge("a", "b", "O1", "I1")
	g.addEdge("a", "b", "O2", "I2")

	require.Nil(t, detectCycle(g))
}

func TestDetectCycleFindsCycle(t *testing.T) {
	t.Parallel()

	g := newMultigraph()
	g.addNode("a")
	g.addNode("b")
	g.addEdge("a", "b", "O", "I")
	g.addEdge("b", "a", "O", "I")

	cycle := detectCycle(g)
	require.NotEmpty(t, cycle)
}
