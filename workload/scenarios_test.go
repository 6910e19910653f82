package workload

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memsim/memsim/sim"
)

func TestSequentialScenario(t *testing.T) {
	trace := SequentialScenario(10, 128)

	require.Len(t, trace, 10)
	for i, op := range trace {
		assert.Equal(t, sim.Read, op.Kind)
		assert.Equal(t, uint64(i)*128, op.Address)
	}
}

func TestHotSetScenario_StaysWithinDistinctLines(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	trace := HotSetScenario(rng, 1000, 64, 128)

	require.Len(t, trace, 1000)
	seen := make(map[uint64]bool)
	for _, op := range trace {
		require.Equal(t, sim.Read, op.Kind)
		seen[op.Address/128] = true
	}
	assert.LessOrEqual(t, len(seen), 64)
}

func TestScatterScenario_RangeBound(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	trace := ScatterScenario(rng, 500, 100, 128)

	require.Len(t, trace, 500)
	for _, op := range trace {
		line := op.Address / 128
		assert.Less(t, line, uint64(100))
	}
}

func TestDisarmScenario_TwoSequentialRunsWithGap(t *testing.T) {
	trace := DisarmScenario(0, 10, 4096, 128)

	require.Len(t, trace, 20)
	for i := 0; i < 9; i++ {
		assert.Equal(t, trace[i].Address+128, trace[i+1].Address)
	}
	gap := trace[10].Address - trace[9].Address
	assert.Greater(t, gap, uint64(128))
	for i := 10; i < 19; i++ {
		assert.Equal(t, trace[i].Address+128, trace[i+1].Address)
	}
}

func TestMix_ProducesRequestedLength(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := SequentialScenario(200, 128)
	b := ScatterScenario(rng, 200, 50, 128)

	out := Mix(rng, 300, []ScenarioWeight{
		{Name: "seq", Trace: a, Weight: 0.7},
		{Name: "scatter", Trace: b, Weight: 0.3},
	})

	assert.Len(t, out, 300)
}

func TestMix_EmptyInputsYieldNil(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	assert.Nil(t, Mix(rng, 10, nil))
	assert.Nil(t, Mix(rng, 0, []ScenarioWeight{{Name: "x", Trace: SequentialScenario(5, 128), Weight: 1}}))
}
