package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricMapStablePointers(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()
	a := m.Get("speed")
	a.Set(12.5)

	assert.Same(t, a, m.Get("speed"))
	assert.Equal(t, 12.5, m.Get("speed").Get())
	assert.True(t, m.Has("speed"))
	assert.False(t, m.Has("rpm"))
}

func TestMetricMapConcurrentGet(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Get("shared").Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 16000.0, m.Get("shared").Get())
}

func TestAtomicFloatMax(t *testing.T) {
	var f AtomicFloat
	assert.Equal(t, 5.0, f.Max(5))
	assert.Equal(t, 5.0, f.Max(3))
	assert.Equal(t, 7.5, f.Max(7.5))
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	assert.Empty(t, s.Load())

	s.Store("Speed: 12.3 km/h")
	assert.Equal(t, "Speed: 12.3 km/h", s.Load())

	long := "0123456789012345678901234567890123456789"
	s.Store(long)
	assert.Equal(t, long[:MaxStringLen], s.Load())
}

func TestBindAndSnapshot(t *testing.T) {
	r := NewRegistry()
	out := Bind(r)
	out.Speed.Set(42)
	out.EngineOn.Store(true)
	out.Ticks.Add(3)
	out.SpeedLabel.Store("42")

	snap := r.Snapshot()
	require.Len(t, snap, r.Len())
	assert.Equal(t, 42.0, snap[KeySpeed])
	assert.Equal(t, true, snap[KeyEngineOn])
	assert.Equal(t, int64(3), snap[KeyTicks])
	assert.Equal(t, "42", snap[KeySpeedLabel])

	assert.Same(t, out.Speed, Bind(r).Speed, "rebinding reuses cells")
}

func TestKeysSorted(t *testing.T) {
	m := NewMetricMap[AtomicString]()
	m.Get("b")
	m.Get("a")
	m.Get("c")
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
}
