package xsync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntMap() map[string]int { return make(map[string]int) }

func TestLeftRight_ReadSeesWrites(t *testing.T) {
	lr := NewLeftRight(newIntMap)

	read := func(key string) (value int, found bool) {
		lr.Read(func(m *map[string]int) {
			value, found = (*m)[key]
		})
		return
	}

	_, found := read("x")
	require.False(t, found)

	lr.Write(func(m *map[string]int) { (*m)["x"] = 1 })
	value, found := read("x")
	require.True(t, found)
	assert.Equal(t, 1, value)

	// A second write lands on the other copy; both must stay in sync.
	lr.Write(func(m *map[string]int) { (*m)["y"] = 2 })
	value, found = read("x")
	require.True(t, found)
	assert.Equal(t, 1, value)
	value, found = read("y")
	require.True(t, found)
	assert.Equal(t, 2, value)

	lr.Write(func(m *map[string]int) { delete(*m, "x") })
	_, found = read("x")
	assert.False(t, found)
}

// Readers racing with writers must always observe a consistent snapshot: the
// writer keeps "a" and "b" equal in every committed state, so a reader that
// ever sees them differ caught a torn write.
func TestLeftRight_NoTornReads(t *testing.T) {
	lr := NewLeftRight(newIntMap)
	lr.Write(func(m *map[string]int) {
		(*m)["a"] = 0
		(*m)["b"] = 0
	})

	const (
		numReaders       = 8
		readsPerReader   = 5000
		writerIterations = 1000
	)

	start := NewLatch()
	var wg sync.WaitGroup
	torn := make([]bool, numReaders)

	for r := range numReaders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start.Wait()
			for range readsPerReader {
				lr.Read(func(m *map[string]int) {
					if (*m)["a"] != (*m)["b"] {
						torn[r] = true
					}
				})
				if torn[r] {
					return
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		start.Wait()
		for i := 1; i <= writerIterations; i++ {
			lr.Write(func(m *map[string]int) {
				(*m)["a"] = i
				(*m)["b"] = i
			})
		}
	}()

	start.Trigger()
	wg.Wait()

	for r, sawTorn := range torn {
		assert.Falsef(t, sawTorn, "reader %d observed a torn write", r)
	}
	lr.Read(func(m *map[string]int) {
		assert.Equal(t, writerIterations, (*m)["a"])
		assert.Equal(t, writerIterations, (*m)["b"])
	})
}

func TestLeftRight_WritersSerialize(t *testing.T) {
	lr := NewLeftRight(func() []int { return nil })

	const numWriters = 4
	const writesEach = 250
	var wg sync.WaitGroup
	for range numWriters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range writesEach {
				lr.Write(func(s *[]int) { *s = append(*s, i) })
			}
		}()
	}
	wg.Wait()

	lr.Read(func(s *[]int) {
		assert.Len(t, *s, numWriters*writesEach)
	})
}

func TestLatch(t *testing.T) {
	latch := NewLatch()
	require.False(t, latch.Test())

	done := make(chan struct{})
	go func() {
		latch.Wait()
		close(done)
	}()
	latch.Trigger()
	<-done
	require.True(t, latch.Test())

	// Triggering twice is a no-op.
	latch.Trigger()
	require.True(t, latch.Test())
}

func TestSyncMap(t *testing.T) {
	var m SyncMap[string, int]

	_, found := m.Load("a")
	require.False(t, found)

	m.Store("a", 1)
	value, found := m.Load("a")
	require.True(t, found)
	assert.Equal(t, 1, value)

	actual, loaded := m.LoadOrStore("a", 10)
	assert.True(t, loaded)
	assert.Equal(t, 1, actual)
	actual, loaded = m.LoadOrStore("b", 2)
	assert.False(t, loaded)
	assert.Equal(t, 2, actual)

	value, loaded = m.LoadAndDelete("a")
	assert.True(t, loaded)
	assert.Equal(t, 1, value)
	_, found = m.Load("a")
	assert.False(t, found)

	seen := make(map[string]int)
	m.Range(func(key string, value int) bool {
		seen[key] = value
		return true
	})
	assert.Equal(t, map[string]int{"b": 2}, seen)

	m.Clear()
	_, found = m.Load("b")
	assert.False(t, found)
}
