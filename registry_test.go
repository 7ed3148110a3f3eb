package treelock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryGetOrCreateSameInstance(t *testing.T) {
	r := NewRegistry()
	a := r.acquireRef("x")
	b := r.acquireRef("x")
	assert.Same(t, a.lock, b.lock)
	assert.Equal(t, 2, a.refs)
}

func TestRegistryPrunesOnZeroRefs(t *testing.T) {
	r := NewRegistry()
	r.acquireRef("x")
	assert.Equal(t, 1, r.size())
	r.releaseRef("x")
	assert.Equal(t, 0, r.size())
}

// P6: at any instant, at most one strongly-reachable NodeLock per node.
func TestRegistryConcurrentGetOrCreateConverges(t *testing.T) {
	r := NewRegistry()
	const n = 64
	results := make([]*registryEntry, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i] = r.acquireRef("shared")
		}()
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		assert.Same(t, results[0].lock, results[i].lock)
	}
	assert.Equal(t, 1, r.size()) // one entry, n references
	for i := 0; i < n; i++ {
		r.releaseRef("shared")
	}
	assert.Equal(t, 0, r.size())
}
