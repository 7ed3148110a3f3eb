package treelock

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// claim is one node's derived mode before it's been resolved against
// the Registry.
type claim struct {
	node Node
	mode Mode
}

// deriveClaims implements spec.md §4.3: it folds the read and write
// sets, plus their implied ancestor claims, into at most one claim per
// node, always the strongest applicable mode for that node, with the
// W-ancestor/R overlap resolved to the ReadAndWriteAncestor composite
// rather than silently dropped (see SPEC_FULL.md §3).
func deriveClaims(read, write []Node) map[any]claim {
	claims := make(map[any]claim)

	// Group 1: write targets themselves.
	for _, n := range write {
		claims[n.Key()] = claim{node: n, mode: Write}
	}

	// Group 2 (partial): ancestors of write targets, minus the write
	// targets themselves. Recorded now, finalized as WriteAncestor
	// below once we know which of them also got promoted to the
	// composite by group 3.
	ancestorOfWrite := make(map[any]Node)
	for _, n := range write {
		for _, a := range n.Ancestors() {
			k := a.Key()
			if _, isWrite := claims[k]; isWrite {
				continue
			}
			ancestorOfWrite[k] = a
		}
	}

	// Group 3: read targets not already covered by group 1 or 2 — but
	// a read target that IS an ancestor-of-write is promoted to the
	// ReadAndWriteAncestor composite instead of being dropped.
	readOnly := make(map[any]Node)
	for _, n := range read {
		k := n.Key()
		if _, isWrite := claims[k]; isWrite {
			continue // R2: same node in both sets behaves as write-only.
		}
		if _, isAncestorOfWrite := ancestorOfWrite[k]; isAncestorOfWrite {
			claims[k] = claim{node: n, mode: ReadAndWriteAncestor}
			delete(ancestorOfWrite, k)
			continue
		}
		readOnly[k] = n
		claims[k] = claim{node: n, mode: Read}
	}

	// Finalize group 2: whatever's left in ancestorOfWrite gets WA.
	for k, n := range ancestorOfWrite {
		claims[k] = claim{node: n, mode: WriteAncestor}
	}

	// Group 4: ancestors of the plain-read set, minus everything
	// already claimed at a mode at least as strong.
	for _, n := range readOnly {
		for _, a := range n.Ancestors() {
			k := a.Key()
			if _, already := claims[k]; already {
				continue
			}
			claims[k] = claim{node: a, mode: ReadAncestor}
		}
	}

	return claims
}

type resolvedClaim struct {
	key   any
	entry *registryEntry
	mode  Mode
}

type acquiredClaim struct {
	key    any
	handle handle
}

// state mirrors spec.md §3's TreeRequest lifecycle. It's recorded for
// inspection only; nothing reads or branches on it.
type state int

const (
	stateNew state = iota
	stateAcquiring
	stateHeld
	stateReleasing
	stateFailed
	stateReleased
)

// Request is one scoped combined acquisition, returned by
// TreeLock.Scope. Close releases every claim it holds, exactly once,
// regardless of whether acquisition fully succeeded.
type Request struct {
	ID uuid.UUID

	registry *Registry
	resolved []resolvedClaim
	acquired []acquiredClaim

	mu        sync.Mutex
	state     state
	closeOnce sync.Once
}

// Fields implements DebugStruct for logging.
func (r *Request) Fields() map[string]any {
	return map[string]any{
		"request_id": r.ID,
		"claims":     len(r.resolved),
	}
}

// String lets a Request stand in for itself in a format string the
// way the teacher's own DebugXxx types do: it composes Fields through
// JoinDebugStructFields rather than re-deriving a one-off layout.
func (r *Request) String() string {
	return "Request{ " + JoinDebugStructFields(r) + " }"
}

var _ DebugStruct = (*Request)(nil)

func newRequest(registry *Registry) *Request {
	return &Request{ID: uuid.New(), registry: registry, state: stateNew}
}

// acquire resolves every derived claim against the Registry, sorts
// them into the single global order (ascending Registry sequence
// number — see Registry's doc comment), and acquires them in that
// order. On any failure it releases everything already acquired, and
// every Registry reference taken, before returning.
func (r *Request) acquire(ctx context.Context, claims map[any]claim) error {
	r.mu.Lock()
	r.state = stateAcquiring
	r.mu.Unlock()

	r.resolved = make([]resolvedClaim, 0, len(claims))
	for k, c := range claims {
		r.resolved = append(r.resolved, resolvedClaim{
			key:   k,
			entry: r.registry.acquireRef(k),
			mode:  c.mode,
		})
	}
	sort.Slice(r.resolved, func(i, j int) bool {
		return r.resolved[i].entry.seq < r.resolved[j].entry.seq
	})

	for _, rc := range r.resolved {
		h, err := rc.entry.lock.acquire(ctx, rc.mode)
		if err != nil {
			r.mu.Lock()
			r.state = stateFailed
			r.mu.Unlock()
			r.closeOnce.Do(r.release)
			return errors.Wrap(err, "acquire tree lock")
		}
		r.acquired = append(r.acquired, acquiredClaim{key: rc.key, handle: h})
	}

	r.mu.Lock()
	r.state = stateHeld
	r.mu.Unlock()
	return nil
}

// Close releases every claim this Request holds, in reverse
// acquisition order, and drops every Registry reference it took.
// Calling Close more than once, or on a Request whose acquire failed
// partway, is a no-op beyond the first call.
func (r *Request) Close() {
	r.closeOnce.Do(r.release)
}

func (r *Request) release() {
	r.mu.Lock()
	r.state = stateReleasing
	r.mu.Unlock()

	for i := len(r.acquired) - 1; i >= 0; i-- {
		r.acquired[i].handle.release()
	}
	for _, rc := range r.resolved {
		r.registry.releaseRef(rc.key)
	}

	r.mu.Lock()
	r.state = stateReleased
	r.mu.Unlock()
}
