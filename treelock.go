package treelock

import (
	"context"
	"fmt"

	"github.com/arbortree/treelock/log"
)

// TreeLock is the facade: it owns the Registry, and every Scope call
// produces an independent, scoped TreeRequest against it. A TreeLock
// carries no other state besides its logger, and instances never share anything with
// each other — a process-wide lock is just a TreeLock the caller
// shares explicitly.
type TreeLock struct {
	registry *Registry
	log      log.Log
}

// Option configures a TreeLock at construction time.
type Option func(*TreeLock)

// WithLogger attaches a structured logger. The default is log.NoLog{}.
func WithLogger(l log.Log) Option {
	return func(tl *TreeLock) { tl.log = l }
}

// New constructs a TreeLock. There is no other configuration.
func New(opts ...Option) *TreeLock {
	tl := &TreeLock{registry: NewRegistry(), log: log.NoLog{}}
	for _, opt := range opts {
		opt(tl)
	}
	return tl
}

// Scope computes the implied claims for (read, write), acquires every
// one of them in the process-global order, and returns a *Request
// once all are held. It blocks until acquisition completes or ctx is
// done; on cancellation it unwinds whatever it already acquired
// before returning ctx's error.
//
// read and write may overlap each other and their own ancestors in
// any way, and may contain duplicates; both are normalized per
// spec.md §4.3 before anything is acquired.
func (tl *TreeLock) Scope(ctx context.Context, read, write []Node) (*Request, error) {
	req := newRequest(tl.registry)
	claims := deriveClaims(read, write)

	callArgs := log.M{
		"request": req,
		"reads":   len(read),
		"writes":  len(write),
	}
	for k, c := range claims {
		callArgs[fmt.Sprintf("claim(%s):%v", c.mode, k)] = c.node
	}
	cookie := tl.log.Call("TreeLock.Scope", callArgs)

	if err := req.acquire(ctx, claims); err != nil {
		tl.log.Return("TreeLock.Scope", cookie, log.M{"request": req, "error": err})
		return nil, err
	}

	tl.log.Logf(log.TopicTrace, "acquired scope %v", req)
	tl.log.Return("TreeLock.Scope", cookie, log.M{"request": req})
	return req, nil
}
