// Package treelock provides a hierarchical reader/writer locking
// primitive over a set of nodes that form a tree.
//
// A client acquires, in one atomic request, a combined lock covering
// a read set and a write set of nodes; the request is granted once
// every target and every implied ancestor claim is compatible with
// everything currently held. Release is atomic with respect to
// subsequent waiters.
//
// The node model — identity, equality and the ancestor chain from a
// node up to its root — is supplied by the caller through the Node
// interface. This package owns none of that: it only ever compares
// node keys and walks Ancestors().
package treelock
