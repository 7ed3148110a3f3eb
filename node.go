package treelock

import (
	"fmt"
	"strings"
)

// Node is the external node model. The caller owns nodes; this
// package holds them only for the lifetime of one request, plus the
// weak-style interning performed by the Registry, which never extends
// a node's lifetime beyond the claims that reference it.
//
// Key must return a comparable value: it is used as a map key and as
// the node's identity for equality. Ancestors must return the ordered
// chain from the node's immediate parent up to (and including) its
// root, and that answer must be stable for the lifetime of one
// request; the core does not check this.
type Node interface {
	Key() any
	Ancestors() []Node
}

// DebugStruct is implemented by values that want to contribute
// structured fields to a log line instead of being stringified
// directly. A Node, a Request, or any caller-supplied wrapper around
// either may implement it; Fields may return nil.
type DebugStruct interface {
	Fields() map[string]any
}

// JoinDebugStructFields flattens s.Fields() into "key: value, ..." for
// loggers that don't understand structured fields natively.
func JoinDebugStructFields(s DebugStruct) string {
	m := s.Fields()
	if m == nil {
		return ""
	}
	fields := make([]string, 0, len(m))
	for key, value := range m {
		fields = append(fields, fmt.Sprintf("%s: %v", key, value))
	}
	return strings.Join(fields, ", ")
}
