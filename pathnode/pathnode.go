// Package pathnode is a filesystem-path flavored implementation of
// the treelock.Node contract, for callers whose tree is a set of
// slash-separated paths under a single root.
//
// The path-cleaning rules (Clean, slash-join, volume stripping) are
// adapted from the teacher's own node-resolution helpers
// (cleanSlashPath/cleanFilePath/UnifyFilePath in the prior version of
// this repository's treelock package).
package pathnode

import (
	"path"
	"path/filepath"

	treelock "github.com/arbortree/treelock"
)

// Node is a cleaned slash-path node. The zero value is not the root
// and is not a valid Node; build nodes with FromSlash or FromFilePath.
type Node struct {
	clean string // "/", "/a", "/a/b", ...
}

// FromSlash builds a Node from a slash-separated path, cleaning it the
// same way path.Clean does after rooting it at "/" (so "/a/../b",
// "b/", and "b" all resolve to the same node, "/b").
func FromSlash(p string) Node {
	return Node{clean: cleanSlashPath(p)}
}

// FromFilePath builds a Node from an OS-native path, stripping any
// Windows volume name and converting to slash form first.
func FromFilePath(p string) Node {
	return Node{clean: cleanFilePath(p)}
}

func cleanSlashPath(p string) string {
	return path.Clean(path.Join("/", p))
}

func cleanFilePath(p string) string {
	p = p[len(filepath.VolumeName(p)):]
	p = filepath.ToSlash(p)
	return cleanSlashPath(p)
}

// SlashPath returns the node's cleaned slash-separated path.
func (n Node) SlashPath() string { return n.clean }

// FilePath returns the node's path converted to the host's OS
// separator convention.
func (n Node) FilePath() string { return filepath.FromSlash(n.clean) }

// Key implements treelock.Node. The cleaned path string is already a
// comparable, stable identity.
func (n Node) Key() any { return n.clean }

// Ancestors implements treelock.Node: the immediate parent chain up
// to the root, in order. The root's ancestor chain is empty.
func (n Node) Ancestors() []treelock.Node {
	if n.clean == "/" {
		return nil
	}
	var chain []treelock.Node
	for p := path.Dir(n.clean); ; p = path.Dir(p) {
		chain = append(chain, Node{clean: p})
		if p == "/" {
			break
		}
	}
	return chain
}

var _ treelock.Node = Node{}
var _ treelock.DebugStruct = Node{}

// Fields implements treelock.DebugStruct.
func (n Node) Fields() map[string]any {
	return map[string]any{"path": n.clean}
}

// String composes Fields through treelock.JoinDebugStructFields, the
// same way the teacher's DebugXxx types render themselves.
func (n Node) String() string {
	return "pathnode.Node{ " + treelock.JoinDebugStructFields(n) + " }"
}
