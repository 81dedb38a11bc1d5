package models

import "strings"

// Tree maps an entry name to its subtree. A nil subtree marks a file.
type Tree map[string]Tree

// TreeEntry is one child of a Tree in display order.
type TreeEntry struct {
	Name  string
	Path  string // slash separated, relative to the content root
	Node  Tree
	IsDir bool
}

// Find walks a slash separated path and returns the subtree it names. The
// subtree is nil for a file.
func (t Tree) Find(path string) (Tree, bool) {
	node := t
	for _, name := range strings.Split(strings.Trim(path, "/"), "/") {
		if name == "" {
			continue
		}
		if node == nil {
			return nil, false
		}
		sub, ok := node[name]
		if !ok {
			return nil, false
		}
		node = sub
	}
	return node, true
}
