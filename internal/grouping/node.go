// Package grouping turns a flat list of locale-tagged translations into the
// hierarchy browsed by the editor.
package grouping

import "github.com/andrevicentegoncalves/pulwave-sub000/internal/models"

// Kind tells how a node is rendered.
type Kind int

const (
	// KindLeaf is a single flat row holding exactly one translation.
	KindLeaf Kind = iota
	// KindGroup is an expandable node holding items or child nodes.
	KindGroup
)

func (k Kind) String() string {
	if k == KindLeaf {
		return "leaf"
	}
	return "group"
}

// Node is one entry of the grouped hierarchy. A group with Children takes
// its completeness from them; otherwise completeness comes from Items.
type Node struct {
	Kind       Kind
	Key        string
	Title      string
	SourceType models.SourceType

	// Unit is set when the node stands for exactly one translation unit.
	Unit models.Unit

	Items    []*models.Translation
	Children []*Node
	Complete bool
}

// IsLeaf reports whether the node renders as a flat row.
func (n *Node) IsLeaf() bool {
	return n.Kind == KindLeaf
}

// HasChildren reports whether the node nests other nodes.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Count is the number shown next to a group header: children when nested,
// items otherwise.
func (n *Node) Count() int {
	if n.HasChildren() {
		return len(n.Children)
	}
	return len(n.Items)
}

// Walk visits nodes depth-first, parents before children. Returning false
// from fn skips the node's subtree.
func Walk(nodes []*Node, fn func(n *Node, depth int) bool) {
	walk(nodes, 0, fn)
}

func walk(nodes []*Node, depth int, fn func(n *Node, depth int) bool) {
	for _, n := range nodes {
		if !fn(n, depth) {
			continue
		}
		walk(n.Children, depth+1, fn)
	}
}

// Find returns the node with the given key, or nil.
func Find(nodes []*Node, key string) *Node {
	var found *Node
	Walk(nodes, func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.Key == key {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindUnit returns the node representing unit u, or nil.
func FindUnit(nodes []*Node, u models.Unit) *Node {
	key := u.Key()
	var found *Node
	Walk(nodes, func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.Unit != nil && n.Unit.Key() == key {
			found = n
			return false
		}
		return true
	})
	return found
}

// Summary counts translation units per source type.
type Summary struct {
	Units    int
	Complete int
}

// Summarize counts units and complete units per source type.
func Summarize(nodes []*Node) map[models.SourceType]Summary {
	out := make(map[models.SourceType]Summary)
	Walk(nodes, func(n *Node, _ int) bool {
		if n.Unit == nil {
			return true
		}
		s := out[n.SourceType]
		s.Units++
		if n.Complete {
			s.Complete++
		}
		out[n.SourceType] = s
		return false
	})
	return out
}
