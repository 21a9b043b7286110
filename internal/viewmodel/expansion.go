// Package viewmodel holds the per-session expand/collapse state of the
// grouped translation tree and flattens the tree into rows.
package viewmodel

import (
	"sync"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/grouping"
)

// State is the expand state of one group node.
type State int

const (
	Collapsed State = iota
	Expanded
)

func (s State) String() string {
	if s == Expanded {
		return "expanded"
	}
	return "collapsed"
}

// Expansion maps group keys to their state. Keys are node keys, not
// positions, so state survives regrouping after a refetch.
type Expansion struct {
	mu       sync.Mutex
	states   map[string]State
	fallback State
}

// Option configures an Expansion.
type Option func(*Expansion)

// WithDefaultExpanded makes nodes without recorded state start expanded.
func WithDefaultExpanded() Option {
	return func(e *Expansion) {
		e.fallback = Expanded
	}
}

// NewExpansion creates an empty expansion state.
func NewExpansion(opts ...Option) *Expansion {
	e := &Expansion{states: make(map[string]State), fallback: Collapsed}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the state of key.
func (e *Expansion) State(key string) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state(key)
}

func (e *Expansion) state(key string) State {
	if s, ok := e.states[key]; ok {
		return s
	}
	return e.fallback
}

// Expanded reports whether key is expanded.
func (e *Expansion) Expanded(key string) bool {
	return e.State(key) == Expanded
}

// Toggle flips the state of key and returns the new state.
func (e *Expansion) Toggle(key string) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := Expanded
	if e.state(key) == Expanded {
		next = Collapsed
	}
	e.states[key] = next
	return next
}

// Set forces the state of key.
func (e *Expansion) Set(key string, s State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.states[key] = s
}

// ExpandAll expands every group of nodes.
func (e *Expansion) ExpandAll(nodes []*grouping.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	grouping.Walk(nodes, func(n *grouping.Node, _ int) bool {
		if !n.IsLeaf() {
			e.states[n.Key] = Expanded
		}
		return true
	})
}

// Retain drops recorded state for keys no longer present in nodes and
// returns how many were dropped.
func (e *Expansion) Retain(nodes []*grouping.Node) int {
	present := make(map[string]bool)
	grouping.Walk(nodes, func(n *grouping.Node, _ int) bool {
		present[n.Key] = true
		return true
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	dropped := 0
	for key := range e.states {
		if !present[key] {
			delete(e.states, key)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of keys with recorded state.
func (e *Expansion) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.states)
}
