// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package depgraph

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrCycle is returned when the graph is not acyclic.
var ErrCycle = errors.New("dependency cycle")

// ErrUnknownNode is returned when an operation names a node not in the graph.
var ErrUnknownNode = errors.New("node not found")

type node struct {
	id         string
	deps       map[string]*node
	dependents map[string]*node
}

// Graph is a set of named nodes and depends-on edges.
type Graph struct {
	nodes map[string]*node
}

// Edge is a single depends-on relation: To depends on From.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// AddNode adds id to the graph. Adding an existing id is a no-op.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
}

// AddEdge records that to depends on from. Both nodes must exist and differ.
func (g *Graph) AddEdge(from, to string) error {
	if from == to {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", from, to)
	}

	fromNode, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("source %w: %s", ErrUnknownNode, from)
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return fmt.Errorf("destination %w: %s", ErrUnknownNode, to)
	}

	toNode.deps[from] = fromNode
	fromNode.dependents[to] = toNode
	return nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Has reports whether id is a node.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns every node id, sorted.
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Edges returns every edge sorted by To, then From.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, n := range g.nodes {
		for dep := range n.deps {
			edges = append(edges, Edge{From: dep, To: n.id})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].To != edges[j].To {
			return edges[i].To < edges[j].To
		}
		return edges[i].From < edges[j].From
	})
	return edges
}

// Dependencies returns the sorted ids id depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return sortedKeys(n.deps), nil
}

// Dependents returns the sorted ids that depend on id.
func (g *Graph) Dependents(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return sortedKeys(n.dependents), nil
}

// Roots returns the sorted ids with no dependencies.
func (g *Graph) Roots() []string {
	var roots []string
	for id, n := range g.nodes {
		if len(n.deps) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// DetectCycles returns ErrCycle, naming a node on the cycle, if the graph has
// one.
func (g *Graph) DetectCycles() error {
	// permanent: fully visited. temporary: on the current DFS path.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("%w involving node '%s'", ErrCycle, n.id)
		}

		temporary[n.id] = true
		for _, id := range sortedKeys(n.dependents) {
			if err := visit(n.dependents[id]); err != nil {
				return err
			}
		}
		delete(temporary, n.id)
		permanent[n.id] = true

		return nil
	}

	for _, id := range g.Nodes() {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

// Order returns a topological order of the nodes. Among nodes that are ready
// at the same time the lexically smallest comes first, so the result is the
// same on every call.
func (g *Graph) Order() ([]string, error) {
	if err := g.DetectCycles(); err != nil {
		return nil, err
	}

	pending := make(map[string]int, len(g.nodes))
	for id, n := range g.nodes {
		pending[id] = len(n.deps)
	}

	ready := g.Roots()
	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for _, next := range sortedKeys(g.nodes[id].dependents) {
			pending[next]--
			if pending[next] == 0 {
				ready = append(ready, next)
				slices.Sort(ready)
			}
		}
	}

	return order, nil
}

func sortedKeys(m map[string]*node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
