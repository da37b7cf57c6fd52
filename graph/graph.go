// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package graph implements an undirected graph over immutable values that
// only needs to answer connected-component queries.  Nodes are identified by
// value equality, not by reference.
package graph

import (
	"github.com/grailbio/recompose/util"
)

// Graph is an undirected graph whose nodes are values of type T.  Each
// distinct value gets a dense id in order of first insertion, and edges are
// folded into a disjoint-set forest over those ids.  A Graph is not
// threadsafe.
type Graph[T util.Hashable[T]] struct {
	ids *util.OrderedMap[T, int]
	// parent[id] is id's parent in the disjoint-set forest.  The root of a
	// set is always its smallest id.
	parent []int
}

// Component is a connected component.
type Component[T any] struct {
	// Key identifies the component: it is the insertion index of the first
	// member ever added to the graph.  Keys are stable for a given sequence
	// of AddNode/AddEdge calls.
	Key int
	// Members are ordered by insertion index.
	Members []T
}

// New returns an empty graph.
func New[T util.Hashable[T]]() *Graph[T] {
	return &Graph[T]{ids: util.NewOrderedMap[T, int]()}
}

// Len returns the number of distinct nodes.
func (g *Graph[T]) Len() int { return len(g.parent) }

// AddNode adds v if it is not present yet, and returns its id.
func (g *Graph[T]) AddNode(v T) int {
	if id, ok := g.ids.Get(v); ok {
		return id
	}
	id := len(g.parent)
	g.ids.Put(v, id)
	g.parent = append(g.parent, id)
	return id
}

// AddEdge connects a and b, adding either of them as needed.  a and b may be
// the same value.
func (g *Graph[T]) AddEdge(a, b T) {
	ra := g.find(g.AddNode(a))
	rb := g.find(g.AddNode(b))
	switch {
	case ra < rb:
		g.parent[rb] = ra
	case rb < ra:
		g.parent[ra] = rb
	}
}

// Connected returns true iff a and b are both nodes of the same component.
func (g *Graph[T]) Connected(a, b T) bool {
	ia, ok := g.ids.Index(a)
	if !ok {
		return false
	}
	ib, ok := g.ids.Index(b)
	if !ok {
		return false
	}
	return g.find(ia) == g.find(ib)
}

// Components returns every connected component, ordered by Key.
func (g *Graph[T]) Components() []Component[T] {
	var comps []Component[T]
	// rootComp[root] is the index in comps of root's component.
	rootComp := make(map[int]int)
	g.ids.Range(func(v T, id int) bool {
		root := g.find(id)
		ci, ok := rootComp[root]
		if !ok {
			// Since roots are minimal ids and ids are visited in increasing
			// order, components are created in increasing key order.
			ci = len(comps)
			rootComp[root] = ci
			comps = append(comps, Component[T]{Key: root})
		}
		comps[ci].Members = append(comps[ci].Members, v)
		return true
	})
	return comps
}

func (g *Graph[T]) find(id int) int {
	for g.parent[id] != id {
		// Path halving.
		g.parent[id] = g.parent[g.parent[id]]
		id = g.parent[id]
	}
	return id
}
