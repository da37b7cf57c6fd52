// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package graph_test

import (
	"testing"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/recompose/graph"
	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/testutil/h"
)

type node string

func (n node) Hash() uint64 { return farm.Hash64([]byte(n)) }

func (n node) Equal(o node) bool { return n == o }

func TestComponents(t *testing.T) {
	g := graph.New[node]()
	g.AddEdge("c", "d")
	g.AddNode("a")
	g.AddEdge("e", "b")
	g.AddEdge("b", "d")
	g.AddEdge("f", "f")
	g.AddNode("c")
	expect.EQ(t, g.Len(), 6)

	expect.EQ(t, g.Components(), []graph.Component[node]{
		{Key: 0, Members: []node{"c", "d", "e", "b"}},
		{Key: 2, Members: []node{"a"}},
		{Key: 5, Members: []node{"f"}},
	})
	expect.True(t, g.Connected("c", "e"))
	expect.False(t, g.Connected("a", "f"))
	expect.False(t, g.Connected("a", "zz"))
}

func TestComponentKeyIsSmallestMember(t *testing.T) {
	g := graph.New[node]()
	for _, n := range []node{"n0", "n1", "n2", "n3", "n4"} {
		g.AddNode(n)
	}
	// Join from the back so that the larger ids are unioned first.
	g.AddEdge("n4", "n3")
	g.AddEdge("n3", "n2")
	g.AddEdge("n2", "n0")
	comps := g.Components()
	expect.EQ(t, len(comps), 2)
	expect.EQ(t, comps[0].Key, 0)
	expect.That(t, comps[0].Members, h.ElementsAre(node("n0"), node("n2"), node("n3"), node("n4")))
	expect.EQ(t, comps[1].Key, 1)
}
