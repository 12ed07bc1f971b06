// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package depgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdgeRejects(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("b")

	assert.Error(t, g.AddEdge("a", "a"))

	err := g.AddEdge("a", "zz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownNode))

	err = g.AddEdge("zz", "a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownNode))

	assert.NoError(t, g.AddEdge("a", "b"))
}

func TestAddNodeIdempotent(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("b")
	require.NoError(t, g.AddEdge("a", "b"))
	g.AddNode("b")

	deps, err := g.Dependencies("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, deps)
	assert.Equal(t, 2, g.Len())
}

func TestDetectCycles(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))
	assert.NoError(t, g.DetectCycles())

	require.NoError(t, g.AddEdge("c", "a"))
	err := g.DetectCycles()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCycle))

	_, err = g.Order()
	assert.True(t, errors.Is(err, ErrCycle))
}

func TestOrderTieBreak(t *testing.T) {
	g := New()
	for _, id := range []string{"d", "c", "b", "a"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("d", "a"))

	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d", "a"}, order)
}

func TestUnknownLookups(t *testing.T) {
	g := New()
	_, err := g.Dependencies("x")
	assert.True(t, errors.Is(err, ErrUnknownNode))
	_, err = g.Dependents("x")
	assert.True(t, errors.Is(err, ErrUnknownNode))
}

func TestImagePipeline(t *testing.T) {
	g := ImagePipeline()

	assert.Equal(t, 6, g.Len())
	assert.NoError(t, g.DetectCycles())
	assert.Equal(t, []string{InstanceProfile, Component}, g.Roots())

	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{
		InstanceProfile,
		Component,
		Recipe,
		Distribution,
		InfraConfig,
		Pipeline,
	}, order)

	// Every node comes after all of its dependencies.
	pos := map[string]int{}
	for i, id := range order {
		pos[id] = i
	}
	for _, e := range g.Edges() {
		assert.Less(t, pos[e.From], pos[e.To], "%s -> %s", e.From, e.To)
	}
}

func TestImagePipelinePredecessors(t *testing.T) {
	g := ImagePipeline()

	tests := []struct {
		id   string
		deps []string
	}{
		{Recipe, []string{Component}},
		{InfraConfig, []string{InstanceProfile}},
		{Distribution, []string{Recipe}},
		{Pipeline, []string{Distribution, InfraConfig}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			deps, err := g.Dependencies(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.deps, deps)
		})
	}

	dependents, err := g.Dependents(Recipe)
	require.NoError(t, err)
	assert.Equal(t, []string{Distribution}, dependents)
}

func TestImagePipelineEdges(t *testing.T) {
	assert.Equal(t, []Edge{
		{From: Recipe, To: Distribution},
		{From: Distribution, To: Pipeline},
		{From: InfraConfig, To: Pipeline},
		{From: Component, To: Recipe},
		{From: InstanceProfile, To: InfraConfig},
	}, ImagePipeline().Edges())
}
