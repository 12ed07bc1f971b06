// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package depgraph

// Logical ids of the image pipeline resources that take part in explicit
// ordering.
const (
	Component       = "WorkstationDevToolsComponent"
	Recipe          = "WorkstationImageRecipe"
	InstanceProfile = "ImageBuilderInstanceProfile"
	InfraConfig     = "WorkstationInfrastructureConfiguration"
	Distribution    = "WorkstationDistributionConfiguration"
	Pipeline        = "WorkstationImagePipeline"
)

// PipelineEdges are the explicit depends-on relations of the image pipeline.
var PipelineEdges = []Edge{
	{From: Component, To: Recipe},
	{From: InstanceProfile, To: InfraConfig},
	{From: Recipe, To: Distribution},
	{From: InfraConfig, To: Pipeline},
	{From: Distribution, To: Pipeline},
}

// ImagePipeline returns the dependency graph of the image pipeline stack.
func ImagePipeline() *Graph {
	g := New()
	for _, id := range []string{Component, Recipe, InstanceProfile, InfraConfig, Distribution, Pipeline} {
		g.AddNode(id)
	}
	for _, e := range PipelineEdges {
		// The edge list is static and every node was added above.
		if err := g.AddEdge(e.From, e.To); err != nil {
			panic(err)
		}
	}
	return g
}
