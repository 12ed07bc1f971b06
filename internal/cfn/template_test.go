// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cfn

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/staranto/wsinfra/internal/depgraph"
)

func loadFixture(t *testing.T) Template {
	t.Helper()
	tmpl, err := Load(filepath.Join("testdata", "imagebuilder.template.json"))
	require.NoError(t, err)
	return tmpl
}

func TestParseRejects(t *testing.T) {
	for _, body := range []string{`{`, `[]`, `{"Outputs": {}}`, `{"Resources": []}`} {
		_, err := Parse([]byte(body))
		require.Error(t, err, body)
		assert.True(t, errors.Is(err, ErrNotTemplate), body)
	}
}

func TestResources(t *testing.T) {
	tmpl := loadFixture(t)

	resources := tmpl.Resources()
	require.Len(t, resources, 8)
	assert.Equal(t, "ImageBuilderInstanceProfile", resources[0].LogicalID)

	var pipeline Resource
	for _, r := range resources {
		if r.LogicalID == depgraph.Pipeline {
			pipeline = r
		}
	}
	assert.Equal(t, "AWS::ImageBuilder::ImagePipeline", pipeline.Type)
	assert.Equal(t, []string{depgraph.Distribution, depgraph.InfraConfig}, pipeline.DependsOn)
	assert.Equal(t, "ImageBuilderStack/WorkstationImagePipeline", pipeline.Path)
	assert.Equal(t, "workstation-pipeline", pipeline.Properties["Name"])
}

func TestCountByType(t *testing.T) {
	counts := loadFixture(t).CountByType()
	for _, typ := range []string{
		"AWS::IAM::Role",
		"AWS::IAM::InstanceProfile",
		"AWS::ImageBuilder::Component",
		"AWS::ImageBuilder::ImageRecipe",
		"AWS::EC2::SecurityGroup",
		"AWS::ImageBuilder::InfrastructureConfiguration",
		"AWS::ImageBuilder::DistributionConfiguration",
		"AWS::ImageBuilder::ImagePipeline",
	} {
		assert.Equal(t, 1, counts[typ], typ)
	}
}

func TestOutputs(t *testing.T) {
	tmpl := loadFixture(t)

	outputs := tmpl.Outputs()
	require.Len(t, outputs, 3)
	assert.Equal(t, "ComponentArn", outputs[0].Name)
	assert.Equal(t, "Dev Tools Component ARN", outputs[0].Description)

	rows, err := tmpl.OutputRows()
	require.NoError(t, err)
	assert.Equal(t, "!GetAtt WorkstationImagePipeline.Arn",
		gjson.GetBytes(rows, `#(name=="PipelineArn").value`).String())
}

func TestResourceRows(t *testing.T) {
	rows, err := loadFixture(t).ResourceRows()
	require.NoError(t, err)

	parsed := gjson.ParseBytes(rows)
	assert.Len(t, parsed.Array(), 8)
	assert.Equal(t, "cron(0 9 ? * SUN *)",
		parsed.Get(`#(logicalId=="WorkstationImagePipeline").properties.Schedule.ScheduleExpression`).String())
}

func TestGraphFromDependsOn(t *testing.T) {
	g, err := loadFixture(t).Graph(false)
	require.NoError(t, err)

	assert.Equal(t, 8, g.Len())
	assert.ElementsMatch(t, depgraph.PipelineEdges, g.Edges())

	order, err := g.Order()
	require.NoError(t, err)
	assert.Len(t, order, 8)
}

func TestGraphWithRefs(t *testing.T) {
	g, err := loadFixture(t).Graph(true)
	require.NoError(t, err)

	deps, err := g.Dependencies("ImageBuilderInstanceProfile")
	require.NoError(t, err)
	assert.Equal(t, []string{"ImageBuilderInstanceRole4F0DCD53"}, deps)

	deps, err = g.Dependencies(depgraph.InfraConfig)
	require.NoError(t, err)
	assert.Equal(t, []string{"ImageBuilderInstanceProfile", "ImageBuilderSecurityGroup3B2B5D2A"}, deps)
}

func TestPredecessorsKeepDependsOn(t *testing.T) {
	deps := make([]string, 1, 4)
	deps[0] = "Component"
	r := Resource{
		LogicalID:  "Recipe",
		DependsOn:  deps,
		Properties: map[string]any{"Role": map[string]any{"Ref": "Role"}},
	}

	assert.Equal(t, []string{"Component", "Role"}, r.predecessors(true))
	assert.Equal(t, []string{"Component"}, r.predecessors(false))
	assert.Equal(t, []string{"Component", "", "", ""}, deps[:cap(deps)])
}

func TestReferences(t *testing.T) {
	v := map[string]any{
		"A": map[string]any{"Ref": "Role"},
		"B": []any{
			map[string]any{"Fn::GetAtt": []any{"Sg", "GroupId"}},
			map[string]any{"Ref": "AWS::Region"},
		},
		"C": map[string]any{"Ref": "Role"},
	}
	assert.Equal(t, []string{"Role", "Sg"}, References(v))
	assert.Empty(t, References(nil))
}

func TestIntrinsic(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"plain", "plain"},
		{float64(90), "90"},
		{true, "true"},
		{map[string]any{"Ref": "Bucket"}, "!Ref Bucket"},
		{map[string]any{"Fn::GetAtt": []any{"Pipeline", "Arn"}}, "!GetAtt Pipeline.Arn"},
		{map[string]any{"Fn::Sub": "${AWS::Region}-x"}, "!Sub ${AWS::Region}-x"},
		{map[string]any{"Fn::Join": []any{"", []any{"arn:", map[string]any{"Ref": "AWS::Partition"}, ":x"}}}, "arn:!Ref AWS::Partition:x"},
		{map[string]any{"a": 1.0, "b": 2.0}, `{"a":1,"b":2}`},
		{[]any{"x", "y"}, `["x","y"]`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Intrinsic(tt.in))
	}
}

func TestParametersAndDescription(t *testing.T) {
	tmpl := loadFixture(t)
	assert.Contains(t, tmpl.Parameters(), "BootstrapVersion")
	assert.Contains(t, tmpl.Description(), "Image Builder")
	assert.NotEmpty(t, tmpl.Raw())
	assert.Equal(t, filepath.Join("testdata", "imagebuilder.template.json"), tmpl.Source)
}
