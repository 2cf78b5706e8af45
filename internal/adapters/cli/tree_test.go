package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourceRequest(t *testing.T) {
	tests := []struct {
		arg            string
		wantResource   string
		wantIncludeRaw bool
	}{
		{"Iron Ingot", "Iron Ingot", false},
		{"Iron Ingot:", "Iron Ingot", true},
		{"Energy", "Energy", false},
		{" Processor :", "Processor", true},
		{":", "", true},
		{"Iron Ingot::", "Iron Ingot:", true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			resource, includeRaw := ParseResourceRequest(tt.arg)
			assert.Equal(t, tt.wantResource, resource)
			assert.Equal(t, tt.wantIncludeRaw, includeRaw)
		})
	}
}

func TestTreeCommand_RawCutoff(t *testing.T) {
	env := newCLIEnv(t, earlyGameYAML)

	output, err := env.run("tree", "Iron Ingot")

	require.NoError(t, err)
	assert.Equal(t, "Iron Ingot: 1 production tree\n\nSmelt Iron Ingot\n", output)
}

func TestTreeCommand_RawExpanded(t *testing.T) {
	env := newCLIEnv(t, earlyGameYAML)

	output, err := env.run("tree", "Iron Ingot:")

	require.NoError(t, err)
	assert.Equal(t, "Iron Ingot: 1 production tree (raw expanded)\n\nSmelt Iron Ingot\n└── Mine Iron Ore\n", output)
}

func TestTreeCommand_Forest(t *testing.T) {
	env := newCLIEnv(t, earlyGameYAML)

	output, err := env.run("tree", "Energy", "--summary")

	require.NoError(t, err)
	assert.Contains(t, output, "Energy: 2 production trees\n")
	assert.Contains(t, output, "\nThermal Power\n")
	assert.Contains(t, output, "\nWind Power\n")
	assert.Equal(t, 2, strings.Count(output, "Tree: 1 nodes"))
}

func TestTreeCommand_MultipleResourcesAndDetails(t *testing.T) {
	env := newCLIEnv(t, earlyGameYAML)

	output, err := env.run("tree", "Circuit Board:", "Iron Ingot", "--details")

	require.NoError(t, err)
	assert.Contains(t, output, "Circuit Board [Assembler, 1s]\n")
	assert.Contains(t, output, "│   └── Mine Iron Ore [Mining Machine, raw]\n")
	assert.Contains(t, output, "\n\nIron Ingot: 1 production tree\n")
}

func TestTreeCommand_UnknownResourceDoesNotStopOthers(t *testing.T) {
	env := newCLIEnv(t, earlyGameYAML)

	output, err := env.run("tree", "Iron Ingto", "Energy")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recipe found for Iron Ingto (did you mean: Iron Ingot?)")
	assert.Contains(t, output, "Energy: 2 production trees")
}

func TestTreeCommand_Compact(t *testing.T) {
	env := newCLIEnv(t, earlyGameYAML)

	output, err := env.run("tree", "Circuit Board:", "--compact")

	require.NoError(t, err)
	assert.Contains(t, output, "Circuit Board → Smelt Iron Ingot → Mine Iron Ore → Smelt Copper Ingot → Mine Copper Ore\n")
}

func TestTreeCommand_MalformedCatalog(t *testing.T) {
	env := newCLIEnv(t, "- name: 42\n  outputs: [{name: X}]\n")

	_, err := env.run("tree", "X")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse recipe catalog")
	assert.Contains(t, err.Error(), "(line 1)")
}

func TestTreeCommand_RecipesFileFlagOverridesConfig(t *testing.T) {
	env := newCLIEnv(t, earlyGameYAML)
	other := filepath.Join(env.dir, "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("- name: Fractionate\n  outputs: [{name: Deuterium}]\n"), 0o644))

	output, err := env.run("tree", "--recipes-file", other, "Deuterium")

	require.NoError(t, err)
	assert.Contains(t, output, "Fractionate")
}

func TestTreeCommand_WritesMetricsTextfile(t *testing.T) {
	env := newCLIEnv(t, earlyGameYAML)
	promFile := filepath.Join(env.dir, "dsp.prom")

	_, err := env.run("tree", "Energy", "--metrics-file", promFile)
	require.NoError(t, err)

	content, err := os.ReadFile(promFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `dsp_calculator_resolver_resolutions_total{include_raw="false",resource="Energy",status="success"} 1`)
	assert.Contains(t, string(content), "dsp_calculator_mediator_requests_total")
	assert.Contains(t, string(content), "dsp_calculator_catalog_recipes")
}

func TestTreeCommand_RequiresResource(t *testing.T) {
	env := newCLIEnv(t, earlyGameYAML)

	_, err := env.run("tree")

	assert.Error(t, err)
}
