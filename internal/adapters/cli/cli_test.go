package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const earlyGameYAML = `
- name: Mine Iron Ore
  raw: true
  outputs: [{name: Iron Ore}]
- name: Mine Copper Ore
  raw: true
  outputs: [{name: Copper Ore}]
- name: Mine Coal
  raw: true
  outputs: [{name: Coal}]
- name: Smelt Iron Ingot
  facility: Smelter
  time: 1
  inputs: [{name: Iron Ore}]
  outputs: [{name: Iron Ingot}]
- name: Smelt Copper Ingot
  facility: Smelter
  time: 1
  inputs: [{name: Copper Ore}]
  outputs: [{name: Copper Ingot}]
- name: Circuit Board
  facility: Assembler
  time: 1
  inputs: [{name: Iron Ingot, count: 2}, {name: Copper Ingot}]
  outputs: [{name: Circuit Board, count: 2}]
- name: Thermal Power
  facility: Thermal Power Plant
  inputs: [{name: Coal}]
  outputs: [{name: Energy}]
- name: Wind Power
  facility: Wind Turbine
  outputs: [{name: Energy}]
`

// cliEnv is a temporary working area with a recipe file and a config file
// pointing the catalog store into the same directory.
type cliEnv struct {
	dir         string
	recipesFile string
	configFile  string
}

func newCLIEnv(t *testing.T, recipes string) *cliEnv {
	t.Helper()

	dir := t.TempDir()
	env := &cliEnv{
		dir:         dir,
		recipesFile: filepath.Join(dir, "recipes.yaml"),
		configFile:  filepath.Join(dir, "config.yaml"),
	}
	require.NoError(t, os.WriteFile(env.recipesFile, []byte(recipes), 0o644))

	cfg := "catalog:\n  file: " + env.recipesFile + "\n" +
		"database:\n  type: sqlite\n  path: " + filepath.Join(dir, "catalogs.db") + "\n"
	require.NoError(t, os.WriteFile(env.configFile, []byte(cfg), 0o644))
	return env
}

// run executes the CLI with the env's config and colors disabled
func (e *cliEnv) run(args ...string) (string, error) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", e.configFile, "--no-color"}, args...))

	err := root.Execute()
	return out.String(), err
}
