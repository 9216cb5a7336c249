package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ignitionXML = `<?xml version="1.0" encoding="utf-8"?>
<experiment>
  <fileAuthor>Tester</fileAuthor>
  <ReSpecThVersion><major>2</major><minor>1</minor></ReSpecThVersion>
  <experimentType>ignition delay measurement</experimentType>
  <apparatus><kind>shock tube</kind></apparatus>
  <commonProperties>
    <property name="pressure" units="atm"><value>2</value></property>
    <property name="initial composition">
      <component><speciesLink preferredKey="%s"/><amount units="percent">4</amount></component>
      <component><speciesLink preferredKey="O2"/><amount units="percent">2</amount></component>
      <component><speciesLink preferredKey="Ar"/><amount units="percent">94</amount></component>
    </property>
  </commonProperties>
  <dataGroup id="dg1">
    <property name="temperature" id="x1" units="K"/>
    <property name="ignition delay" id="x2" units="us"/>
    <dataPoint><x1>1100</x1><x2>250</x2></dataPoint>
    <dataPoint><x1>1200</x1><x2>120</x2></dataPoint>
  </dataGroup>
  <ignitionType target="OH*" type="d/dt max"/>
</experiment>`

// workspace creates an isolated working directory with a species list and
// returns its path.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	prevWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prevWD) })
	require.NoError(t, os.WriteFile("species.txt", []byte("H2 O2 AR OH*\n"), 0644))
	return dir
}

func writeExperiment(t *testing.T, path, fuel string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	body := strings.Replace(ignitionXML, "%s", fuel, 1)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "respecthconv version 0.1.0 (build: dev)\n", out)
}

func TestConvertCommand(t *testing.T) {
	dir := workspace(t)
	writeExperiment(t, filepath.Join(dir, "in", "x1.xml"), "H2")

	out, err := execute(t, "convert",
		"--input", "in/x1.xml",
		"--kinetics", "species.txt",
		"--output", "out",
		"--metrics-file", "out/metrics.prom")
	require.NoError(t, err)
	assert.Contains(t, out, "Converted in/x1.xml")
	assert.Contains(t, out, "BatchReactor, 2 simulations")

	assert.FileExists(t, filepath.Join(dir, "out", "x1", "x1.dic"))
	metrics, err := os.ReadFile(filepath.Join(dir, "out", "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "respecthconv_simulations_total 2")
}

func TestConvertCommand_Errors(t *testing.T) {
	workspace(t)

	_, err := execute(t, "convert", "--kinetics", "species.txt")
	assert.ErrorContains(t, err, `required flag(s) "input" not set`)

	_, err = execute(t, "convert", "--input", "x1.xml")
	assert.ErrorContains(t, err, "kinetics.folder is required")

	writeExperiment(t, "x2.xml", "CH4")
	_, err = execute(t, "convert", "--input", "x2.xml", "--kinetics", "species.txt")
	assert.ErrorContains(t, err, "Species CH4 is not available in the kinetic mechanism")
}

func TestBatchCommand(t *testing.T) {
	dir := workspace(t)
	writeExperiment(t, filepath.Join(dir, "data", "x1.xml"), "H2")
	writeExperiment(t, filepath.Join(dir, "data", "flames", "x2.xml"), "CH4")

	out, err := execute(t, "batch",
		"--input", "data",
		"--kinetics", "species.txt",
		"--output", "out",
		"--report-format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "1 converted, 1 failed")

	assert.FileExists(t, filepath.Join(dir, "out", "x1", "x1.dic"))
	assert.NoDirExists(t, filepath.Join(dir, "out", "x2"))

	data, err := os.ReadFile(filepath.Join(dir, "out", "Report.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "| x2.xml |")
	assert.Contains(t, string(data), "species")
}

func TestBatchCommand_InputFolder(t *testing.T) {
	workspace(t)
	writeExperiment(t, "x1.xml", "H2")

	tests := []struct {
		name  string
		args  []string
		error string
	}{
		{
			name:  "batch with missing folder",
			args:  []string{"batch", "--input", "nowhere"},
			error: "input folder: stat nowhere",
		},
		{
			name:  "batch with a file",
			args:  []string{"batch", "--input", "x1.xml"},
			error: "input folder x1.xml is not a directory",
		},
		{
			name:  "watch with missing folder",
			args:  []string{"watch", "--input", "nowhere"},
			error: "input folder: stat nowhere",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append(tt.args, "--kinetics", "species.txt", "--output", "out")...)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.error)
		})
	}
}

func TestBatchCommand_ProjectConfig(t *testing.T) {
	dir := workspace(t)
	writeExperiment(t, filepath.Join(dir, "x1.xml"), "H2")
	cfg := "kinetics:\n  folder: species.txt\noutput:\n  folder: results\nreport:\n  file: summary.txt\n"
	require.NoError(t, os.WriteFile("respecthconv.yaml", []byte(cfg), 0644))

	out, err := execute(t, "batch", "x1.xml")
	require.NoError(t, err)
	assert.Contains(t, out, "1 converted, 0 failed")

	data, err := os.ReadFile(filepath.Join(dir, "results", "summary.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "FileName")
	assert.Contains(t, string(data), "Converted")
}

func TestSpeciesCommand(t *testing.T) {
	workspace(t)

	out, err := execute(t, "species", "--kinetics", "species.txt")
	require.NoError(t, err)
	assert.Equal(t, "H2\nO2\nAR\nOH*\n", out)

	out, err = execute(t, "species", "--kinetics", "species.txt", "ar", "CH4")
	assert.ErrorContains(t, err, "1 of 2 species")
	assert.Contains(t, out, "ar -> AR\n")
	assert.Contains(t, out, "CH4: Case unsensitive check")

	_, err = execute(t, "species")
	assert.ErrorContains(t, err, "kinetics folder is required")
}

func TestInitCommand(t *testing.T) {
	dir := workspace(t)

	out, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote respecthconv.yaml")
	assert.FileExists(t, filepath.Join(dir, "respecthconv.yaml"))

	_, err = execute(t, "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "init", "--user")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, ".config", "respecthconv", "config.yaml"))
}
