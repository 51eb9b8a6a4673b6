package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customersCSV = "name,age,city\n" +
	"Ann,25, NYC \n" +
	"Bob,,LA\n" +
	"Ann,25, NYC \n" +
	"Cid,40,la\n"

const customersCleaned = "name,age,city\n" +
	"ann,25,nyc\n" +
	"bob,32.5,la\n" +
	"cid,40,la\n"

// setup writes a config pointing the output and log directories into a
// temp dir and returns the config path and the input directory.
func setup(t *testing.T) (configPath, inDir, outDir string) {
	t.Helper()
	root := t.TempDir()
	inDir = filepath.Join(root, "in")
	outDir = filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(inDir, 0755))

	configPath = filepath.Join(root, "config.yaml")
	content := "paths:\n  output_dir: " + outDir + "\n  logs_dir: " + filepath.Join(root, "logs") + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	return configPath, inDir, outDir
}

func TestRun_SingleFile(t *testing.T) {
	configPath, inDir, outDir := setup(t)
	input := filepath.Join(inDir, "customers.csv")
	require.NoError(t, os.WriteFile(input, []byte(customersCSV), 0644))

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"-config", configPath, input}, &stdout, io.Discard)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "OK")

	data, err := os.ReadFile(filepath.Join(outDir, "customers_cleaned.csv"))
	require.NoError(t, err)
	assert.Equal(t, customersCleaned, string(data))
}

func TestRun_BatchReport(t *testing.T) {
	configPath, inDir, outDir := setup(t)
	for _, name := range []string{"a.csv", "b.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(inDir, name), []byte(customersCSV), 0644))
	}

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"-config", configPath, "-report", "-strategy", "median", inDir}, &stdout, io.Discard)
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &results))
	require.Len(t, results, 2)
	for _, res := range results {
		assert.EqualValues(t, 4, res["rows_in"])
		assert.EqualValues(t, 3, res["rows_out"])
	}
	assert.FileExists(t, filepath.Join(outDir, "a_cleaned.csv"))
	assert.FileExists(t, filepath.Join(outDir, "b_cleaned.csv"))
}

func TestRun_PartialFailure(t *testing.T) {
	configPath, inDir, _ := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "good.csv"), []byte(customersCSV), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "empty.csv"), nil, 0644))

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"-config", configPath, inDir}, &stdout, io.Discard)
	assert.Error(t, err)
	assert.Contains(t, stdout.String(), "FAIL")
	assert.Contains(t, stdout.String(), "OK")
}

func TestRun_Errors(t *testing.T) {
	configPath, inDir, _ := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "a.csv"), []byte(customersCSV), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "b.csv"), []byte(customersCSV), 0644))

	tests := []struct {
		name string
		args []string
	}{
		{name: "no inputs", args: []string{"-config", configPath}},
		{name: "bad strategy", args: []string{"-config", configPath, "-strategy", "max", inDir}},
		{name: "negative threshold", args: []string{"-config", configPath, "-z", "-1", inDir}},
		{name: "out with many inputs", args: []string{"-config", configPath, "-out", "x.csv", inDir}},
		{name: "missing input", args: []string{"-config", configPath, filepath.Join(inDir, "nope.csv")}},
		{name: "unknown flag", args: []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(context.Background(), tt.args, io.Discard, io.Discard))
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-version"}, &stdout, io.Discard))
	assert.Contains(t, stdout.String(), "datacleaner v")
}

func TestRun_Help(t *testing.T) {
	err := run(context.Background(), []string{"-h"}, io.Discard, io.Discard)
	assert.ErrorIs(t, err, flag.ErrHelp)
}
