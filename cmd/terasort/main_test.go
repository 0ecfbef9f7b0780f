package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/terasort/validate"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestGenLocalValidate(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.dat")
	out := filepath.Join(dir, "out.dat")
	report := filepath.Join(dir, "report.json")

	stdout, err := execute(t, "gen", "--records", "500", "--seed", "7", "--output", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 500 records")

	stdout, err = execute(t, "local", "--log-level", "error",
		"--workers", "3", "--samples", "30",
		"--input", in, "--output", out, "--report", report)
	require.NoError(t, err)
	assert.Contains(t, stdout, "sorted 500 records with 3 workers")
	assert.FileExists(t, report)

	stdout, err = execute(t, "validate", "--input", in, "--output", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"records": 500`)
}

func TestValidateRejectsUnsorted(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.dat")
	_, err := execute(t, "gen", "--records", "100", "--output", in)
	require.NoError(t, err)

	_, err = execute(t, "validate", "--output", in)
	require.Error(t, err)
}

func TestUnknownStore(t *testing.T) {
	_, err := execute(t, "local", "--store", "ftp", "--input", "x", "--output", "y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store")
}

func TestInvalidLogFormat(t *testing.T) {
	_, err := execute(t, "local", "--log-format", "xml", "--input", "x", "--output", "y")
	require.Error(t, err)
}

func TestValidateCodec(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.dat")
	_, err := execute(t, "gen", "--records", "10", "--output", in)
	require.NoError(t, err)

	stdout, err := execute(t, "validate", "--codec", "json", "--input", in, "--output", in)
	require.ErrorIs(t, err, validate.ErrUnsorted)
	assert.Contains(t, stdout, `"records": 10`)

	_, err = execute(t, "validate", "--codec", "msgpack", "--output", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown codec")
}
