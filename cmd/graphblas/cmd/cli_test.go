package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--log-level=error"}, args...))
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func tempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestMxMCommand(t *testing.T) {
	dir := t.TempDir()
	a := tempFile(t, dir, "a.csv", "i,j,v\n0,1,2\n1,0,3\n")
	out := filepath.Join(dir, "out.csv")
	execute(t, "mxm", a, a, "-o", out)
	assert.Equal(t, "i,j,v\n0,0,6\n1,1,6\n", readFile(t, out))

	execute(t, "mxm", a, a, "-o", out, "--semiring", "max-plus",
		"--mask", tempFile(t, dir, "mask.csv", "i,j,v\n1,1,1\n"))
	assert.Equal(t, "i,j,v\n1,1,5\n", readFile(t, out))
}

func TestEWiseAndReduceCommands(t *testing.T) {
	dir := t.TempDir()
	a := tempFile(t, dir, "a.csv", "i,j,v\n0,0,1\n1,2,2\n")
	b := tempFile(t, dir, "b.csv", "i,j,v\n0,0,10\n")
	out := filepath.Join(dir, "out.csv")
	execute(t, "ewise", a, b, "-o", out)
	assert.Equal(t, "i,j,v\n0,0,11\n1,2,2\n", readFile(t, out))

	execute(t, "reduce", a, "-o", out)
	assert.Equal(t, "i,v\n0,1\n1,2\n", readFile(t, out))
	assert.Equal(t, "3\n", execute(t, "reduce", a, "--scalar"))
}

func TestSnapshotCommands(t *testing.T) {
	dir := t.TempDir()
	u := tempFile(t, dir, "u.csv", "i,v\n2,-7\n0,5\n")
	store := "--store-dir=" + filepath.Join(dir, "store")
	execute(t, "snapshot", "save", "vec", u, "--vector", "--type", "int32", store)
	assert.Equal(t, "vec\n", execute(t, "snapshot", "list", store))

	out := filepath.Join(dir, "out.csv")
	execute(t, "snapshot", "load", "vec", "-o", out, store)
	assert.Equal(t, "i,v\n0,5\n2,-7\n", readFile(t, out))

	execute(t, "snapshot", "delete", "vec", store)
	assert.Empty(t, execute(t, "snapshot", "list", store))
}

func TestEigenTrustCommand(t *testing.T) {
	dir := t.TempDir()
	lt := tempFile(t, dir, "lt.csv", "i,j,v\nalice,bob,1\nbob,alice,1\n")
	pt := tempFile(t, dir, "pt.csv", "i,v\nalice,1\n")
	labels := tempFile(t, dir, "labels.txt", "alice\nbob\n")
	out := filepath.Join(dir, "gt.csv")
	stats := filepath.Join(dir, "stats.json")
	execute(t, "eigentrust", lt, "-p", pt, "-l", labels, "-a", "0.5",
		"-e", "1e-12", "-o", out, "--flat-tail=2", "--flat-tail-stats", stats)

	records, err := csv.NewReader(strings.NewReader(readFile(t, out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	scores := map[string]float64{}
	for _, r := range records[1:] {
		v, err := strconv.ParseFloat(r[1], 64)
		require.NoError(t, err)
		scores[r[0]] = v
	}
	assert.InDelta(t, 2.0/3, scores["alice"], 1e-9)
	assert.InDelta(t, 1.0/3, scores["bob"], 1e-9)
	assert.Contains(t, readFile(t, stats), `"ranking":["alice","bob"]`)
}
