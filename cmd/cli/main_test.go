package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uidlens/app"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func demoFiles(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	out, err := run(t, "demo", "--dir", dir, "--users", "10", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "friends.csv")

	names := []string{"friends.csv", "groups.csv", "posts.csv", "comments.csv", "pages_liked.csv"}
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths
}

func TestClassifyCommand(t *testing.T) {
	paths := demoFiles(t)
	out, err := run(t, append([]string{"classify"}, paths...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "friends")
	assert.Contains(t, out, "pages_liked")
	assert.Contains(t, out, "Danh sách nhóm")
}

func TestStatsCommand(t *testing.T) {
	paths := demoFiles(t)
	out, err := run(t, append([]string{"stats", "--top", "3"}, paths...)...)
	require.NoError(t, err)

	var stats app.StatsReport
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Positive(t, stats.Totals.TotalUsers)
	assert.LessOrEqual(t, len(stats.TopUsers), 3)
}

func TestAnalyzeCommand(t *testing.T) {
	paths := demoFiles(t)
	out, err := run(t, append([]string{"analyze", "1000000001"}, paths...)...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Phân tích UID: 1000000001"))

	_, err = run(t, append([]string{"analyze", "nobody"}, paths...)...)
	assert.Error(t, err)
}

func TestAggregateRejectsUnknownKind(t *testing.T) {
	paths := demoFiles(t)
	_, err := run(t, "aggregate", "--type", "bogus", paths[0])
	assert.Error(t, err)
}
