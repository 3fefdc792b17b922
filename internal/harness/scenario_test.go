package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalScenario = `
name: minimal
description: smallest valid scenario
contract_id: 0192aaaa-0000-7000-8000-0000000000ff
descriptor: |
  asset: {
    kind: "fungible", name: "X", ticker: "XXX",
    precision: 0, supply: 1, allocations: [{amount: 1}],
  }
steps:
  - expect: accept
    op:
      entry: transfer
      inputs:
        - cell: 1
      outputs:
        - tag: 0
          v1: 1
`

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Steps, 1)
	assert.Equal(t, "transfer", s.Steps[0].Op.Entry)
	assert.Equal(t, int64(1), s.Steps[0].Op.Inputs[0].Cell)
}

func TestLoadScenarioRuns(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, minimalScenario))
	require.NoError(t, err)

	result, err := Run(s, t.TempDir())
	require.NoError(t, err)
	require.Len(t, result.Verdicts, 1)
	assert.Equal(t, ExpectAccept, result.Verdicts[0].Status)
}

func TestLoadScenarioRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			"missing name",
			func(s string) string { return replaceLine(s, "name: minimal", "") },
			"name is required",
		},
		{
			"unknown field",
			func(s string) string { return s + "\nflows: []\n" },
			"field flows not found",
		},
		{
			"bad expect",
			func(s string) string { return replaceLine(s, "  - expect: accept", "  - expect: maybe") },
			"expect must be",
		},
		{
			"code on accept",
			func(s string) string {
				return replaceLine(s, "  - expect: accept", "  - expect: accept\n    code: SUM_MISMATCH")
			},
			"only valid with expect: reject",
		},
		{
			"reject without code",
			func(s string) string { return replaceLine(s, "  - expect: accept", "  - expect: reject") },
			"requires a code",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.mutate(minimalScenario)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func replaceLine(s, old, new string) string {
	return strings.Replace(s, old, new, 1)
}
