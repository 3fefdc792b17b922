package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the golden-file form of a scenario run.
type Snapshot struct {
	Scenario   string    `json:"scenario"`
	ContractID string    `json:"contract_id"`
	Verdicts   []Verdict `json:"verdicts"`
}

// RunWithGolden executes a scenario and compares its verdicts against a
// golden file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario, t.TempDir())
	if err != nil {
		return err
	}

	snapshot := Snapshot{
		Scenario:   scenario.Name,
		ContractID: result.ContractID,
		Verdicts:   result.Verdicts,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}
