// Package harness runs conformance scenarios against the full stack:
// descriptor compilation, issuance, ledger application and golden
// verdict comparison.
//
// A scenario is a YAML file declaring an asset descriptor and a flow of
// operation steps, each with an expected verdict. Scenarios pin the
// contract id so runs are deterministic and comparable against golden
// files.
package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sigil-ledger/sigil/internal/opfile"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// ContractID is the fixed contract id used for the run. Pinning it
	// keeps runs deterministic for golden comparison.
	ContractID string `yaml:"contract_id"`

	// Descriptor is the inline CUE source of the asset under test.
	Descriptor string `yaml:"descriptor"`

	// Steps is the operation flow, applied in order against a fresh
	// ledger seeded with the descriptor's genesis.
	Steps []Step `yaml:"steps"`
}

// Step is one operation application with its expected verdict.
type Step struct {
	// Op is the operation document to apply.
	Op opfile.Doc `yaml:"op"`

	// Expect is "accept" or "reject".
	Expect string `yaml:"expect"`

	// Code is the expected rejection code. Required when Expect is
	// "reject", forbidden otherwise.
	Code string `yaml:"code,omitempty"`
}

// Expected verdict constants.
const (
	ExpectAccept = "accept"
	ExpectReject = "reject"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "step:" vs "steps:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.ContractID == "" {
		return fmt.Errorf("contract_id is required")
	}
	if s.Descriptor == "" {
		return fmt.Errorf("descriptor is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		switch step.Expect {
		case ExpectAccept:
			if step.Code != "" {
				return fmt.Errorf("step %d: code is only valid with expect: reject", i+1)
			}
		case ExpectReject:
			if step.Code == "" {
				return fmt.Errorf("step %d: expect: reject requires a code", i+1)
			}
		default:
			return fmt.Errorf("step %d: expect must be %q or %q", i+1, ExpectAccept, ExpectReject)
		}
	}
	return nil
}
