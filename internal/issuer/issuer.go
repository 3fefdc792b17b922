// Package issuer builds and persists contract issuance bundles.
//
// A bundle is everything a counterparty needs to validate a contract
// from scratch: the contract identity, the asset kind and its balance
// width, the wired entry points, the semantic tag registry, and the
// genesis operation itself. Bundles are YAML files; the genesis inside
// one is re-verified on every load, so a tampered bundle does not get
// past instantiation.
package issuer

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/sigil-ledger/sigil/internal/descriptor"
	"github.com/sigil-ledger/sigil/internal/opfile"
	"github.com/sigil-ledger/sigil/internal/verify"
)

// IDGenerator mints contract identifiers.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 contract identifiers.
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string. Panics if UUID
// generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns a predetermined identifier, for deterministic
// tests and golden comparison.
type FixedGenerator struct{ ID string }

func (g FixedGenerator) Generate() string { return g.ID }

// Meta is the human-facing contract metadata. The naming facts inside
// the genesis carry placeholder payloads; these strings are the actual
// content they stand for.
type Meta struct {
	Name      string `yaml:"name"`
	Ticker    string `yaml:"ticker,omitempty"`
	Details   string `yaml:"details,omitempty"`
	Precision uint64 `yaml:"precision"`
}

// Bundle is a complete, self-describing contract issuance.
type Bundle struct {
	// ContractID is a UUIDv7, minted at issuance.
	ContractID string `yaml:"contract_id"`

	Kind     verify.AssetKind `yaml:"kind"`
	SumWidth uint             `yaml:"sum_width"`

	// Entries records the wired entry points: selector to routine name.
	// Fixed per kind today, but persisted so old bundles stay readable
	// if the wiring convention ever changes.
	Entries map[uint16]string `yaml:"entries"`

	// Tags is the semantic tag registry, including its aliases.
	Tags map[string]uint64 `yaml:"tags"`

	Meta Meta `yaml:"meta"`

	// Genesis is the contract's first operation.
	Genesis opfile.Doc `yaml:"genesis"`
}

// New issues a bundle from a validated descriptor. The genesis is
// compiled and verified before the bundle is returned; an unverifiable
// descriptor is a bug in the descriptor layer, reported as an error.
func New(d *descriptor.Descriptor, gen IDGenerator) (*Bundle, error) {
	op := d.Genesis()

	v, err := verify.ForKind(d.Kind, d.SumWidth)
	if err != nil {
		return nil, err
	}
	if err := v.Verify(verify.EntryGenesis, op); err != nil {
		return nil, fmt.Errorf("descriptor compiles to an invalid genesis: %w", err)
	}

	doc, err := opfile.FromOperation(verify.EntryGenesis, op)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		ContractID: gen.Generate(),
		Kind:       d.Kind,
		SumWidth:   d.SumWidth,
		Entries:    entryTable(),
		Tags:       tagRegistry(),
		Meta: Meta{
			Name:      d.Name,
			Ticker:    d.Ticker,
			Details:   d.Details,
			Precision: d.Precision,
		},
		Genesis: *doc,
	}, nil
}

// Save writes the bundle to path.
func (b *Bundle) Save(path string) error {
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing bundle: %w", err)
	}
	return nil
}

// Load reads a bundle and re-verifies its genesis.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle: %w", err)
	}

	var b Bundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&b); err != nil {
		return nil, fmt.Errorf("parsing bundle: %w", err)
	}

	if err := b.check(); err != nil {
		return nil, fmt.Errorf("invalid bundle: %w", err)
	}
	return &b, nil
}

// Verifier returns the dispatch table for the bundle's asset kind.
func (b *Bundle) Verifier() (*verify.Verifier, error) {
	return verify.ForKind(b.Kind, b.SumWidth)
}

func (b *Bundle) check() error {
	if b.ContractID == "" {
		return fmt.Errorf("contract_id is required")
	}
	if _, err := uuid.Parse(b.ContractID); err != nil {
		return fmt.Errorf("contract_id is not a UUID: %w", err)
	}
	if !b.Kind.Valid() {
		return fmt.Errorf("unknown asset kind %q", b.Kind)
	}
	if b.Meta.Name == "" {
		return fmt.Errorf("meta.name is required")
	}

	v, err := b.Verifier()
	if err != nil {
		return err
	}
	entry, err := b.Genesis.EntryPoint()
	if err != nil {
		return err
	}
	if entry != verify.EntryGenesis {
		return fmt.Errorf("bundle genesis declares entry %q", b.Genesis.Entry)
	}
	if err := v.Verify(entry, b.Genesis.Operation()); err != nil {
		return fmt.Errorf("genesis fails verification: %w", err)
	}
	return nil
}

// entryTable is the conventional three-entry wiring every kind uses.
func entryTable() map[uint16]string {
	return map[uint16]string{
		uint16(verify.EntryGenesis):  opfile.EntryNameGenesis,
		uint16(verify.EntryTransfer): opfile.EntryNameTransfer,
		uint16(verify.EntryBlank):    opfile.EntryNameTransfer,
	}
}

// tagRegistry is the semantic tag registry with its deliberate aliases.
func tagRegistry() map[string]uint64 {
	return map[string]uint64{
		"name":      0,
		"ticker":    1,
		"details":   1,
		"precision": 2,
		"supply":    3,
		"tokenSpec": 3,
		"amount":    0,
	}
}
