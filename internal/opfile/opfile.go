// Package opfile reads and writes operation documents: the YAML form in
// which operations travel between tools. A document carries the entry
// point name and the declared values of each sequence; payload slots use
// YAML null (or omission) for the absent state, which is distinct from
// an explicit zero.
package opfile

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sigil-ledger/sigil/internal/state"
	"github.com/sigil-ledger/sigil/internal/verify"
)

// Entry point names as they appear in documents.
const (
	EntryNameGenesis  = "genesis"
	EntryNameTransfer = "transfer"
	EntryNameBlank    = "blank"
)

// Doc is the file form of one operation.
type Doc struct {
	// Entry names the entry point: genesis, transfer or blank.
	Entry string `yaml:"entry"`

	// GlobalIn is the contract's pre-existing global facts. Tools
	// normally populate this from the store rather than the file, but
	// self-contained documents (fixtures, scenarios) may carry it.
	GlobalIn []ValueDoc `yaml:"global_in,omitempty"`

	// Globals is the global facts the operation declares.
	Globals []ValueDoc `yaml:"globals,omitempty"`

	// Inputs is the owned cells the operation consumes. For apply-style
	// tools each input must also name the cell it spends.
	Inputs []ValueDoc `yaml:"inputs,omitempty"`

	// Outputs is the owned cells the operation creates.
	Outputs []ValueDoc `yaml:"outputs,omitempty"`
}

// ValueDoc is the file form of one typed value. Nil payload pointers
// encode the absent state.
type ValueDoc struct {
	Tag uint64  `yaml:"tag"`
	V1  *uint64 `yaml:"v1,omitempty"`
	V2  *uint64 `yaml:"v2,omitempty"`
	V3  *uint64 `yaml:"v3,omitempty"`

	// Cell is the store identifier of the cell an input spends.
	// Meaningless on any other sequence.
	Cell int64 `yaml:"cell,omitempty"`
}

// Load reads and parses an operation document.
func Load(path string) (*Doc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading operation file: %w", err)
	}
	return Parse(data)
}

// Parse decodes an operation document with strict field validation, so
// a typo like "gobals:" fails loudly instead of silently dropping facts.
func Parse(data []byte) (*Doc, error) {
	var doc Doc
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing operation file: %w", err)
	}
	if _, err := doc.EntryPoint(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save writes the document to path.
func (d *Doc) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding operation file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing operation file: %w", err)
	}
	return nil
}

// EntryPoint maps the document's entry name onto a dispatch selector.
func (d *Doc) EntryPoint() (verify.Entry, error) {
	switch d.Entry {
	case EntryNameGenesis:
		return verify.EntryGenesis, nil
	case EntryNameTransfer:
		return verify.EntryTransfer, nil
	case EntryNameBlank:
		return verify.EntryBlank, nil
	}
	return 0, fmt.Errorf("unknown entry point %q", d.Entry)
}

// Operation assembles the in-memory operation the document describes.
func (d *Doc) Operation() *state.Operation {
	return &state.Operation{
		GlobalIn:        values(d.GlobalIn),
		GlobalOut:       values(d.Globals),
		DestructibleIn:  values(d.Inputs),
		DestructibleOut: values(d.Outputs),
	}
}

// SpentCells returns the store identifiers named by the inputs, in
// input order.
func (d *Doc) SpentCells() []int64 {
	ids := make([]int64, len(d.Inputs))
	for i, v := range d.Inputs {
		ids[i] = v.Cell
	}
	return ids
}

// FromOperation builds a self-contained document for an operation.
func FromOperation(entry verify.Entry, op *state.Operation) (*Doc, error) {
	name, err := entryName(entry)
	if err != nil {
		return nil, err
	}
	return &Doc{
		Entry:    name,
		GlobalIn: valueDocs(op.GlobalIn),
		Globals:  valueDocs(op.GlobalOut),
		Inputs:   valueDocs(op.DestructibleIn),
		Outputs:  valueDocs(op.DestructibleOut),
	}, nil
}

func entryName(e verify.Entry) (string, error) {
	switch e {
	case verify.EntryGenesis:
		return EntryNameGenesis, nil
	case verify.EntryTransfer:
		return EntryNameTransfer, nil
	case verify.EntryBlank:
		return EntryNameBlank, nil
	}
	return "", fmt.Errorf("unknown entry point %#x", uint16(e))
}

// Value converts the document form to the verifier form.
func (v ValueDoc) Value() state.Value {
	return state.Value{
		Tag: state.Tag(v.Tag),
		V1:  elem(v.V1),
		V2:  elem(v.V2),
		V3:  elem(v.V3),
	}
}

// FromValue converts the verifier form to the document form.
func FromValue(val state.Value) ValueDoc {
	return ValueDoc{
		Tag: uint64(val.Tag),
		V1:  ptr(val.V1),
		V2:  ptr(val.V2),
		V3:  ptr(val.V3),
	}
}

func elem(p *uint64) state.Elem {
	if p == nil {
		return state.None
	}
	return state.E(*p)
}

func ptr(e state.Elem) *uint64 {
	if !e.IsSet() {
		return nil
	}
	v := e.Val()
	return &v
}

func values(docs []ValueDoc) []state.Value {
	if len(docs) == 0 {
		return nil
	}
	out := make([]state.Value, len(docs))
	for i, d := range docs {
		out[i] = d.Value()
	}
	return out
}

func valueDocs(vals []state.Value) []ValueDoc {
	if len(vals) == 0 {
		return nil
	}
	out := make([]ValueDoc, len(vals))
	for i, v := range vals {
		out[i] = FromValue(v)
	}
	return out
}
