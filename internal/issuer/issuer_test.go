package issuer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-ledger/sigil/internal/descriptor"
	"github.com/sigil-ledger/sigil/internal/verify"
)

const fungibleSrc = `
asset: {
	kind:      "fungible"
	name:      "Demo Coin"
	ticker:    "DEMO"
	precision: 8
	supply:    1000
	allocations: [{amount: 1000}]
}
`

func parseFungible(t *testing.T) *descriptor.Descriptor {
	t.Helper()
	d, err := descriptor.Parse("fungible.cue", []byte(fungibleSrc))
	require.NoError(t, err)
	return d
}

func TestNew(t *testing.T) {
	b, err := New(parseFungible(t), UUIDv7Generator{})
	require.NoError(t, err)

	parsed, err := uuid.Parse(b.ContractID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	assert.Equal(t, verify.KindFungible, b.Kind)
	assert.Equal(t, uint(verify.DefaultSumWidth), b.SumWidth)
	assert.Equal(t, "Demo Coin", b.Meta.Name)
	assert.Equal(t, "DEMO", b.Meta.Ticker)
	assert.Equal(t, uint64(8), b.Meta.Precision)
}

func TestEntryTable(t *testing.T) {
	b, err := New(parseFungible(t), FixedGenerator{ID: "test"})
	require.NoError(t, err)

	assert.Equal(t, "genesis", b.Entries[0x00])
	assert.Equal(t, "transfer", b.Entries[0x01])
	assert.Equal(t, "transfer", b.Entries[0xFF])
	assert.Len(t, b.Entries, 3)
}

func TestTagAliases(t *testing.T) {
	b, err := New(parseFungible(t), FixedGenerator{ID: "test"})
	require.NoError(t, err)

	assert.Equal(t, b.Tags["ticker"], b.Tags["details"])
	assert.Equal(t, b.Tags["supply"], b.Tags["tokenSpec"])
	assert.Equal(t, b.Tags["name"], b.Tags["amount"])
	assert.NotEqual(t, b.Tags["name"], b.Tags["precision"])
}

// A descriptor whose allocations do not add up to the declared supply
// compiles to a genesis the verifier rejects, and issuance must refuse
// to produce a bundle for it.
func TestNewRejectsUnverifiableGenesis(t *testing.T) {
	src := `
asset: {
	kind:      "fungible"
	name:      "Bad Coin"
	ticker:    "BAD"
	precision: 0
	supply:    1000
	allocations: [{amount: 999}]
}
`
	d, err := descriptor.Parse("bad.cue", []byte(src))
	require.NoError(t, err)

	_, err = New(d, UUIDv7Generator{})
	require.Error(t, err)
	assert.True(t, verify.IsCode(err, verify.CodeSumIssueMismatch))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	b, err := New(parseFungible(t), UUIDv7Generator{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "demo.bundle.yaml")
	require.NoError(t, b.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, b, loaded)
}

func TestLoadReverifiesGenesis(t *testing.T) {
	b, err := New(parseFungible(t), UUIDv7Generator{})
	require.NoError(t, err)

	// Tamper with an allocation after issuance.
	*b.Genesis.Outputs[0].V1 = 5

	path := filepath.Join(t.TempDir(), "tampered.bundle.yaml")
	require.NoError(t, b.Save(path))

	_, err = Load(path)
	require.Error(t, err)
	assert.True(t, verify.IsCode(err, verify.CodeSumIssueMismatch))
}

func TestLoadRejections(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "absent.yaml")},
		{"not yaml", write("garbage.yaml", ": : :")},
		{"unknown field", write("typo.yaml", "contract_idd: x\n")},
		{"bad contract id", write("badid.yaml", "contract_id: not-a-uuid\nkind: fungible\nsum_width: 64\nentries: {}\ntags: {}\nmeta: {name: X, precision: 0}\ngenesis: {entry: genesis}\n")},
		{"bad kind", write("badkind.yaml", "contract_id: 0192aaaa-0000-7000-8000-000000000000\nkind: confetti\nsum_width: 64\nentries: {}\ntags: {}\nmeta: {name: X, precision: 0}\ngenesis: {entry: genesis}\n")},
		{"transfer as genesis", write("badentry.yaml", "contract_id: 0192aaaa-0000-7000-8000-000000000000\nkind: fungible\nsum_width: 64\nentries: {}\ntags: {}\nmeta: {name: X, precision: 0}\ngenesis: {entry: transfer}\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			assert.Error(t, err)
		})
	}
}

func TestVerifierMatchesKind(t *testing.T) {
	b, err := New(parseFungible(t), FixedGenerator{ID: "test"})
	require.NoError(t, err)

	v, err := b.Verifier()
	require.NoError(t, err)
	assert.Equal(t, verify.KindFungible, v.Kind())
}
