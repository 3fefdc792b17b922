package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-ledger/sigil/internal/state"
)

func TestVerifier_UnknownEntry(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	err := v.Verify(Entry(0x02), &state.Operation{})
	assert.True(t, IsCode(err, CodeUnknownEntry))
}

func TestVerifier_EntryTable(t *testing.T) {
	// Every kind wires exactly genesis, transfer and blank.
	for _, kind := range []AssetKind{KindFungible, KindUnique, KindDivisible, KindCollection} {
		v, err := ForKind(kind, DefaultSumWidth)
		require.NoError(t, err)
		assert.Equal(t, kind, v.Kind())
		assert.Len(t, v.routines, 3)
		for _, e := range []Entry{EntryGenesis, EntryTransfer, EntryBlank} {
			assert.Contains(t, v.routines, e, "%s missing entry %#x", kind, uint16(e))
		}
	}
}

func TestForKind_Unknown(t *testing.T) {
	_, err := ForKind("bond", DefaultSumWidth)
	assert.Error(t, err)
}

func TestAssetKind_Valid(t *testing.T) {
	assert.True(t, KindFungible.Valid())
	assert.True(t, KindCollection.Valid())
	assert.False(t, AssetKind("bond").Valid())
	assert.False(t, AssetKind("").Valid())
}

func TestError_CodeAndErrno(t *testing.T) {
	err := reject(CodeSumMismatch, "inputs %d outputs %d", 2, 1)
	assert.Equal(t, CodeSumMismatch, CodeOf(err))
	assert.Equal(t, uint32(1<<16|5), err.Errno())
	assert.Contains(t, err.Error(), "SUM_MISMATCH")

	assert.Equal(t, uint32(0), Code("NOT_A_CODE").Errno())
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestErrnos_UniqueAndComplete(t *testing.T) {
	seen := make(map[uint32]Code)
	for code, n := range errnos {
		require.NotZero(t, n, "%s has no errno", code)
		prev, dup := seen[n]
		require.False(t, dup, "%s and %s share errno %d", code, prev, n)
		seen[n] = code
	}
}

func TestIsCode_WrappedErrors(t *testing.T) {
	err := reject(CodeNoInput, "")
	wrapped := wrapErr{err}
	assert.True(t, IsCode(wrapped, CodeNoInput))
	assert.False(t, IsCode(wrapped, CodeNoOutput))
	assert.False(t, IsCode(nil, CodeNoInput))
}

type wrapErr struct{ inner error }

func (w wrapErr) Error() string { return "wrapped: " + w.inner.Error() }
func (w wrapErr) Unwrap() error { return w.inner }
