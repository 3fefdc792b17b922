package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sigil-ledger/sigil/internal/state"
)

// collectionGenesis declares tokens 0 and 1 with one unit allocated
// each.
func collectionGenesis() *state.Operation {
	return &state.Operation{
		GlobalOut:       append(preamble(1), tokenSpec(0), tokenSpec(1)),
		DestructibleOut: []state.Value{alloc(1, 0), alloc(1, 1)},
	}
}

func TestCollectionGenesis_Correct(t *testing.T) {
	assert.NoError(t, Collection().Verify(EntryGenesis, collectionGenesis()))
}

func TestCollectionGenesis_EmptyCollection(t *testing.T) {
	op := &state.Operation{GlobalOut: preamble(1)}
	assert.NoError(t, Collection().Verify(EntryGenesis, op))
}

func TestCollectionGenesis_Fractionality(t *testing.T) {
	op := collectionGenesis()
	op.GlobalOut = append(preamble(2), tokenSpec(0), tokenSpec(1))
	err := Collection().Verify(EntryGenesis, op)
	assert.True(t, IsCode(err, CodeFractionality))
}

func TestCollectionGenesis_MissingAllocation(t *testing.T) {
	// Two tokens declared, only one allocated.
	op := collectionGenesis()
	op.DestructibleOut = []state.Value{alloc(1, 0)}
	err := Collection().Verify(EntryGenesis, op)
	assert.True(t, IsCode(err, CodeNoOutput))
}

func TestCollectionGenesis_DuplicateAllocation(t *testing.T) {
	op := collectionGenesis()
	op.DestructibleOut = []state.Value{alloc(1, 0), alloc(1, 0), alloc(1, 1)}
	err := Collection().Verify(EntryGenesis, op)
	assert.True(t, IsCode(err, CodeTokenExcessOut))
}

func TestCollectionGenesis_OrphanAllocation(t *testing.T) {
	op := collectionGenesis()
	op.DestructibleOut = append(op.DestructibleOut, alloc(1, 7))
	err := Collection().Verify(EntryGenesis, op)
	assert.True(t, IsCode(err, CodeOrphanAllocation))
}

func TestCollectionGenesis_DuplicateDeclaration(t *testing.T) {
	op := collectionGenesis()
	op.GlobalOut = append(preamble(1), tokenSpec(0), tokenSpec(0))
	err := Collection().Verify(EntryGenesis, op)
	assert.True(t, IsCode(err, CodeTokenExcess))
}

func TestCollectionGenesis_FractionalAllocation(t *testing.T) {
	op := collectionGenesis()
	op.DestructibleOut = []state.Value{alloc(2, 0), alloc(1, 1)}
	err := Collection().Verify(EntryGenesis, op)
	assert.True(t, IsCode(err, CodeFractionality))
}

func TestCollectionTransfer_RejectsGlobals(t *testing.T) {
	op := &state.Operation{
		GlobalOut:       []state.Value{state.Scalar(state.TagName, 0)},
		DestructibleIn:  []state.Value{alloc(1, 0)},
		DestructibleOut: []state.Value{alloc(1, 0)},
	}
	err := Collection().Verify(EntryTransfer, op)
	assert.True(t, IsCode(err, CodeUnexpectedGlobalOut))
}

func TestCollectionTransfer_Correct(t *testing.T) {
	op := &state.Operation{
		DestructibleIn:  []state.Value{alloc(1, 0)},
		DestructibleOut: []state.Value{alloc(1, 0)},
	}
	assert.NoError(t, Collection().Verify(EntryTransfer, op))
}

func TestCollectionTransfer_PerItemConservationGap(t *testing.T) {
	// Known gap: the collection transfer routine does not yet enforce
	// per-item conservation, so an unbalanced bundle move currently
	// passes. This test pins the gap; when per-item checks land it
	// should start failing and be inverted.
	op := &state.Operation{
		DestructibleIn:  []state.Value{alloc(1, 0), alloc(1, 1)},
		DestructibleOut: []state.Value{alloc(1, 0)},
	}
	assert.NoError(t, Collection().Verify(EntryTransfer, op),
		"per-item conservation is not yet defined for collection transfers")
}
