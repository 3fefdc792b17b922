package verify

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-ledger/sigil/internal/state"
)

func TestFungibleGenesis_Correct(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	// Globals [ticker, name, precision=18, supply=1000], one output of
	// 1000.
	err := v.Verify(EntryGenesis, fungibleGenesis(18, 1000, 1000))
	assert.NoError(t, err)
}

func TestFungibleGenesis_SplitIssuance(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	err := v.Verify(EntryGenesis, fungibleGenesis(8, 1000, 100, 900))
	assert.NoError(t, err)
}

func TestFungibleGenesis_Empty(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	err := v.Verify(EntryGenesis, &state.Operation{})
	assert.True(t, IsCode(err, CodeNoTicker))
}

func TestFungibleGenesis_SupplyMismatch(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	err := v.Verify(EntryGenesis, fungibleGenesis(18, 1000, 1001))
	assert.True(t, IsCode(err, CodeSumIssueMismatch))

	err = v.Verify(EntryGenesis, fungibleGenesis(18, 1000, 999))
	assert.True(t, IsCode(err, CodeSumIssueMismatch))

	// No outputs at all: issued sum is 0, not a structural error.
	err = v.Verify(EntryGenesis, fungibleGenesis(18, 1000))
	assert.True(t, IsCode(err, CodeSumIssueMismatch))
}

func TestFungibleGenesis_MissingGlobals(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	ticker := state.Scalar(state.TagTicker, 0)
	name := state.Scalar(state.TagName, 0)
	precision := state.Scalar(state.TagPrecision, 18)
	supply := state.Scalar(state.TagSupply, 1000)

	tests := []struct {
		name    string
		globals []state.Value
		code    Code
	}{
		{"no ticker", []state.Value{name, precision, supply}, CodeNoTicker},
		{"no name", []state.Value{ticker, precision, supply}, CodeNoName},
		{"no precision", []state.Value{ticker, name, supply}, CodeNoPrecision},
		{"no supply", []state.Value{ticker, name, precision}, CodeNoIssued},
		{"preamble only partial", []state.Value{ticker, name}, CodeNoPrecision},
		{"supply malformed", []state.Value{ticker, name, precision, state.Pair(state.TagSupply, 1000, 1)}, CodeNoIssued},
		{"supply absent value", []state.Value{ticker, name, precision, {Tag: state.TagSupply}}, CodeNoIssued},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := &state.Operation{GlobalOut: tt.globals, DestructibleOut: amounts(1000)}
			err := v.Verify(EntryGenesis, op)
			assert.True(t, IsCode(err, tt.code), "want %s, got %v", tt.code, err)
		})
	}
}

func TestFungibleGenesis_TrailingGlobal(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	op := fungibleGenesis(18, 1000, 1000)
	op.GlobalOut = append(op.GlobalOut, state.Scalar(state.TagSupply, 1))
	err := v.Verify(EntryGenesis, op)
	assert.True(t, IsCode(err, CodeUnexpectedGlobal))
}

func TestFungibleGenesis_PrecisionOverflow(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	err := v.Verify(EntryGenesis, fungibleGenesis(256, 1000, 1000))
	assert.True(t, IsCode(err, CodePrecisionOverflow))

	err = v.Verify(EntryGenesis, fungibleGenesis(255, 1000, 1000))
	assert.NoError(t, err, "255 still fits a byte")
}

func TestFungibleGenesis_NotOriginOnly(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	op := fungibleGenesis(18, 1000, 1000)
	op.DestructibleIn = amounts(5)
	err := v.Verify(EntryGenesis, op)
	assert.True(t, IsCode(err, CodeUnexpectedOwnedIn))
}

func TestFungibleTransfer_Correct(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	tests := []struct {
		name string
		ins  []uint64
		outs []uint64
	}{
		{"one to one", []uint64{1000}, []uint64{1000}},
		{"split", []uint64{1000}, []uint64{100, 900}},
		{"merge", []uint64{100, 900}, []uint64{1000}},
		{"rebalance", []uint64{100, 900}, []uint64{500, 500}},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, v.Verify(EntryTransfer, transferOp(tt.ins, tt.outs)))
		})
	}
}

func TestFungibleTransfer_Deflation(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	for _, ins := range [][]uint64{{1001}, {99, 900}} {
		for _, outs := range [][]uint64{{1000}, {100, 900}} {
			err := v.Verify(EntryTransfer, transferOp(ins, outs))
			if sum(ins) == sum(outs) {
				continue
			}
			assert.True(t, IsCode(err, CodeSumMismatch), "in %v out %v", ins, outs)
		}
	}
}

func TestFungibleTransfer_Inflation(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	err := v.Verify(EntryTransfer, transferOp([]uint64{999}, []uint64{1000}))
	assert.True(t, IsCode(err, CodeSumMismatch))
}

func TestFungibleTransfer_Overflow(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	// The output side must reject before producing a wrapped result;
	// a wrapped sum of 1 would otherwise balance the input.
	err := v.Verify(EntryTransfer, transferOp([]uint64{1}, []uint64{math.MaxUint64 - 1, 2}))
	assert.True(t, IsCode(err, CodeInvalidBalanceOut))

	err = v.Verify(EntryTransfer, transferOp([]uint64{math.MaxUint64, 2}, []uint64{1}))
	assert.True(t, IsCode(err, CodeInvalidBalanceIn))
}

func TestFungibleTransfer_GlobalState(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	op := transferOp([]uint64{10}, []uint64{10})
	op.GlobalIn = []state.Value{state.Scalar(state.TagName, 0)}
	assert.True(t, IsCode(v.Verify(EntryTransfer, op), CodeUnexpectedGlobalIn))

	op = transferOp([]uint64{10}, []uint64{10})
	op.GlobalOut = []state.Value{state.Scalar(state.TagName, 0)}
	assert.True(t, IsCode(v.Verify(EntryTransfer, op), CodeUnexpectedGlobalOut))
}

func TestFungibleBlank_AliasesTransfer(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	assert.NoError(t, v.Verify(EntryBlank, transferOp([]uint64{42}, []uint64{42})))
	err := v.Verify(EntryBlank, transferOp([]uint64{42}, []uint64{41}))
	assert.True(t, IsCode(err, CodeSumMismatch))
}

func TestFungibleNarrowVariant(t *testing.T) {
	v := Fungible(8)
	err := v.Verify(EntryGenesis, fungibleGenesis(2, 200, 100, 100))
	assert.NoError(t, err)

	err = v.Verify(EntryGenesis, fungibleGenesis(2, 300, 200, 100))
	assert.True(t, IsCode(err, CodeInvalidBalanceOut), "sum 300 exceeds the narrow width")
}

func TestFungible_Idempotent(t *testing.T) {
	v := Fungible(DefaultSumWidth)
	op := transferOp([]uint64{1001}, []uint64{1000})
	first := v.Verify(EntryTransfer, op)
	second := v.Verify(EntryTransfer, op)
	require.Error(t, first)
	require.Error(t, second)
	assert.Equal(t, CodeOf(first), CodeOf(second))
}

func sum(vals []uint64) uint64 {
	var s uint64
	for _, v := range vals {
		s += v
	}
	return s
}
