package descriptor

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/text/unicode/norm"

	"github.com/sigil-ledger/sigil/internal/state"
	"github.com/sigil-ledger/sigil/internal/verify"
)

//go:embed schema.cue
var schemaSource string

// Error code constants for descriptor loading and validation.
const (
	ErrCodeNotFound    = "D001" // Descriptor file not found or unreadable
	ErrCodeParseFailed = "D002" // CUE compilation failed
	ErrCodeSchema      = "D003" // Schema unification or concreteness failure
	ErrCodeKindRules   = "D004" // Kind-specific rule violated
	ErrCodeTokenRef    = "D005" // Allocation references an undeclared token
)

// LoadError reports a failure to load or validate a descriptor.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Allocation is one initial cell the genesis will create.
type Allocation struct {
	Amount uint64
	// Token is the referenced item identifier. Nil for fungible assets.
	Token *uint64
}

// Descriptor is a validated issuance request. Name, Ticker and Details
// are NFC-normalized on load so that two descriptors differing only in
// Unicode composition produce identical contracts.
type Descriptor struct {
	Kind      verify.AssetKind
	Name      string
	Ticker    string
	Details   string
	Precision uint64
	Supply    uint64
	SumWidth  uint
	Tokens    []uint64

	Allocations []Allocation
}

// rawAsset mirrors the #Asset schema for decoding. Pointer fields keep
// the optional/absent distinction CUE expresses with ?.
type rawAsset struct {
	Kind      string     `json:"kind"`
	Name      string     `json:"name"`
	Ticker    string     `json:"ticker,omitempty"`
	Details   string     `json:"details,omitempty"`
	Precision int64      `json:"precision"`
	Supply    *int64     `json:"supply,omitempty"`
	SumWidth  int64      `json:"sum_width"`
	Tokens    []int64    `json:"tokens,omitempty"`
	Allocs    []rawAlloc `json:"allocations"`
}

type rawAlloc struct {
	Amount int64  `json:"amount"`
	Token  *int64 `json:"token,omitempty"`
}

// Load reads and validates a descriptor file.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading descriptor: %v", err)}
	}
	return Parse(path, data)
}

// Parse validates descriptor source against the embedded schema and
// applies the kind-specific rules the schema cannot express.
func Parse(filename string, src []byte) (*Descriptor, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("internal schema: %v", err)}
	}

	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("compiling descriptor: %v", err)}
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("descriptor does not match schema: %v", err)}
	}

	assetVal := unified.LookupPath(cue.ParsePath("asset"))
	if !assetVal.Exists() {
		return nil, &LoadError{Code: ErrCodeSchema, Message: "descriptor has no asset declaration"}
	}

	var raw rawAsset
	if err := assetVal.Decode(&raw); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("decoding asset: %v", err)}
	}

	return fromRaw(&raw)
}

func fromRaw(raw *rawAsset) (*Descriptor, error) {
	kind := verify.AssetKind(raw.Kind)
	if !kind.Valid() {
		return nil, &LoadError{Code: ErrCodeKindRules, Message: fmt.Sprintf("unknown asset kind %q", raw.Kind)}
	}

	d := &Descriptor{
		Kind:      kind,
		Name:      norm.NFC.String(raw.Name),
		Ticker:    norm.NFC.String(raw.Ticker),
		Details:   norm.NFC.String(raw.Details),
		Precision: uint64(raw.Precision),
		SumWidth:  uint(raw.SumWidth),
	}
	if raw.Supply != nil {
		d.Supply = uint64(*raw.Supply)
	}
	for _, t := range raw.Tokens {
		d.Tokens = append(d.Tokens, uint64(t))
	}
	for _, a := range raw.Allocs {
		alloc := Allocation{Amount: uint64(a.Amount)}
		if a.Token != nil {
			t := uint64(*a.Token)
			alloc.Token = &t
		}
		d.Allocations = append(d.Allocations, alloc)
	}

	if err := d.checkKindRules(); err != nil {
		return nil, err
	}
	return d, nil
}

// checkKindRules enforces the relations between fields that the CUE
// schema leaves open.
func (d *Descriptor) checkKindRules() error {
	tokenKind := d.Kind != verify.KindFungible

	switch {
	case d.Kind == verify.KindFungible && d.Ticker == "":
		return &LoadError{Code: ErrCodeKindRules, Message: "fungible assets require a ticker"}
	case d.Kind == verify.KindFungible && d.Supply == 0:
		return &LoadError{Code: ErrCodeKindRules, Message: "fungible assets require a supply"}
	case d.Kind == verify.KindFungible && len(d.Tokens) > 0:
		return &LoadError{Code: ErrCodeKindRules, Message: "fungible assets declare no tokens"}
	case tokenKind && d.Supply != 0:
		return &LoadError{Code: ErrCodeKindRules, Message: fmt.Sprintf("%s assets have no supply field", d.Kind)}
	case tokenKind && len(d.Tokens) == 0:
		return &LoadError{Code: ErrCodeKindRules, Message: fmt.Sprintf("%s assets require at least one token", d.Kind)}
	case d.Kind == verify.KindUnique && len(d.Tokens) != 1:
		return &LoadError{Code: ErrCodeKindRules, Message: "unique assets declare exactly one token"}
	case d.SumWidth != verify.DefaultSumWidth && d.Kind != verify.KindFungible:
		return &LoadError{Code: ErrCodeKindRules, Message: "narrow sum width is only supported for fungible assets"}
	}

	declared := make(map[uint64]bool, len(d.Tokens))
	for _, t := range d.Tokens {
		if declared[t] {
			return &LoadError{Code: ErrCodeKindRules, Message: fmt.Sprintf("token %d declared twice", t)}
		}
		declared[t] = true
	}

	for i, a := range d.Allocations {
		if tokenKind {
			if a.Token == nil {
				return &LoadError{Code: ErrCodeTokenRef, Message: fmt.Sprintf("allocation %d is missing a token reference", i)}
			}
			if !declared[*a.Token] {
				return &LoadError{Code: ErrCodeTokenRef, Message: fmt.Sprintf("allocation %d references undeclared token %d", i, *a.Token)}
			}
		} else if a.Token != nil {
			return &LoadError{Code: ErrCodeTokenRef, Message: fmt.Sprintf("allocation %d carries a token reference on a fungible asset", i)}
		}
	}

	return nil
}

// Genesis compiles the descriptor into the contract's first operation.
// String metadata lives in the contract record; the naming facts carry
// placeholder payloads so the checkers see them as present.
func (d *Descriptor) Genesis() *state.Operation {
	op := &state.Operation{}

	if d.Ticker != "" {
		op.GlobalOut = append(op.GlobalOut, state.Scalar(state.TagTicker, 0))
	} else {
		op.GlobalOut = append(op.GlobalOut, state.Scalar(state.TagDetails, 0))
	}
	op.GlobalOut = append(op.GlobalOut,
		state.Scalar(state.TagName, 0),
		state.Scalar(state.TagPrecision, d.Precision),
	)

	if d.Kind == verify.KindFungible {
		op.GlobalOut = append(op.GlobalOut, state.Scalar(state.TagSupply, d.Supply))
	} else {
		for _, t := range d.Tokens {
			op.GlobalOut = append(op.GlobalOut, state.Scalar(state.TagTokenSpec, t))
		}
	}

	for _, a := range d.Allocations {
		if a.Token != nil {
			op.DestructibleOut = append(op.DestructibleOut, state.Allocation(a.Amount, *a.Token))
		} else {
			op.DestructibleOut = append(op.DestructibleOut, state.Scalar(state.TagAmount, a.Amount))
		}
	}

	return op
}
