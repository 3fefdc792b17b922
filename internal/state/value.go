package state

import "fmt"

// Tag identifies the semantic kind of a typed value. The registry is
// deliberately small and overlapping: the same numeric slot is reused
// across the global and owned namespaces, so aliases are part of the
// contract, not an accident.
type Tag uint64

const (
	// TagName marks the global asset-name fact.
	TagName Tag = 0

	// TagTicker marks the global ticker fact (fungible assets).
	TagTicker Tag = 1

	// TagPrecision marks the global precision fact. For fractionable
	// tokens the same value doubles as the per-token fractions cap.
	TagPrecision Tag = 2

	// TagSupply marks the global circulating-supply fact.
	TagSupply Tag = 3

	// TagDetails aliases TagTicker: non-ticker assets declare free-form
	// details in the same preamble slot.
	TagDetails = TagTicker

	// TagTokenSpec aliases TagSupply: non-fungible assets declare token
	// specs where fungible ones declare supply.
	TagTokenSpec = TagSupply

	// TagAmount marks owned (destructible) value. It shares the numeric
	// slot with TagName; the two never appear in the same sequence.
	TagAmount Tag = 0
)

// Elem is a single payload slot of a typed value. The zero value is
// "absent", which is a distinct, checkable condition from "set to 0".
type Elem struct {
	val uint64
	set bool
}

// E returns a set Elem holding v.
func E(v uint64) Elem { return Elem{val: v, set: true} }

// None is the absent Elem.
var None = Elem{}

// IsSet reports whether the slot holds a value.
func (e Elem) IsSet() bool { return e.set }

// Val returns the slot's value. Absent slots read as 0; callers that
// care about the distinction must check IsSet first.
func (e Elem) Val() uint64 { return e.val }

// Eq reports slot equality: two absent slots are equal, an absent slot
// never equals a set one.
func (e Elem) Eq(o Elem) bool {
	return e.set == o.set && e.val == o.val
}

// Fits reports whether the slot's value fits in the given bit width.
// Absent slots fit any width. Widths of 64 and above always fit.
func (e Elem) Fits(bits uint) bool {
	if !e.set || bits >= 64 {
		return true
	}
	return e.val>>bits == 0
}

func (e Elem) String() string {
	if !e.set {
		return "~"
	}
	return fmt.Sprintf("%d", e.val)
}

// Value is a typed value: a tag plus up to three payload slots. Which
// slots are occupied depends on the tag; slots a tag does not use must
// be absent, and verifiers treat a populated-but-unexpected slot as an
// error, never as something to ignore.
type Value struct {
	Tag Tag
	V1  Elem
	V2  Elem
	V3  Elem
}

// Scalar builds a single-slot value (plain amounts, preamble facts).
func Scalar(tag Tag, v1 uint64) Value {
	return Value{Tag: tag, V1: E(v1)}
}

// Pair builds a two-slot value (an allocation: amount plus token id).
func Pair(tag Tag, v1, v2 uint64) Value {
	return Value{Tag: tag, V1: E(v1), V2: E(v2)}
}

// Allocation builds an owned token allocation: amount in the first
// slot, token id in the second.
func Allocation(amount, tokenID uint64) Value {
	return Pair(TagAmount, amount, tokenID)
}

func (v Value) String() string {
	return fmt.Sprintf("(%d %s %s %s)", v.Tag, v.V1, v.V2, v.V3)
}
