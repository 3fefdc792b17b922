// Package verify implements the verification algorithm family for
// digital-asset contracts: one deterministic, side-effect-free checker
// per asset kind (fungible, unique, divisible, collection) and per
// lifecycle stage (genesis vs. transfer).
//
// A checker receives a single state.Operation and either accepts it
// (nil error) or rejects it with an *Error carrying a typed code and a
// stable numeric errno. Checkers perform no I/O, share no mutable
// state, and are idempotent: validating the same operation twice yields
// the same verdict and code. Independent operations may be validated
// concurrently on separate Verifier values or the same one - Verifier
// is immutable after construction.
//
// Dispatch follows the conventional entry-point wiring: every asset
// kind exposes genesis (0), transfer (1), and blank self-transfer
// (0xFF, an alias of transfer). The Verifier type holds that table and
// rejects unknown entry points.
//
// The building blocks shared by every kind - the three-fact asset
// preamble and the filtered, overflow-checked conservation sum - live
// in shared.go and sum.go.
package verify
