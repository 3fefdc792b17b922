// Package state defines the data model shared by every verifier:
// typed values, the two state categories (append-only global facts and
// consumable destructible cells), operations, and cursors.
//
// This package contains type definitions and cursor mechanics only. All
// other internal packages import state; state imports nothing internal.
// This keeps the state model the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - A payload slot that is absent is distinct from one set to zero.
//     Elem's zero value is "absent"; checks never conflate the two.
//   - Everything here is scoped to a single operation's validation run.
//     Nothing is mutated after construction except cursor positions.
package state
