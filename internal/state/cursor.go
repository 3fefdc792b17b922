package state

// Cursor is a forward-only, resettable iterator over one of an
// operation's four sequences. Exhaustion is an observable condition:
// Next reports it through its second return, and Exhausted peeks at it
// without consuming anything.
//
// Cursors are cheap; verifiers create a fresh one per pass rather than
// sharing positions.
type Cursor struct {
	items []Value
	pos   int
}

// NewCursor returns a cursor positioned at the start of items.
func NewCursor(items []Value) *Cursor {
	return &Cursor{items: items}
}

// Next returns the next value and true, or the zero Value and false
// once the sequence is exhausted.
func (c *Cursor) Next() (Value, bool) {
	if c.pos >= len(c.items) {
		return Value{}, false
	}
	v := c.items[c.pos]
	c.pos++
	return v, true
}

// Exhausted reports whether a subsequent Next would fail, without
// advancing the cursor.
func (c *Cursor) Exhausted() bool {
	return c.pos >= len(c.items)
}

// Reset rewinds the cursor to the start of its sequence.
func (c *Cursor) Reset() {
	c.pos = 0
}

// Len returns the total length of the underlying sequence, independent
// of the cursor position.
func (c *Cursor) Len() int {
	return len(c.items)
}
