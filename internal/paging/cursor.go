package paging

type cursorState uint8

const (
	cursorUnset cursorState = iota
	cursorToken
	cursorExhausted
)

// Cursor is the position to resume pagination from. The zero value is unset.
type Cursor struct {
	state cursorState
	token string
}

// TokenCursor returns a cursor positioned at token. An empty token yields an
// exhausted cursor since the source uses it to signal the last page.
func TokenCursor(token string) Cursor {
	if token == "" {
		return ExhaustedCursor()
	}
	return Cursor{state: cursorToken, token: token}
}

// ExhaustedCursor returns the cursor stored after the last page was read.
func ExhaustedCursor() Cursor {
	return Cursor{state: cursorExhausted}
}

// Token returns the resume token and whether the cursor holds one.
func (c Cursor) Token() (string, bool) {
	return c.token, c.state == cursorToken
}

// IsUnset reports whether no page has been read since the last reset.
func (c Cursor) IsUnset() bool {
	return c.state == cursorUnset
}

// IsExhausted reports whether the source signalled there are no more pages.
func (c Cursor) IsExhausted() bool {
	return c.state == cursorExhausted
}

func (c Cursor) String() string {
	switch c.state {
	case cursorToken:
		return c.token
	case cursorExhausted:
		return "<exhausted>"
	default:
		return "<unset>"
	}
}
