package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
)

var (
	// ErrInvalidCursor indicates the cursor could not be decoded.
	ErrInvalidCursor = errors.New("invalid cursor format")
	// ErrCursorType indicates a cursor minted for a different collection.
	ErrCursorType = errors.New("cursor type mismatch")
)

// Cursor is an opaque pagination position: a collection type plus the ID of the last
// item on the previous page. An empty Value means "start of collection".
type Cursor struct {
	Type  string
	Value string
}

// Encode returns the URL-safe Base64 form of "type:value".
func (c Cursor) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(c.Type + ":" + c.Value))
}

// DecodeCursor parses s and checks it was issued for cursorType. An empty s decodes to
// the zero Cursor.
func DecodeCursor(s, cursorType string) (Cursor, error) {
	if s == "" {
		return Cursor{}, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	typ, value, ok := strings.Cut(string(b), ":")
	if !ok {
		return Cursor{}, ErrInvalidCursor
	}
	if typ != cursorType {
		return Cursor{}, ErrCursorType
	}
	return Cursor{Type: typ, Value: value}, nil
}
