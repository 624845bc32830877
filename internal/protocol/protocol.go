// Package protocol decodes raw command and response buffers into named
// field breakdowns, driven by a per-opcode schema table. Decoding is pure:
// it never touches hardware and the same input always yields the same
// breakdown.
package protocol

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidHex reports malformed hex input: odd length or non-hex digits.
var ErrInvalidHex = errors.New("protocol: invalid hex input")

// Direction selects which of a definition's field lists applies.
type Direction int

const (
	Command Direction = iota
	Response
)

func (d Direction) String() string {
	if d == Response {
		return "Response"
	}
	return "Command"
}

// Remainder marks a field that consumes every byte left in the buffer. It
// must be the last field in its list.
const Remainder = -1

// Field is one named slice of a buffer: a fixed byte length, or Remainder.
type Field struct {
	Name string `yaml:"name"`
	Len  int    `yaml:"len"`
}

// Definition names an opcode and lays out its fields in both directions.
// An empty field list means no payload is expected in that direction.
type Definition struct {
	Name     string  `yaml:"name"`
	Command  []Field `yaml:"command"`
	Response []Field `yaml:"response"`
}

// Table maps opcodes to definitions, with a single fallback definition for
// opcodes it does not know.
type Table struct {
	byOpcode map[byte]Definition
	fallback Definition
}

// Builtin returns the compiled-in table: the commands the front end offers
// plus the catch-all fallback that renders unknown traffic as one Data blob.
func Builtin() *Table {
	return &Table{
		byOpcode: map[byte]Definition{
			0x01: {
				Name:     "Read Status Register",
				Command:  []Field{{Name: "Command", Len: 1}, {Name: "Dummy Byte", Len: 1}},
				Response: []Field{{Name: "Status", Len: 1}, {Name: "Dummy Byte", Len: 1}},
			},
			0x06: {
				Name:    "Write Enable",
				Command: []Field{{Name: "Command", Len: 1}},
			},
			0xC7: {
				Name:    "Chip Erase",
				Command: []Field{{Name: "Command", Len: 1}},
			},
		},
		fallback: Definition{
			Name:     "Unknown Command",
			Command:  []Field{{Name: "Data", Len: Remainder}},
			Response: []Field{{Name: "Data", Len: Remainder}},
		},
	}
}

// Lookup returns the definition for an opcode, or the fallback.
func (t *Table) Lookup(opcode byte) Definition {
	if def, ok := t.byOpcode[opcode]; ok {
		return def
	}
	return t.fallback
}

// FieldValue is one decoded field: its name, the bytes it actually
// consumed, and their upper-case hex rendering.
type FieldValue struct {
	Name string
	Len  int
	Hex  string
}

// Breakdown is the decoded view of one buffer. Unparsed holds the hex of
// any bytes left over after all schema fields were consumed; it is empty
// exactly when the schema covered the whole buffer.
type Breakdown struct {
	Name      string
	Direction Direction
	Fields    []FieldValue
	Unparsed  string
}

// String renders the breakdown as the multi-line text shown to the user.
func (b Breakdown) String() string {
	if b.Name == "" {
		return "No data to parse."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)", b.Name, b.Direction)

	if len(b.Fields) == 0 && b.Unparsed == "" {
		if b.Direction == Response {
			sb.WriteString("\n - No response fields defined.")
		}
		return sb.String()
	}

	for _, f := range b.Fields {
		fmt.Fprintf(&sb, "\n - %s (%dB): 0x%s", f.Name, f.Len, f.Hex)
	}
	if b.Unparsed != "" {
		fmt.Fprintf(&sb, "\n - Unparsed Data: 0x%s", b.Unparsed)
	}
	return sb.String()
}

// ParseHex decodes a case-insensitive hex string, failing with
// ErrInvalidHex on odd length or non-hex characters.
func ParseHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrInvalidHex, len(s))
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return data, nil
}

// Decode maps a hex buffer to a named field breakdown. The first byte
// selects the definition; the direction selects its field list. Fields are
// consumed in order until the list or the buffer is exhausted, and any
// trailing bytes end up in Unparsed. An empty field list yields a breakdown
// with no fields and no unparsed trailer, and an empty input decodes to an
// empty breakdown; neither is an error.
func (t *Table) Decode(hexStr string, dir Direction) (Breakdown, error) {
	data, err := ParseHex(hexStr)
	if err != nil {
		return Breakdown{}, err
	}
	if len(data) == 0 {
		return Breakdown{Direction: dir}, nil
	}

	def := t.Lookup(data[0])
	fields := def.Command
	if dir == Response {
		fields = def.Response
	}

	b := Breakdown{Name: def.Name, Direction: dir}
	// An empty field list means no payload is expected in this direction;
	// the buffer is not treated as unparsed trailing data.
	if len(fields) == 0 {
		return b, nil
	}

	cursor := 0
	for _, f := range fields {
		if cursor >= len(data) {
			break
		}
		end := len(data)
		if f.Len != Remainder {
			end = cursor + f.Len
			if end > len(data) {
				end = len(data)
			}
		}
		chunk := data[cursor:end]
		b.Fields = append(b.Fields, FieldValue{
			Name: f.Name,
			Len:  len(chunk),
			Hex:  strings.ToUpper(hex.EncodeToString(chunk)),
		})
		cursor = end
	}

	if cursor < len(data) {
		b.Unparsed = strings.ToUpper(hex.EncodeToString(data[cursor:]))
	}
	return b, nil
}
