package protocol

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDecodeReadStatusCommand(t *testing.T) {
	b, err := Builtin().Decode("0100", Command)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Name != "Read Status Register" {
		t.Fatalf("name = %q", b.Name)
	}
	want := []FieldValue{
		{Name: "Command", Len: 1, Hex: "01"},
		{Name: "Dummy Byte", Len: 1, Hex: "00"},
	}
	if !reflect.DeepEqual(b.Fields, want) {
		t.Fatalf("fields = %+v, want %+v", b.Fields, want)
	}
	if b.Unparsed != "" {
		t.Fatalf("unparsed = %q, want none", b.Unparsed)
	}
}

func TestDecodeUnknownOpcodeUsesFallback(t *testing.T) {
	b, err := Builtin().Decode("FF0102", Command)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Name != "Unknown Command" {
		t.Fatalf("name = %q", b.Name)
	}
	want := []FieldValue{{Name: "Data", Len: 3, Hex: "FF0102"}}
	if !reflect.DeepEqual(b.Fields, want) {
		t.Fatalf("fields = %+v, want %+v", b.Fields, want)
	}
}

func TestDecodeWriteEnableResponseHasNoFields(t *testing.T) {
	b, err := Builtin().Decode("06", Response)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Name != "Write Enable" || len(b.Fields) != 0 {
		t.Fatalf("breakdown = %+v, want named empty breakdown", b)
	}
	if b.Unparsed != "" {
		t.Fatalf("unparsed = %q, want none", b.Unparsed)
	}
	want := "Write Enable (Response)\n - No response fields defined."
	if got := b.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestDecodeCaseInsensitive(t *testing.T) {
	upper, err := Builtin().Decode("C7", Command)
	if err != nil {
		t.Fatalf("decode upper: %v", err)
	}
	lower, err := Builtin().Decode("c7", Command)
	if err != nil {
		t.Fatalf("decode lower: %v", err)
	}
	if upper.Name != "Chip Erase" || lower.Name != upper.Name {
		t.Fatalf("names = %q / %q", upper.Name, lower.Name)
	}
}

func TestDecodeMalformedHex(t *testing.T) {
	for _, in := range []string{"ZZ", "ABC", "0x01", "0 1"} {
		if _, err := Builtin().Decode(in, Command); !errors.Is(err, ErrInvalidHex) {
			t.Errorf("Decode(%q) error = %v, want ErrInvalidHex", in, err)
		}
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	b, err := Builtin().Decode("", Response)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.String() != "No data to parse." {
		t.Fatalf("String() = %q", b.String())
	}
}

// Unparsed must be present exactly when the schema consumed fewer bytes
// than the buffer holds.
func TestDecodeUnparsedTrailer(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantUnparsed string
	}{
		{"exact fit", "0100", ""},
		{"trailing bytes", "0100AABB", "AABB"},
		{"command with payload after single field", "06DEAD", "DEAD"},
		{"buffer shorter than schema", "01", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Builtin().Decode(tt.in, Command)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if b.Unparsed != tt.wantUnparsed {
				t.Fatalf("unparsed = %q, want %q", b.Unparsed, tt.wantUnparsed)
			}
			consumed := 0
			for _, f := range b.Fields {
				consumed += f.Len
			}
			total := len(tt.in) / 2
			if (b.Unparsed != "") != (consumed < total) {
				t.Fatalf("unparsed presence inconsistent: consumed=%d total=%d unparsed=%q",
					consumed, total, b.Unparsed)
			}
		})
	}
}

func TestDecodeStopsWhenBufferExhausted(t *testing.T) {
	// Read Status defines two 1-byte fields; a 1-byte buffer yields one.
	b, err := Builtin().Decode("01", Command)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(b.Fields) != 1 || b.Fields[0].Name != "Command" {
		t.Fatalf("fields = %+v", b.Fields)
	}
}

func TestBreakdownString(t *testing.T) {
	b, err := Builtin().Decode("0100", Command)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "Read Status Register (Command)\n - Command (1B): 0x01\n - Dummy Byte (1B): 0x00"
	if got := b.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestLoadDefinitionsOverlay(t *testing.T) {
	overlay := `
- opcode: "9F"
  name: Read JEDEC ID
  command:
    - {name: Command, len: 1}
  response:
    - {name: Manufacturer, len: 1}
    - {name: Device ID, len: -1}
- opcode: "06"
  name: Write Enable Latch
  command:
    - {name: Command, len: 1}
`
	table := Builtin()
	if err := table.LoadDefinitions(strings.NewReader(overlay)); err != nil {
		t.Fatalf("LoadDefinitions: %v", err)
	}

	b, err := table.Decode("9FEF4018", Response)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Name != "Read JEDEC ID" {
		t.Fatalf("name = %q", b.Name)
	}
	want := []FieldValue{
		{Name: "Manufacturer", Len: 1, Hex: "9F"},
		{Name: "Device ID", Len: 3, Hex: "EF4018"},
	}
	if !reflect.DeepEqual(b.Fields, want) {
		t.Fatalf("fields = %+v, want %+v", b.Fields, want)
	}

	// Redefined opcode replaces the built-in; untouched ones survive.
	if got, _ := table.Decode("06", Command); got.Name != "Write Enable Latch" {
		t.Fatalf("redefined name = %q", got.Name)
	}
	if got, _ := table.Decode("C7", Command); got.Name != "Chip Erase" {
		t.Fatalf("builtin name = %q", got.Name)
	}
}

func TestLoadDefinitionsRejectsMisplacedRemainder(t *testing.T) {
	overlay := `
- opcode: "A0"
  name: Broken
  command:
    - {name: Data, len: -1}
    - {name: Tail, len: 1}
`
	err := Builtin().LoadDefinitions(strings.NewReader(overlay))
	if err == nil || !strings.Contains(err.Error(), "remainder must be the last field") {
		t.Fatalf("error = %v, want remainder placement error", err)
	}
}

func TestLoadDefinitionsRejectsBadOpcode(t *testing.T) {
	overlay := `
- opcode: "XYZ"
  name: Broken
`
	if err := Builtin().LoadDefinitions(strings.NewReader(overlay)); err == nil {
		t.Fatal("expected bad opcode error")
	}
}

func TestCatalogLookup(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Read Status", "0100"},
		{"Write Enable", "06"},
		{"Chip Erase", "C7"},
	}
	for _, tt := range tests {
		got, ok := CatalogLookup(tt.label)
		if !ok || got != tt.want {
			t.Errorf("CatalogLookup(%q) = %q, %v; want %q", tt.label, got, ok, tt.want)
		}
	}
	if _, ok := CatalogLookup("Nope"); ok {
		t.Error("CatalogLookup(Nope) should miss")
	}
}
