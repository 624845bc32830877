package protocol

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// fileDefinition is one YAML schema entry. Opcode is a two-digit hex byte;
// field lengths use -1 for remainder fields.
type fileDefinition struct {
	Opcode   string  `yaml:"opcode"`
	Name     string  `yaml:"name"`
	Command  []Field `yaml:"command"`
	Response []Field `yaml:"response"`
}

// LoadDefinitions merges YAML definitions from r over the table. A
// redefined opcode replaces the built-in entry wholesale; built-ins not
// mentioned stay untouched, and the fallback definition is never replaced.
func (t *Table) LoadDefinitions(r io.Reader) error {
	var defs []fileDefinition
	if err := yaml.NewDecoder(r).Decode(&defs); err != nil {
		return fmt.Errorf("protocol: parse definitions: %w", err)
	}

	for i, fd := range defs {
		opcode, err := strconv.ParseUint(fd.Opcode, 16, 8)
		if err != nil {
			return fmt.Errorf("protocol: definition %d: bad opcode %q: %w", i, fd.Opcode, err)
		}
		if fd.Name == "" {
			return fmt.Errorf("protocol: definition %d (opcode %s): missing name", i, fd.Opcode)
		}
		if err := validateFields(fd.Command); err != nil {
			return fmt.Errorf("protocol: definition %q command fields: %w", fd.Name, err)
		}
		if err := validateFields(fd.Response); err != nil {
			return fmt.Errorf("protocol: definition %q response fields: %w", fd.Name, err)
		}

		t.byOpcode[byte(opcode)] = Definition{
			Name:     fd.Name,
			Command:  fd.Command,
			Response: fd.Response,
		}
	}
	return nil
}

func validateFields(fields []Field) error {
	for i, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("field %d: missing name", i)
		}
		switch {
		case f.Len == Remainder:
			if i != len(fields)-1 {
				return fmt.Errorf("field %q: remainder must be the last field", f.Name)
			}
		case f.Len <= 0:
			return fmt.Errorf("field %q: invalid length %d", f.Name, f.Len)
		}
	}
	return nil
}
