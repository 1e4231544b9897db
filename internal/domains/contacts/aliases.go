package contacts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var defaultAliases []byte

// FieldAliases lists the header spellings that resolve to one canonical field.
type FieldAliases struct {
	Field   string   `yaml:"field" json:"field"`
	Aliases []string `yaml:"aliases" json:"aliases"`
}

// AliasTable is the ordered set of canonical fields the mapper recognises.
// Order matters twice: it is the order fields are resolved in (earlier fields
// claim ambiguous columns) and the order of keys in every mapped record.
type AliasTable struct {
	Fields []FieldAliases `yaml:"fields" json:"fields"`
}

var ErrInvalidAliasTable = errors.New("invalid alias table")

// DefaultAliasTable returns the alias table shipped with the binary.
func DefaultAliasTable() AliasTable {
	table, err := LoadAliasTable(bytes.NewReader(defaultAliases))
	if err != nil {
		panic(fmt.Sprintf("embedded alias table: %v", err))
	}
	return table
}

// LoadAliasFile reads an alias table from a YAML file on disk.
func LoadAliasFile(path string) (AliasTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return AliasTable{}, fmt.Errorf("open alias file: %w", err)
	}
	defer f.Close()

	return LoadAliasTable(f)
}

// LoadAliasTable decodes and validates a YAML alias table. Aliases are
// lowercased and trimmed so authors don't have to.
func LoadAliasTable(r io.Reader) (AliasTable, error) {
	var table AliasTable
	if err := yaml.NewDecoder(r).Decode(&table); err != nil {
		return AliasTable{}, fmt.Errorf("%w: decode: %v", ErrInvalidAliasTable, err)
	}

	if len(table.Fields) == 0 {
		return AliasTable{}, fmt.Errorf("%w: no fields defined", ErrInvalidAliasTable)
	}

	seen := make(map[string]bool, len(table.Fields))
	for i, fa := range table.Fields {
		fa.Field = strings.TrimSpace(fa.Field)
		if fa.Field == "" {
			return AliasTable{}, fmt.Errorf("%w: field %d has no name", ErrInvalidAliasTable, i)
		}
		if seen[fa.Field] {
			return AliasTable{}, fmt.Errorf("%w: field %q defined twice", ErrInvalidAliasTable, fa.Field)
		}
		seen[fa.Field] = true

		aliases := make([]string, 0, len(fa.Aliases))
		for _, a := range fa.Aliases {
			a = strings.ToLower(strings.TrimSpace(a))
			if a != "" {
				aliases = append(aliases, a)
			}
		}
		if len(aliases) == 0 {
			return AliasTable{}, fmt.Errorf("%w: field %q has no aliases", ErrInvalidAliasTable, fa.Field)
		}

		table.Fields[i] = FieldAliases{Field: fa.Field, Aliases: aliases}
	}

	return table, nil
}

// FieldNames returns the canonical field names in resolution order.
func (t AliasTable) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, fa := range t.Fields {
		names[i] = fa.Field
	}
	return names
}

// ResolveAliasTable returns the table at path, or the embedded default when
// path is empty.
func ResolveAliasTable(path string) (AliasTable, error) {
	if path == "" {
		return DefaultAliasTable(), nil
	}
	return LoadAliasFile(path)
}
