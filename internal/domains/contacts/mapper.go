package contacts

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ColumnMapping maps a canonical field to the index of the column that feeds
// it. Fields with no matching column are absent.
type ColumnMapping map[string]int

// Mapper turns tabular or keyed contact data into ContactRecords by matching
// header names against an AliasTable. A Mapper is safe for concurrent use.
type Mapper struct {
	table     AliasTable
	separator rune
	newID     func() string
}

type Option func(*Mapper)

// WithSeparator sets the cell separator used by MapCSV. Default ','.
func WithSeparator(sep rune) Option {
	return func(m *Mapper) {
		m.separator = sep
	}
}

// WithIDGenerator replaces the UUID generator used for record IDs.
func WithIDGenerator(fn func() string) Option {
	return func(m *Mapper) {
		m.newID = fn
	}
}

func NewMapper(table AliasTable, opts ...Option) *Mapper {
	m := &Mapper{
		table:     table,
		separator: ',',
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Table returns the alias table the mapper resolves against.
func (m *Mapper) Table() AliasTable {
	return m.table
}

// Resolve picks a column for every canonical field. Fields are visited in
// table order and aliases in alias order; for each alias the headers are
// scanned left to right and the first one equal to or containing the alias
// wins. A column taken by one field is not offered to later fields.
func (m *Mapper) Resolve(header []string) ColumnMapping {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}

	mapping := make(ColumnMapping, len(m.table.Fields))
	claimed := make([]bool, len(normalized))

	for _, fa := range m.table.Fields {
		col := findColumn(normalized, claimed, fa.Aliases)
		if col < 0 {
			continue
		}
		mapping[fa.Field] = col
		claimed[col] = true
	}

	return mapping
}

func findColumn(headers []string, claimed []bool, aliases []string) int {
	for _, alias := range aliases {
		for i, h := range headers {
			if claimed[i] || h == "" {
				continue
			}
			// Contains covers the exact match as well.
			if strings.Contains(h, alias) {
				return i
			}
		}
	}
	return -1
}

// MapRecords maps data rows under header into records. Rows without any
// contact channel are dropped; the rest keep their input order.
func (m *Mapper) MapRecords(header []string, rows [][]string) []ContactRecord {
	mapping := m.Resolve(header)

	records := make([]ContactRecord, 0, len(rows))
	for _, row := range rows {
		if rec, ok := m.build(row, mapping); ok {
			records = append(records, rec)
		}
	}
	return records
}

// MapKeyedRecords maps already-structured records, such as rows of a
// third-party API response, where each key plays the role of a header.
// Keys are considered in lexicographic order. Values must be JSON scalars;
// keys holding objects or arrays are ignored.
func (m *Mapper) MapKeyedRecords(records []map[string]any) []ContactRecord {
	out := make([]ContactRecord, 0, len(records))
	for _, rec := range records {
		header := make([]string, 0, len(rec))
		for k, v := range rec {
			if _, ok := scalarString(v); ok {
				header = append(header, k)
			}
		}
		slices.Sort(header)

		row := make([]string, len(header))
		for i, k := range header {
			row[i], _ = scalarString(rec[k])
		}

		if built, ok := m.build(row, m.Resolve(header)); ok {
			out = append(out, built)
		}
	}
	return out
}

func (m *Mapper) build(row []string, mapping ColumnMapping) (ContactRecord, bool) {
	fields := make(map[string]string, len(m.table.Fields))
	for _, fa := range m.table.Fields {
		value := ""
		if col, ok := mapping[fa.Field]; ok && col < len(row) {
			value = cleanCell(row[col])
		}
		fields[fa.Field] = value
	}

	rec := ContactRecord{Fields: fields}
	if !rec.Usable() {
		return ContactRecord{}, false
	}
	rec.ID = m.newID()
	return rec, true
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.Trim(h, `"'`)
	return strings.TrimSpace(h)
}

func cleanCell(c string) string {
	c = strings.TrimSpace(c)
	if len(c) >= 2 && c[0] == '"' && c[len(c)-1] == '"' {
		c = strings.ReplaceAll(c[1:len(c)-1], `""`, `"`)
	}
	return strings.TrimSpace(c)
}

func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case json.Number:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case int:
		return strconv.Itoa(val), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	default:
		return "", false
	}
}
