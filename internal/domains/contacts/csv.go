package contacts

import (
	"encoding/csv"
	"io"
)

// ParseCSV splits raw CSV text into rows. Quoted cells may contain the
// separator and line breaks; the quotes themselves are not part of the
// value. Blank lines are skipped and rows may be ragged.
func ParseCSV(r io.Reader, sep rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &MalformedInputError{Records: len(rows), Err: err}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MapCSV parses raw CSV text and maps it into records. The first row is the
// header; at least one data row must follow or a *MalformedInputError is
// returned.
func (m *Mapper) MapCSV(r io.Reader) ([]ContactRecord, error) {
	header, rows, err := m.ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return m.MapRecords(header, rows), nil
}

// ReadCSV parses raw CSV text into its header and data rows, enforcing the
// same shape rules as MapCSV.
func (m *Mapper) ReadCSV(r io.Reader) ([]string, [][]string, error) {
	rows, err := ParseCSV(r, m.separator)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, &MalformedInputError{Records: len(rows)}
	}
	return rows[0], rows[1:], nil
}
