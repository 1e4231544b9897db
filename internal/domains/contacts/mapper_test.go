package contacts

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMapper(t *testing.T, opts ...Option) *Mapper {
	t.Helper()
	n := 0
	opts = append([]Option{WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})}, opts...)
	return NewMapper(DefaultAliasTable(), opts...)
}

func TestMapRecords_HeaderScenario(t *testing.T) {
	m := newTestMapper(t)

	records := m.MapRecords(
		[]string{"First Name", "Email", "Instagram"},
		[][]string{{"Sam", "sam@co.com", "@samco"}},
	)

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "Sam", rec.Get(FieldFirstName))
	assert.Equal(t, "sam@co.com", rec.Get(FieldEmail))
	assert.Equal(t, "@samco", rec.Get(FieldInstagram))
	assert.Equal(t, "", rec.Get(FieldLastName))

	// Every canonical field is present, resolved or not.
	assert.Len(t, rec.Fields, len(DefaultAliasTable().Fields))
	v, ok := rec.Fields[FieldCountry]
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestMapRecords_DropsRowsWithoutChannel(t *testing.T) {
	m := newTestMapper(t)

	records := m.MapRecords(
		[]string{"first", "last", "email"},
		[][]string{
			{"John", "Doe", ""},
			{"Jane", "Roe", "jane@roe.com"},
		},
	)

	require.Len(t, records, 1)
	assert.Equal(t, "Jane", records[0].Get(FieldFirstName))
	assert.Equal(t, "Roe", records[0].Get(FieldLastName))
}

func TestMapRecords_AnyChannelKeepsRow(t *testing.T) {
	m := newTestMapper(t)
	header := []string{"name", "email", "phone", "instagram", "tiktok"}

	rows := [][]string{
		{"a", "", "555-0100", "", ""},
		{"b", "", "", "@b", ""},
		{"c", "", "", "", "@c"},
		{"d", "   ", "", "", ""},
	}

	records := m.MapRecords(header, rows)
	require.Len(t, records, 3)
	assert.Equal(t, "555-0100", records[0].Get(FieldPhone))
	assert.Equal(t, "@b", records[1].Get(FieldInstagram))
	assert.Equal(t, "@c", records[2].Get(FieldTikTok))
}

func TestMapRecords_RoundTripFirstAliases(t *testing.T) {
	table := DefaultAliasTable()
	m := NewMapper(table)

	header := make([]string, len(table.Fields))
	row := make([]string, len(table.Fields))
	for i, fa := range table.Fields {
		header[i] = fa.Aliases[0]
		row[i] = fmt.Sprintf("  value-%d ", i)
	}

	records := m.MapRecords(header, [][]string{row})
	require.Len(t, records, 1)
	for i, fa := range table.Fields {
		assert.Equal(t, fmt.Sprintf("value-%d", i), records[0].Get(fa.Field), "field %s", fa.Field)
	}
}

func TestMapRecords_RaggedRowsAreEmptyNotErrors(t *testing.T) {
	m := newTestMapper(t)

	records := m.MapRecords(
		[]string{"Email", "First Name", "Last Name", "City"},
		[][]string{{"ana@x.com", "Ana"}},
	)

	require.Len(t, records, 1)
	assert.Equal(t, "Ana", records[0].Get(FieldFirstName))
	assert.Equal(t, "", records[0].Get(FieldLastName))
	assert.Equal(t, "", records[0].Get(FieldCity))
}

func TestMapRecords_PreservesOrderWithoutDedup(t *testing.T) {
	m := newTestMapper(t)
	row := []string{"Dup", "dup@x.com"}

	records := m.MapRecords(
		[]string{"first name", "email"},
		[][]string{row, {"Other", "other@x.com"}, row},
	)

	require.Len(t, records, 3)
	assert.Equal(t, "Dup", records[0].Get(FieldFirstName))
	assert.Equal(t, "Other", records[1].Get(FieldFirstName))
	assert.Equal(t, "Dup", records[2].Get(FieldFirstName))
	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, []string{records[0].ID, records[1].ID, records[2].ID})
}

func TestMapRecords_DefaultIDsAreUnique(t *testing.T) {
	m := NewMapper(DefaultAliasTable())

	records := m.MapRecords(
		[]string{"email"},
		[][]string{{"same@x.com"}, {"same@x.com"}},
	)

	require.Len(t, records, 2)
	assert.NotEmpty(t, records[0].ID)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestMapRecords_NeverGrows(t *testing.T) {
	m := newTestMapper(t)
	header := []string{"first name", "email", "phone"}
	rows := [][]string{
		{"a", "", ""},
		{"b", "b@x.com", ""},
		{},
		{"c", "", "555"},
		{"", "", ""},
	}

	records := m.MapRecords(header, rows)
	assert.LessOrEqual(t, len(records), len(rows))
	assert.Len(t, records, 2)
}

func TestMapRecords_StripsQuotesFromPreSplitCells(t *testing.T) {
	m := newTestMapper(t)

	records := m.MapRecords(
		[]string{`"Business Name"`, `"Email"`},
		[][]string{{`"Smith, Jane"`, ` "jane@x.com" `}},
	)

	require.Len(t, records, 1)
	assert.Equal(t, "Smith, Jane", records[0].Get(FieldBusinessName))
	assert.Equal(t, "jane@x.com", records[0].Get(FieldEmail))
}

func TestResolve(t *testing.T) {
	m := newTestMapper(t)

	tests := []struct {
		name   string
		header []string
		want   ColumnMapping
	}{
		{
			name:   "normalizes case, whitespace and quotes",
			header: []string{`  "FIRST NAME" `, "'E-Mail'", "Mobile Number"},
			want:   ColumnMapping{FieldFirstName: 0, FieldEmail: 1, FieldPhone: 2},
		},
		{
			name:   "earlier alias beats earlier header",
			header: []string{"first", "first name", "email"},
			want:   ColumnMapping{FieldFirstName: 1, FieldEmail: 2},
		},
		{
			name:   "first header wins within one alias",
			header: []string{"Email", "Work Email"},
			want:   ColumnMapping{FieldEmail: 0},
		},
		{
			name:   "substring match",
			header: []string{"Contact Email Address", "Company Name (legal)"},
			want:   ColumnMapping{FieldEmail: 0, FieldBusinessName: 1},
		},
		{
			name:   "byte order mark on first header",
			header: []string{"\ufeffEmail", "City"},
			want:   ColumnMapping{FieldEmail: 0, FieldCity: 1},
		},
		{
			name:   "unknown headers resolve nothing",
			header: []string{"favourite colour", ""},
			want:   ColumnMapping{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Resolve(tt.header))
		})
	}
}

func TestResolve_EarlierFieldClaimsSharedColumn(t *testing.T) {
	table := AliasTable{Fields: []FieldAliases{
		{Field: "display", Aliases: []string{"name"}},
		{Field: "legal", Aliases: []string{"name"}},
		{Field: "email", Aliases: []string{"email"}},
	}}
	m := NewMapper(table)

	mapping := m.Resolve([]string{"Name", "Email"})

	assert.Equal(t, ColumnMapping{"display": 0, "email": 1}, mapping)
}

func TestMapKeyedRecords(t *testing.T) {
	m := newTestMapper(t)

	records := m.MapKeyedRecords([]map[string]any{
		{
			"First Name": "Ana",
			"Email":      "ana@x.com",
			"Phone":      float64(5551234),
			"Followers":  json.Number("1200"),
			"Tags":       []any{"vip"},
			"Profile":    map[string]any{"instagram": "@nested"},
		},
		{
			"first_name": "NoChannel",
			"city":       "Lisbon",
		},
		{
			"ig_handle": "@bruno",
			"verified":  true,
			"lastName":  nil,
		},
	})

	require.Len(t, records, 2)

	assert.Equal(t, "Ana", records[0].Get(FieldFirstName))
	assert.Equal(t, "ana@x.com", records[0].Get(FieldEmail))
	assert.Equal(t, "5551234", records[0].Get(FieldPhone))
	assert.Equal(t, "", records[0].Get(FieldInstagram), "nested objects are ignored")

	assert.Equal(t, "@bruno", records[1].Get(FieldInstagram))
	assert.Equal(t, "", records[1].Get(FieldLastName))
}

func TestMapKeyedRecords_KeysResolvedInSortedOrder(t *testing.T) {
	m := newTestMapper(t)

	for n := 0; n < 20; n++ {
		records := m.MapKeyedRecords([]map[string]any{
			{"work email": "b@x.com", "email": "a@x.com"},
		})
		require.Len(t, records, 1)
		assert.Equal(t, "a@x.com", records[0].Get(FieldEmail))
	}
}

func TestMapKeyedRecords_Empty(t *testing.T) {
	m := newTestMapper(t)

	assert.Empty(t, m.MapKeyedRecords(nil))
	assert.Empty(t, m.MapKeyedRecords([]map[string]any{}))
}

func TestContactRecord_Context(t *testing.T) {
	rec := ContactRecord{ID: "x", Fields: map[string]string{FieldFirstName: "Ana", FieldEmail: "ana@x.com"}}

	ctx := rec.Context()
	ctx[FieldFirstName] = "changed"

	assert.Equal(t, "Ana", rec.Get(FieldFirstName), "context must be a copy")
	assert.NotContains(t, ctx, "id")
}

func TestContactRecord_JSON(t *testing.T) {
	rec := ContactRecord{ID: "abc", Fields: map[string]string{FieldEmail: "ana@x.com", FieldLastName: ""}}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","email":"ana@x.com","lastName":""}`, string(data))

	var back ContactRecord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec, back)
}
