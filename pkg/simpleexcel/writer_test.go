package simpleexcel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestTableRange(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		rows     int
		expected string
	}{
		{"Single cell", 1, 0, "A1:A1"},
		{"Small", 3, 10, "A1:C11"},
		{"Past Z", 28, 1, "A1:AB2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TableRange(tt.width, tt.rows)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := TableRange(0, 3)
	assert.Error(t, err)
	_, err = TableRange(2, -1)
	assert.Error(t, err)
}

func TestWriteTable(t *testing.T) {
	tbl := &Table{
		Headers: []string{"Name", "Qty", "Price"},
		Rows: [][]interface{}{
			{"Apple", int64(3), 1.5},
			{"Pear", nil, 2.25},
		},
	}

	buf, err := WriteTable(tbl, DefaultWriteOptions())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Qty", "Price"}, rows[0])
	assert.Equal(t, []string{"Apple", "3", "1.5"}, rows[1])
	assert.Equal(t, []string{"Pear", "", "2.25"}, rows[2])

	tables, err := f.GetTables("Sheet1")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "DataTable", tables[0].Name)
	assert.Equal(t, "A1:C3", tables[0].Range)
	assert.Equal(t, "TableStyleMedium9", tables[0].StyleName)
	require.NotNil(t, tables[0].ShowRowStripes)
	assert.True(t, *tables[0].ShowRowStripes)
	assert.False(t, tables[0].ShowColumnStripes)
	assert.False(t, tables[0].ShowFirstColumn)
	assert.False(t, tables[0].ShowLastColumn)
}

func TestWriteTable_CustomOptions(t *testing.T) {
	tbl := &Table{Headers: []string{"A"}, Rows: [][]interface{}{{int64(1)}}}

	buf, err := WriteTable(tbl, WriteOptions{SheetName: "Data", TableName: "Export", TableStyle: "TableStyleLight1"})
	require.NoError(t, err)

	tables, err := ListTables(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, TableInfo{Sheet: "Data", Name: "Export", Range: "A1:A2", Style: "TableStyleLight1"}, tables[0])
}

func TestWriteTable_NoColumns(t *testing.T) {
	_, err := WriteTable(&Table{}, DefaultWriteOptions())
	assert.ErrorIs(t, err, ErrNoHeaderRow)

	_, err = WriteTable(nil, DefaultWriteOptions())
	assert.ErrorIs(t, err, ErrNoHeaderRow)
}

func TestConvert(t *testing.T) {
	const dataRows = 7
	src := newWorkbook(t, sourceRows(dataRows))

	out, tbl, err := Convert("inventory.xlsx", src, DefaultReadOptions(), DefaultWriteOptions())
	require.NoError(t, err)
	assert.Equal(t, dataRows, tbl.Height())

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Len(t, rows, dataRows+1)

	tables, err := ListTables(out)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "A1:E8", tables[0].Range)
}

func TestConvert_RoundTripShiftsHeader(t *testing.T) {
	const dataRows = 7
	first, _, err := Convert("inventory.xlsx", newWorkbook(t, sourceRows(dataRows)), DefaultReadOptions(), DefaultWriteOptions())
	require.NoError(t, err)

	// Output row 1 is the header, so skipping 4 rows makes output row 5
	// (the fourth data row) the new header.
	second, tbl, err := Convert("converted.xlsx", first, DefaultReadOptions(), DefaultWriteOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU-D", "Item", "4", "3.25", "FALSE"}, tbl.Headers)
	assert.Equal(t, dataRows-4, tbl.Height())

	tables, err := ListTables(second)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "A1:E4", tables[0].Range)
}

func TestConvert_LegacyXLS(t *testing.T) {
	for _, name := range []string{"Table.xls", "Gap.xls"} {
		t.Run(name, func(t *testing.T) {
			out, tbl, err := Convert(name, readFixture(t, name), DefaultReadOptions(), DefaultWriteOptions())
			require.NoError(t, err)
			assert.Equal(t, 7, tbl.Height())

			f, err := excelize.OpenReader(bytes.NewReader(out))
			require.NoError(t, err)
			defer f.Close()
			rows, err := f.GetRows(DefaultSheetName)
			require.NoError(t, err)
			require.Len(t, rows, 8)
			assert.Equal(t, []string{"code4", "name4", "description4"}, rows[0])
			assert.Equal(t, []string{"code11", "name11", "description11"}, rows[7])

			tables, err := ListTables(out)
			require.NoError(t, err)
			require.Len(t, tables, 1)
			assert.Equal(t, DefaultTableName, tables[0].Name)
			assert.Equal(t, "A1:C8", tables[0].Range)
		})
	}
}
