package simpleexcel

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultSheetName  = "Sheet1"
	DefaultTableName  = "DataTable"
	DefaultTableStyle = "TableStyleMedium9"

	// ContentTypeXLSX is the MIME type of the serialized workbook.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WriteOptions controls the layout of the generated workbook.
type WriteOptions struct {
	SheetName  string
	TableName  string
	TableStyle string
}

func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		SheetName:  DefaultSheetName,
		TableName:  DefaultTableName,
		TableStyle: DefaultTableStyle,
	}
}

// TableRange returns the A1 reference covering a header row plus rows data
// rows across width columns, anchored at A1.
func TableRange(width, rows int) (string, error) {
	if width < 1 {
		return "", errors.New("table must have at least one column")
	}
	if rows < 0 {
		return "", errors.Errorf("invalid row count %d", rows)
	}
	end, err := excelize.CoordinatesToCellName(width, rows+1)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return "A1:" + end, nil
}

// WriteTable writes t into a new single-sheet workbook, starting at A1 with
// the header row, and covers the written range with a banded table object.
func WriteTable(t *Table, opts WriteOptions) (*bytes.Buffer, error) {
	if t == nil || t.Width() == 0 {
		return nil, ErrNoHeaderRow
	}
	if opts.SheetName == "" {
		opts.SheetName = DefaultSheetName
	}
	if opts.TableName == "" {
		opts.TableName = DefaultTableName
	}
	if opts.TableStyle == "" {
		opts.TableStyle = DefaultTableStyle
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.SheetName
	if sheet != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheet); err != nil {
			return nil, errors.Wrapf(err, "rename sheet to %q", sheet)
		}
	}

	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, errors.Wrap(err, "write header row")
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, errors.Wrapf(err, "write row %d", i+2)
		}
	}

	ref, err := TableRange(t.Width(), t.Height())
	if err != nil {
		return nil, err
	}
	showRowStripes := true
	if err := f.AddTable(sheet, &excelize.Table{
		Range:             ref,
		Name:              opts.TableName,
		StyleName:         opts.TableStyle,
		ShowFirstColumn:   false,
		ShowLastColumn:    false,
		ShowRowStripes:    &showRowStripes,
		ShowColumnStripes: false,
	}); err != nil {
		return nil, errors.Wrapf(err, "add table %s over %s", opts.TableName, ref)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "serialize workbook")
	}
	return buf, nil
}

// Convert reads the source workbook and writes it back out as a formatted table.
func Convert(filename string, data []byte, ro ReadOptions, wo WriteOptions) ([]byte, *Table, error) {
	t, err := ReadTable(filename, data, ro)
	if err != nil {
		return nil, nil, err
	}
	buf, err := WriteTable(t, wo)
	if err != nil {
		return nil, t, err
	}
	return buf.Bytes(), t, nil
}

// TableInfo describes a table object found in a workbook.
type TableInfo struct {
	Sheet string
	Name  string
	Range string
	Style string
}

// ListTables returns every table object in an OOXML workbook.
func ListTables(data []byte) ([]TableInfo, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "open xlsx")
	}
	defer f.Close()

	var out []TableInfo
	for _, sheet := range f.GetSheetList() {
		tables, err := f.GetTables(sheet)
		if err != nil {
			return nil, errors.Wrapf(err, "list tables of %q", sheet)
		}
		for _, tbl := range tables {
			out = append(out, TableInfo{
				Sheet: sheet,
				Name:  tbl.Name,
				Range: tbl.Range,
				Style: tbl.StyleName,
			})
		}
	}
	return out, nil
}
