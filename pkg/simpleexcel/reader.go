package simpleexcel

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"github.com/xuri/nfp"
)

const (
	DefaultSkipRows = 4
	DefaultCharset  = "utf-8"

	maxExactInt = 1 << 53
)

// ReadOptions controls how a source workbook is turned into a Table.
type ReadOptions struct {
	// SkipRows is the number of physical rows discarded before the header row.
	SkipRows int
	// Charset is used to decode legacy .xls strings.
	Charset string
}

func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		SkipRows: DefaultSkipRows,
		Charset:  DefaultCharset,
	}
}

// IsXLSX reports whether filename should be read with the OOXML reader.
// Everything else is treated as a legacy BIFF workbook.
func IsXLSX(filename string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(filename)), "xlsx")
}

// ReadTable parses the first sheet of data, choosing the reader from filename.
func ReadTable(filename string, data []byte, opts ReadOptions) (*Table, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if IsXLSX(filename) {
		return ReadXLSX(bytes.NewReader(data), opts)
	}
	return ReadXLS(bytes.NewReader(data), opts)
}

// ReadXLSX reads the first sheet of an OOXML workbook. Values are read raw and
// typed from the cell type; numbers carrying a date format become time.Time.
func ReadXLSX(r io.Reader, opts ReadOptions) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open xlsx")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "read rows of sheet %q", sheet)
	}

	tr := &xlsxTyper{file: f, sheet: sheet, dateStyles: make(map[int]bool)}
	raw := make([][]interface{}, len(rows))
	for i, row := range rows {
		vals := make([]interface{}, len(row))
		for j, s := range row {
			if s == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			v, err := tr.value(cell, s)
			if err != nil {
				return nil, errors.Wrapf(err, "read cell %s", cell)
			}
			vals[j] = v
		}
		raw[i] = vals
	}
	return buildTable(raw, opts.SkipRows)
}

type xlsxTyper struct {
	file       *excelize.File
	sheet      string
	dateStyles map[int]bool
}

func (t *xlsxTyper) value(cell, raw string) (interface{}, error) {
	ct, err := t.file.GetCellType(t.sheet, cell)
	if err != nil {
		return nil, err
	}
	switch ct {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError,
		excelize.CellTypeFormula, excelize.CellTypeDate:
		return raw, nil
	}

	num, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw, nil
	}
	isDate, err := t.isDateCell(cell)
	if err != nil {
		return nil, err
	}
	if isDate {
		ts, err := excelize.ExcelDateToTime(num, false)
		if err == nil {
			return ts, nil
		}
	}
	if math.Abs(num) < maxExactInt && num == math.Trunc(num) && !strings.ContainsAny(raw, ".eE") {
		return int64(num), nil
	}
	return num, nil
}

func (t *xlsxTyper) isDateCell(cell string) (bool, error) {
	styleID, err := t.file.GetCellStyle(t.sheet, cell)
	if err != nil {
		return false, err
	}
	if isDate, ok := t.dateStyles[styleID]; ok {
		return isDate, nil
	}
	style, err := t.file.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	isDate := false
	if style != nil {
		custom := ""
		if style.CustomNumFmt != nil {
			custom = *style.CustomNumFmt
		}
		isDate = isDateFormat(style.NumFmt, custom)
	}
	t.dateStyles[styleID] = isDate
	return isDate, nil
}

// isDateFormat reports whether a built-in number format id or a custom
// format code renders a date or time.
func isDateFormat(id int, custom string) bool {
	switch {
	case id >= 14 && id <= 22, id >= 45 && id <= 47, id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	}
	if custom == "" {
		return false
	}
	p := nfp.NumberFormatParser()
	for _, section := range p.Parse(custom) {
		for _, token := range section.Items {
			if token.TType == nfp.TokenTypeDateTimes || token.TType == nfp.TokenTypeElapsedDateTimes {
				return true
			}
		}
	}
	return false
}

// ReadXLS reads the first sheet of a legacy BIFF workbook. The decoder panics
// on some malformed inputs, so panics are returned as errors.
func ReadXLS(r io.ReadSeeker, opts ReadOptions) (t *Table, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			t = nil
			err = errors.Errorf("read xls: %v", rec)
		}
	}()

	charset := opts.Charset
	if charset == "" {
		charset = DefaultCharset
	}
	wb, err := xls.OpenReader(r, charset)
	if err != nil {
		return nil, errors.Wrap(err, "open xls")
	}
	if wb.NumSheets() == 0 {
		return nil, ErrNoSheets
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoSheets
	}

	// Missing rows stay as nil entries so skip counts physical rows.
	raw := make([][]interface{}, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			raw = append(raw, nil)
			continue
		}
		vals := make([]interface{}, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			vals[j] = InferValue(row.Col(j))
		}
		raw = append(raw, vals)
	}
	return buildTable(raw, opts.SkipRows)
}

// xlsRow returns nil for rows the file has no record for. WorkSheet.Row
// dereferences the missing entry and panics.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
