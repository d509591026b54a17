package simpleexcel

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNoHeaderRow is returned when nothing is left to use as a header after skipping rows.
	ErrNoHeaderRow = errors.New("no header row found after skipped rows")
	// ErrNoSheets is returned when the workbook has no worksheet to read.
	ErrNoSheets = errors.New("workbook contains no sheets")
	// ErrEmptyFile is returned for a zero-length upload.
	ErrEmptyFile = errors.New("file is empty")
)

// Table is a header row plus data rows. Every row in Rows has len(Headers) cells.
// Cell values are nil, bool, int64, float64, time.Time or string.
type Table struct {
	Headers []string
	Rows    [][]interface{}
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.Headers)
}

// Height returns the number of data rows, excluding the header row.
func (t *Table) Height() int {
	return len(t.Rows)
}

// buildTable drops the first skip physical rows, ignores fully blank rows and
// promotes the first remaining row to the header.
func buildTable(raw [][]interface{}, skip int) (*Table, error) {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(raw) {
		return nil, ErrNoHeaderRow
	}

	var kept [][]interface{}
	width := 0
	for _, row := range raw[skip:] {
		row = trimTrailingBlanks(row)
		if len(row) == 0 {
			continue
		}
		if len(row) > width {
			width = len(row)
		}
		kept = append(kept, row)
	}
	if len(kept) == 0 {
		return nil, ErrNoHeaderRow
	}

	t := &Table{
		Headers: normalizeHeaders(kept[0], width),
		Rows:    make([][]interface{}, 0, len(kept)-1),
	}
	for _, row := range kept[1:] {
		padded := make([]interface{}, width)
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}
	return t, nil
}

func trimTrailingBlanks(row []interface{}) []interface{} {
	n := len(row)
	for n > 0 && isBlank(row[n-1]) {
		n--
	}
	return row[:n]
}

func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// normalizeHeaders names empty header cells "Unnamed: <idx>" and suffixes
// repeated names with ".1", ".2", ... Table column names in Excel are
// case-insensitive, so uniqueness is checked case-insensitively.
func normalizeHeaders(row []interface{}, width int) []string {
	names := make([]string, width)
	for i := 0; i < width; i++ {
		var v interface{}
		if i < len(row) {
			v = row[i]
		}
		if isBlank(v) {
			names[i] = fmt.Sprintf("Unnamed: %d", i)
			continue
		}
		names[i] = FormatValue(v)
	}

	used := make(map[string]bool, width)
	counts := make(map[string]int, width)
	for i, base := range names {
		name := base
		for used[strings.ToLower(name)] {
			counts[base]++
			name = fmt.Sprintf("%s.%d", base, counts[base])
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

// InferValue types a textual cell value. Blank text becomes nil, integers
// become int64, other finite numbers become float64. Numbers written with a
// leading zero (zip codes, account numbers) stay strings.
func InferValue(s string) interface{} {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if hasLeadingZero(trimmed) {
		return s
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) && isPlainNumber(trimmed) {
		return f
	}
	return s
}

func hasLeadingZero(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return len(s) > 1 && s[0] == '0' && s[1] != '.'
}

// isPlainNumber rejects forms ParseFloat accepts but a spreadsheet user
// would not consider numeric, such as "Inf", "0x1p4" or "1_000".
func isPlainNumber(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}

// FormatValue renders a cell value as text.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(val)
	}
}
