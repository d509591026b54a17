package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/locvowork/excel_converter/pkg/simpleexcel"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"
)

const DefaultOutputFilename = "converted.xlsx"

var (
	tableNamePattern = regexp.MustCompile(`^[A-Za-z_\\][A-Za-z0-9_.]*$`)
	r1c1Pattern      = regexp.MustCompile(`(?i)^(r[0-9]*)?(c[0-9]*)?$`)
)

// ConversionProfile holds the knobs of a conversion. The zero-valued YAML
// document yields the built-in defaults.
type ConversionProfile struct {
	SkipRows       *int   `yaml:"skip_rows"`
	SheetName      string `yaml:"sheet_name"`
	TableName      string `yaml:"table_name"`
	TableStyle     string `yaml:"table_style"`
	OutputFilename string `yaml:"output_filename"`
	LegacyCharset  string `yaml:"legacy_charset"`
}

func DefaultProfile() *ConversionProfile {
	skip := simpleexcel.DefaultSkipRows
	return &ConversionProfile{
		SkipRows:       &skip,
		SheetName:      simpleexcel.DefaultSheetName,
		TableName:      simpleexcel.DefaultTableName,
		TableStyle:     simpleexcel.DefaultTableStyle,
		OutputFilename: DefaultOutputFilename,
		LegacyCharset:  simpleexcel.DefaultCharset,
	}
}

// LoadProfile returns the default profile when path is empty.
func LoadProfile(path string) (*ConversionProfile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read conversion profile")
	}
	return ParseProfile(data)
}

func ParseProfile(data []byte) (*ConversionProfile, error) {
	var p ConversionProfile
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return nil, errors.Wrap(err, "decode conversion profile")
	}
	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *ConversionProfile) applyDefaults() {
	d := DefaultProfile()
	if p.SkipRows == nil {
		p.SkipRows = d.SkipRows
	}
	if p.SheetName == "" {
		p.SheetName = d.SheetName
	}
	if p.TableName == "" {
		p.TableName = d.TableName
	}
	if p.TableStyle == "" {
		p.TableStyle = d.TableStyle
	}
	if p.OutputFilename == "" {
		p.OutputFilename = d.OutputFilename
	}
	if p.LegacyCharset == "" {
		p.LegacyCharset = d.LegacyCharset
	}
}

func (p *ConversionProfile) Validate() error {
	if p.SkipRows == nil || *p.SkipRows < 0 {
		return errors.New("skip_rows must be zero or positive")
	}
	if len(p.SheetName) > 31 || strings.ContainsAny(p.SheetName, `[]:*?/\`) {
		return errors.Errorf("invalid sheet_name %q", p.SheetName)
	}
	if !tableNamePattern.MatchString(p.TableName) || len(p.TableName) > 255 || isCellReference(p.TableName) {
		return errors.Errorf("invalid table_name %q", p.TableName)
	}
	if strings.ContainsAny(p.OutputFilename, "\"\r\n/\\") {
		return errors.Errorf("invalid output_filename %q", p.OutputFilename)
	}
	// Anything else excelize refuses surfaces here instead of on every request.
	if _, err := simpleexcel.WriteTable(&simpleexcel.Table{Headers: []string{"Column1"}}, p.WriteOptions()); err != nil {
		return errors.WithMessage(err, "conversion profile rejected by workbook writer")
	}
	return nil
}

// isCellReference reports whether name would be read as a cell address in
// A1 or R1C1 notation, which Excel forbids for table names.
func isCellReference(name string) bool {
	if _, _, err := excelize.CellNameToCoordinates(name); err == nil {
		return true
	}
	return r1c1Pattern.MatchString(name)
}

func (p *ConversionProfile) ReadOptions() simpleexcel.ReadOptions {
	return simpleexcel.ReadOptions{
		SkipRows: *p.SkipRows,
		Charset:  p.LegacyCharset,
	}
}

func (p *ConversionProfile) WriteOptions() simpleexcel.WriteOptions {
	return simpleexcel.WriteOptions{
		SheetName:  p.SheetName,
		TableName:  p.TableName,
		TableStyle: p.TableStyle,
	}
}
