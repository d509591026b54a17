package service

import (
	"context"
	"time"

	"github.com/locvowork/excel_converter/internal/config"
	"github.com/locvowork/excel_converter/internal/logger"
	"github.com/locvowork/excel_converter/pkg/simpleexcel"
	"github.com/pkg/errors"
)

// UploadedFile is the request-scoped copy of the uploaded spreadsheet.
type UploadedFile struct {
	Filename string
	Content  []byte
}

// ConvertResult is the serialized output workbook.
type ConvertResult struct {
	Filename    string
	ContentType string
	Content     []byte
	Columns     int
	Rows        int
}

type ConvertService interface {
	Convert(ctx context.Context, file UploadedFile) (*ConvertResult, error)
}

type convertService struct {
	profile *config.ConversionProfile
}

func NewConvertService(profile *config.ConversionProfile) ConvertService {
	if profile == nil {
		profile = config.DefaultProfile()
	}
	return &convertService{profile: profile}
}

func (s *convertService) Convert(ctx context.Context, file UploadedFile) (*ConvertResult, error) {
	start := time.Now()

	content, tbl, err := simpleexcel.Convert(file.Filename, file.Content, s.profile.ReadOptions(), s.profile.WriteOptions())
	if err != nil {
		return nil, errors.WithMessagef(err, "convert %q", file.Filename)
	}

	logger.InfoLog(ctx, "Converted %s: %d columns, %d data rows, %d bytes in %v",
		file.Filename, tbl.Width(), tbl.Height(), len(content), time.Since(start))

	return &ConvertResult{
		Filename:    s.profile.OutputFilename,
		ContentType: simpleexcel.ContentTypeXLSX,
		Content:     content,
		Columns:     tbl.Width(),
		Rows:        tbl.Height(),
	}, nil
}
