package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/excel_converter/internal/logger"
	"github.com/locvowork/excel_converter/internal/service"
	"github.com/locvowork/excel_converter/internal/service/serviceutils"
	"github.com/pkg/errors"
)

const (
	FileField = "file"

	missingFileMessage = "No file was found in the request. Expected a multipart field named 'file'."
)

type ConvertHandler struct {
	svc service.ConvertService
}

func NewConvertHandler(svc service.ConvertService) *ConvertHandler {
	return &ConvertHandler{svc: svc}
}

// ConvertHandler handles POST /api/ConvertExcel
func (h *ConvertHandler) ConvertHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger.InfoLog(ctx, "Convert request received")

	fh, err := c.FormFile(FileField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			logger.WarnLog(ctx, "Convert request without %q field: %v", FileField, err)
			return serviceutils.ResponseText(c, http.StatusBadRequest, missingFileMessage)
		}
		// BodyLimit reports an oversized body of unknown length from the reader.
		var he *echo.HTTPError
		if errors.As(err, &he) {
			logger.WarnLog(ctx, "Convert request rejected: %v", he)
			return he
		}
		return h.fail(c, errors.Wrap(err, "parse multipart form"))
	}

	src, err := fh.Open()
	if err != nil {
		return h.fail(c, errors.Wrap(err, "open uploaded file"))
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return h.fail(c, errors.Wrap(err, "read uploaded file"))
	}

	res, err := h.svc.Convert(ctx, service.UploadedFile{Filename: fh.Filename, Content: content})
	if err != nil {
		return h.fail(c, err)
	}

	return serviceutils.ResponseAttachment(c, res.Filename, res.ContentType, res.Content)
}

func (h *ConvertHandler) fail(c echo.Context, err error) error {
	logger.ErrorStack(c.Request().Context(), err, "Error processing the file")
	return serviceutils.ResponseError(c, http.StatusInternalServerError, err)
}

// HealthHandler handles GET /healthz
func (h *ConvertHandler) HealthHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", nil)
}
