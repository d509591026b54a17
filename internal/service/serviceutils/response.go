package serviceutils

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type GenericResponse struct {
	Success bool
	Message string
	Data    interface{}
	Error   string
}

func ResponseSuccess(c echo.Context, code int, msg string, data interface{}) error {
	return c.JSON(code, GenericResponse{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// ResponseText writes a plain-text body.
func ResponseText(c echo.Context, code int, msg string) error {
	return c.String(code, msg)
}

// ResponseError writes "Error: <err>" as plain text.
func ResponseError(c echo.Context, code int, err error) error {
	msg := "Error: "
	if err != nil {
		msg += err.Error()
	}
	return c.String(code, msg)
}

// ResponseAttachment sends content as a file download.
func ResponseAttachment(c echo.Context, filename, contentType string, content []byte) error {
	h := c.Response().Header()
	h.Set(echo.HeaderContentType, contentType)
	h.Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	h.Set(echo.HeaderContentLength, strconv.Itoa(len(content)))
	return c.Blob(http.StatusOK, contentType, content)
}
