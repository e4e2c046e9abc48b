package api

import (
	"errors"
	"strconv"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/parsererror"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func writeError(c *fiber.Ctx, status int, title, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Code:    strconv.Itoa(status),
		Title:   title,
		Message: message,
	})
}

// errorHandler maps handler errors to responses. Unreadable workbooks are the
// client's fault; anything else is reported without internal detail.
func errorHandler(logger logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return writeError(c, fe.Code, "request_failed", fe.Message)
		}

		var wbErr *parsererror.WorkbookError
		if errors.As(err, &wbErr) {
			return writeError(c, fiber.StatusBadRequest, "invalid_workbook", wbErr.Error())
		}

		logger.WithError(err).Error("Request failed",
			logging.F("method", c.Method()),
			logging.F("path", c.Path()))
		return writeError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
}
