package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes a success envelope with data only.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta writes a success envelope with data and meta.
func SuccessWithMeta(c echo.Context, data, meta interface{}) error {
	return c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// ErrorResponse writes a failure envelope with the given status.
func ErrorResponse(c echo.Context, status int, message string, details interface{}) error {
	return c.JSON(status, APIResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}

// BadRequestResponse writes a 400 failure envelope; details typically carries
// validation errors.
func BadRequestResponse(c echo.Context, details interface{}) error {
	return ErrorResponse(c, http.StatusBadRequest, "请求参数无效", details)
}

// NotFoundResponse writes a 404 failure envelope.
func NotFoundResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusNotFound, message, nil)
}

// InternalServerErrorResponse writes a generic 500 failure envelope.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, "服务器内部错误", nil)
}

// AppErrorResponse writes a failure envelope derived from an AppError,
// falling back to a generic 500 for unknown error types.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		details := interface{}(nil)
		if len(appErr.Params) > 0 {
			details = appErr.Params
		}
		return ErrorResponse(c, appErr.Status, appErr.Message, details)
	}
	return InternalServerErrorResponse(c)
}
