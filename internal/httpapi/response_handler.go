package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type responseHandler struct {
	logger Logger
}

// NewResponseHandler creates the handler that writes the shared API
// response envelope
func NewResponseHandler(logger Logger) ResponseHandler {
	return &responseHandler{logger: logger}
}

// SuccessResponse sends a success envelope with optional data and message
func (h *responseHandler) SuccessResponse(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// fail writes the error envelope; failures carrying an underlying error
// are also logged
func (h *responseHandler) fail(c *gin.Context, status int, e *Error, err error) {
	if err != nil {
		h.logger.LogError(err, e.Message)
	}
	c.JSON(status, Response{
		Success: false,
		Error:   e,
	})
}

// ErrorResponse sends an error envelope with an explicit status and code
func (h *responseHandler) ErrorResponse(c *gin.Context, status int, code, message string, err error) {
	h.fail(c, status, &Error{Code: code, Message: message}, err)
}

func (h *responseHandler) ValidationErrorResponse(c *gin.Context, field, message string) {
	h.fail(c, http.StatusBadRequest, &Error{Code: "VALIDATION_ERROR", Message: message, Field: field}, nil)
}

func (h *responseHandler) NotFoundResponse(c *gin.Context, message string) {
	h.fail(c, http.StatusNotFound, &Error{Code: "NOT_FOUND", Message: message}, nil)
}

func (h *responseHandler) UnauthorizedResponse(c *gin.Context, message string) {
	h.fail(c, http.StatusUnauthorized, &Error{Code: "UNAUTHORIZED", Message: message}, nil)
}

func (h *responseHandler) InternalErrorResponse(c *gin.Context, message string, err error) {
	h.fail(c, http.StatusInternalServerError, &Error{Code: "INTERNAL_ERROR", Message: message}, err)
}
