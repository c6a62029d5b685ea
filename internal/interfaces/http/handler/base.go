package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// defaultFilter parses the common page/page_size query params into a
// shared.Filter, falling back to shared.DefaultFilter()'s values.
func defaultFilter(c *gin.Context) shared.Filter {
	filter := shared.DefaultFilter()
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		filter.Page = p
	}
	if ps, err := strconv.Atoi(c.Query("page_size")); err == nil && ps > 0 {
		filter.PageSize = ps
	}
	return filter
}

// RequestIDKey is the gin.Context key the RequestID middleware stores under.
const RequestIDKey = "request_id"

// BaseHandler provides the response helpers every voucher/report handler
// embeds, the same shape inventory.go's handler built on.
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a 200 envelope.
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 envelope with pagination metadata.
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 envelope.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 with no body.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 envelope for a malformed request, prior to any
// domain error ever being constructed.
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	requestID := getRequestID(c)
	c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID("BAD_REQUEST", "", message, requestID))
}

// HandleDomainError converts a shared.DomainError into the §7 HTTP mapping,
// attaching Retry-After on concurrency conflicts. Any other error is
// reported as an opaque internal error - it should never reach the HTTP
// boundary unwrapped.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		kind := string(domainErr.Kind)
		status := dto.GetHTTPStatus(domainErr.Code, kind)
		if dto.IsRetryable(kind) {
			c.Header("Retry-After", strconv.Itoa(1))
		}
		c.JSON(status, dto.NewErrorResponseWithRequestID(domainErr.Code, kind, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "system", "an unexpected error occurred", requestID))
}
