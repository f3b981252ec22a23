package server

import (
	"errors"
	"net/http"

	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
	ordersdomain "github.com/beanbook/beanbook/internal/orders/domain"
	recommenddomain "github.com/beanbook/beanbook/internal/recommend/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
	Matches []any             `json:"matches,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	// Ambiguity carries every match so the operator can pick one; it is
	// never resolved on their behalf.
	var ambiguous *ordersdomain.AmbiguousReferenceError
	if errors.As(err, &ambiguous) {
		matches := make([]any, 0, len(ambiguous.Matches))
		for _, m := range ambiguous.Matches {
			matches = append(matches, m)
		}
		return http.StatusConflict, errorPayload{
			Type:    "ambiguous_reference",
			Message: ambiguous.Error(),
			Matches: matches,
		}
	}

	var violation *recommenddomain.ContractViolationError
	if errors.As(err, &violation) {
		return http.StatusBadGateway, errorPayload{
			Type:    "contract_violation",
			Message: violation.Error(),
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case errors.Is(err, recommenddomain.ErrNoCandidates):
		return http.StatusConflict, errorPayload{
			Type:    "no_candidates",
			Message: "every eligible offer has already been purchased",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, ordersdomain.ErrInvalidQuantity) ||
		errors.Is(err, ordersdomain.ErrInvalidPrice) ||
		errors.Is(err, catalogdomain.ErrNoRoasters)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, catalogdomain.ErrProductNotFound) ||
		errors.Is(err, catalogdomain.ErrVariantNotFound) ||
		errors.Is(err, ordersdomain.ErrNoMatch) ||
		errors.Is(err, gorm.ErrRecordNotFound)
}
