package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"court-booking/reservation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type StandardApiResponse struct {
	Status     string      `json:"status"`           // "success" or "error"
	StatusCode int         `json:"status_code"`      // mirrors the HTTP status
	Message    string      `json:"message"`          // human readable summary
	Data       interface{} `json:"data,omitempty"`   // payload on success
	Errors     interface{} `json:"errors,omitempty"` // field or domain errors
}

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errs interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errs,
	})
}

func respondOK(c *gin.Context, code int, message string, data interface{}) {
	RespondJSON(c, "success", code, message, data, nil)
}

func respondError(c *gin.Context, code int, message string, errs interface{}) {
	RespondJSON(c, "error", code, message, nil, errs)
}

// respondDomainError maps booking errors onto HTTP status codes.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case reservation.IsInvalidInput(err):
		respondError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, reservation.ErrConflict):
		respondError(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, reservation.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal error", nil)
	}
}

// validationErrors flattens binding failures into field -> message pairs.
func validationErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[toSnake(fe.Field())] = describe(fe)
		}
		return out
	}
	out["body"] = err.Error()
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must match layout %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
