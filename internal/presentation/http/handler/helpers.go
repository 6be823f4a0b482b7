package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/presentation/http/dto/request"
	"github.com/sangkips/library-api/internal/presentation/http/dto/response"
	"github.com/sangkips/library-api/pkg/apperror"
	"github.com/sangkips/library-api/pkg/pagination"
)

// validatable is a request with checks beyond its binding tags.
type validatable interface {
	Validate() error
}

// bindJSON decodes the body into req and runs its validation. On failure
// the error response has been written and false is returned.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.ValidationError(c, fieldErrors(verrs))
			return false
		}
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	if v, ok := req.(validatable); ok {
		if err := v.Validate(); err != nil {
			response.Error(c, err)
			return false
		}
	}
	return true
}

func fieldErrors(verrs validator.ValidationErrors) []apperror.FieldError {
	out := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := toSnake(fe.Field())
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "This field is required"
		case "email":
			msg = "Must be a valid email address"
		case "max":
			msg = fmt.Sprintf("Must be at most %s characters", fe.Param())
		case "len":
			msg = fmt.Sprintf("Must be exactly %s characters", fe.Param())
		default:
			msg = "Invalid value"
		}
		out = append(out, apperror.FieldError{Field: field, Message: msg})
	}
	return out
}

// toSnake turns a Go field name such as LedgerID into ledger_id.
func toSnake(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// parseID reads a UUID path parameter, writing a 400 when it is malformed.
func parseID(c *gin.Context, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.BadRequest(c, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// pageParams reads page and per_page from the query.
func pageParams(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}

// optionalUUID reads an optional UUID query parameter.
func optionalUUID(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid " + name)
	}
	return &id, nil
}

// dateRange reads start_date and end_date. Both accept YYYY-MM-DD or
// DD-MM-YYYY; end_date covers the whole day.
func dateRange(c *gin.Context) (start, end *time.Time, err error) {
	if raw := c.Query("start_date"); raw != "" {
		t, perr := request.ParseDate(raw)
		if perr != nil {
			return nil, nil, apperror.NewBadRequestError("Invalid start_date")
		}
		start = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, perr := request.ParseDate(raw)
		if perr != nil {
			return nil, nil, apperror.NewBadRequestError("Invalid end_date")
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		end = &t
	}
	return start, end, nil
}
