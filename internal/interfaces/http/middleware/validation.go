package middleware

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/forwardops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// SetupValidator configures the validator with custom tags
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Use JSON tag names for field names in errors
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})

		// dgte=N: decimal field must be >= N
		_ = v.RegisterValidation("dgte", func(fl validator.FieldLevel) bool {
			d, ok := fl.Field().Interface().(decimal.Decimal)
			if !ok {
				return false
			}
			min, err := decimal.NewFromString(fl.Param())
			if err != nil {
				return false
			}
			return d.GreaterThanOrEqual(min)
		})
	}
}

// HandleValidationError returns a 400 response describing the failed fields
func HandleValidationError(c *gin.Context, err error) {
	message := "Request validation failed"

	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		var parts []string
		for _, e := range validationErrors {
			parts = append(parts, e.Field()+": "+validationMessage(e))
		}
		message = strings.Join(parts, "; ")
	}

	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeValidation, message))
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "uuid":
		return "invalid UUID format"
	case "oneof":
		return "must be one of: " + e.Param()
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "dgte":
		return "must be at least " + e.Param()
	default:
		return "invalid value"
	}
}
