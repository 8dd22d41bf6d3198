package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/BradenHooton/userservice/internal/models"
	pkghttp "github.com/BradenHooton/userservice/pkg/http"
	"github.com/go-playground/validator/v10"
)

// maxJSONBodyBytes bounds JSON request bodies; picture uploads have their own limit
const maxJSONBodyBytes = 1 << 20

// ValidationErrorResponse represents a validation error with field-level details
type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// phonePattern accepts North American style numbers with an optional country prefix
var phonePattern = regexp.MustCompile(`^(\+\d{1,2}\s?)?1?-?\.?\s?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}$`)

// Global validator instance (reused across all handlers)
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateRequest validates a request struct using go-playground/validator
// Returns a user-friendly error message if validation fails
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			var errs []ValidationErrorResponse
			for _, fieldError := range ve {
				errs = append(errs, ValidationErrorResponse{
					Field:   fieldError.Field(),
					Message: formatValidationError(fieldError),
				})
			}
			if len(errs) > 0 {
				return fmt.Errorf("validation failed: %s: %s",
					errs[0].Field,
					errs[0].Message)
			}
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// formatValidationError converts a validator FieldError to a user-friendly message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "min":
		return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gt":
		if fe.Param() == "" {
			return "must be in the future"
		}
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must match the layout %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// decodeAndValidate reads a JSON body into dst and validates it. Errors carry
// ErrInvalidArgument, or ErrInvalidTimeFormat for unparseable times of day.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidTimeFormat):
			return err
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is required", models.ErrInvalidArgument)
		default:
			return fmt.Errorf("%w: invalid request body", models.ErrInvalidArgument)
		}
	}
	if err := ValidateRequest(dst); err != nil {
		return fmt.Errorf("%w: %s", models.ErrInvalidArgument, err.Error())
	}
	return nil
}

const defaultPageSize = 20

// pageParams reads the zero-based page and page size; range checks are left to the services
func pageParams(r *http.Request) (page, pageSize int, err error) {
	if page, err = pkghttp.QueryInt(r, "page", 0); err != nil {
		return 0, 0, err
	}
	if pageSize, err = pkghttp.QueryInt(r, "pageSize", defaultPageSize); err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}
