package validator

import (
	"context"
	"errors"
	"time"

	"github.com/Marga-Ghale/org-portal-backend/internal/types"
	"github.com/go-playground/validator/v10"
)

var global *validator.Validate

const (
	ErrFieldRequired     = "Field is required"
	ErrFieldExceedsMax   = "Field exceeds maximum value"
	ErrFieldBelowMin     = "Field is below minimum value"
	ErrInvalidHoursType  = "Unknown hours type"
	ErrInvalidDate       = "Date must be formatted as YYYY-MM-DD"
	ErrUnknownValidation = "Invalid value"
)

func init() {
	global = New()
}

func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("hourstype", validateHoursType)
	_ = v.RegisterValidation("isodate", validateISODate)
	return v
}

func validateHoursType(fl validator.FieldLevel) bool {
	_, ok := types.ParseHoursType(fl.Field().String())
	return ok
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

// Validate checks structure and returns the first failure as a readable
// error, nil when valid.
func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(global.StructCtx(ctx, structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) || len(vErrors) == 0 {
		return err
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required":
		msg = ErrFieldRequired
	case "max", "lt", "lte":
		msg = ErrFieldExceedsMax
	case "min", "gt", "gte":
		msg = ErrFieldBelowMin
	case "hourstype":
		msg = ErrInvalidHoursType
	case "isodate":
		msg = ErrInvalidDate
	default:
		msg = ErrUnknownValidation
	}
	return errors.New(msg + ": " + ve.Field())
}
