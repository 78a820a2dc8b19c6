package movie

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/dustin/movies-backend/internal/utils"
	"github.com/dustin/movies-backend/pkg/apperrors"
	"github.com/go-playground/validator/v10"
)

// EarliestYear is the year of the oldest surviving motion picture
const EarliestYear = 1888

type structValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewValidator creates the movie rule set
func NewValidator() Validator {
	return newValidator(time.Now)
}

func newValidator(now func() time.Time) *structValidator {
	v := &structValidator{validate: validator.New(), now: now}

	// Report json names so violations line up with request fields
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.validate.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.validate.RegisterValidation("yearofrelease", func(fl validator.FieldLevel) bool {
		year := int(fl.Field().Int())
		return year >= EarliestYear && year <= v.now().UTC().Year()
	})

	return v
}

func (v *structValidator) Validate(m *Movie) error {
	if m == nil {
		verr := apperrors.NewValidationError()
		verr.Add("movie", "required", "movie is required")
		return verr
	}

	err := v.validate.Struct(m)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := apperrors.NewValidationError()
	for _, fe := range fieldErrs {
		verr.Add(fieldName(fe), fe.Tag(), v.message(fe))
	}
	return verr
}

// fieldName keeps the element index for genre entries, e.g. "genres[1]"
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func (v *structValidator) message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "nonblank":
		return "must not be empty"
	case "required":
		return "is required"
	case "yearofrelease":
		return "must be between 1888 and " + utils.IntToString(v.now().UTC().Year())
	case "excludesall":
		return "must not contain a comma"
	default:
		return "is invalid"
	}
}
