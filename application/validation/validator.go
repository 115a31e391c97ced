// Package validation checks decoded configuration with go-playground/validator.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/domain/ports"
	"github.com/go-playground/validator/v10"
)

// ConfigValidator implements ports.ConfigValidator using struct tags.
type ConfigValidator struct {
	validate *validator.Validate
}

// NewConfigValidator creates a new validator. Field names in results use the
// yaml key names so they match what users write in config files.
func NewConfigValidator() ports.ConfigValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &ConfigValidator{validate: v}
}

// Validate checks cfg against its validation tags.
func (v *ConfigValidator) Validate(cfg *entities.Config) (*entities.ValidationResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	result := &entities.ValidationResult{Valid: true}
	err := v.validate.Struct(cfg)
	if err == nil {
		return result, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	result.Valid = false
	for _, fe := range fieldErrs {
		result.Errors = append(result.Errors, entities.ValidationError{
			Field:   fieldPath(fe.Namespace()),
			Message: message(fe),
		})
	}
	return result, nil
}

// fieldPath drops the root struct name: "Config.trace.file" -> "trace.file".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "startswith":
		return fmt.Sprintf("must start with %q", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "excludesall":
		return "must be a file name, not a path"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
