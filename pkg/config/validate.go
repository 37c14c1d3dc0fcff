package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Arch-Mind/frontend-sub001/pkg/errors"
	"github.com/Arch-Mind/frontend-sub001/pkg/layout"
	"github.com/Arch-Mind/frontend-sub001/pkg/state"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.RegisterStructValidation(validateConfig, Config{})
	return v
}

// validateConfig checks the fields whose allowed values live in other
// packages.
func validateConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if _, err := layout.Get(cfg.Strategy); err != nil {
		sl.ReportError(cfg.Strategy, "strategy", "Strategy", "strategy", "")
	}
	if cfg.State.Backend != "" && !state.ValidBackends[cfg.State.Backend] {
		sl.ReportError(cfg.State.Backend, "state.backend", "Backend", "backend", "")
	}
	if needsDSN(cfg.State.Backend) && cfg.State.DSN == "" {
		sl.ReportError(cfg.State.DSN, "state.dsn", "DSN", "required_with_backend", cfg.State.Backend)
	}
}

func needsDSN(backend string) bool {
	return backend == state.BackendRedis || backend == state.BackendMongo
}

// Validate checks cfg and returns an INVALID_INPUT error listing every
// offending field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid config")
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid config: %s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(e.Namespace(), "Config."))
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required for this backend", field)
	case "required_with_backend":
		return fmt.Sprintf("%s is required for the %s backend", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "strategy":
		return fmt.Sprintf("%s %q is not a known layout strategy", field, e.Value())
	case "backend":
		return fmt.Sprintf("%s %q is not a known state backend", field, e.Value())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
