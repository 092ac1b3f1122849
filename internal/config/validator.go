package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alammarimalak/scrumDealer/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // config key, e.g. "output.format"
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidOutputFormats returns the accepted values of output.format.
func ValidOutputFormats() []string {
	return []string{"table", "json", "markdown", "dot", "ascii"}
}

// Validate checks the Config and returns every problem found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if !slices.Contains(ValidOutputFormats(), c.Output.Format) {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Value:   c.Output.Format,
			Message: "must be one of " + strings.Join(ValidOutputFormats(), ", "),
		})
	}

	if c.Logging.Level != "" && !logging.IsValidLevel(c.Logging.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: "must be one of " + strings.Join(logging.ValidLevels(), ", "),
		})
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must not be empty",
		})
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.max_body_bytes",
			Value:   c.Server.MaxBodyBytes,
			Message: "must be positive",
		})
	}

	return errs
}
