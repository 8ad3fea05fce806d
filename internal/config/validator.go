package config

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/ownersync/internal/errors"
	"github.com/Iron-Ham/ownersync/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "sync.source")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
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

// ValidLogLevels returns the list of valid log levels. Config files and
// flags use the lowercase spellings of the logger's level names.
func ValidLogLevels() []string {
	levels := logging.ValidLevels()
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = strings.ToLower(l)
	}
	return out
}

// ValidFormats returns the list of valid dry-run payload formats
func ValidFormats() []string {
	return []string{"json", "yaml"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	errs = append(errs, c.validateSync()...)
	errs = append(errs, c.validateRegistry()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

// validateSync validates the SyncConfig
func (c *Config) validateSync() []ValidationError {
	var errs []ValidationError

	if !IsValidSource(c.Sync.Source) {
		errs = append(errs, ValidationError{
			Field:   "sync.source",
			Value:   c.Sync.Source,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidSources(), ", ")),
		})
	}

	validFormat := false
	for _, f := range ValidFormats() {
		if c.Sync.Format == f {
			validFormat = true
			break
		}
	}
	if !validFormat {
		errs = append(errs, ValidationError{
			Field:   "sync.format",
			Value:   c.Sync.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidFormats(), ", ")),
		})
	}

	if c.Sync.Source == "github" {
		if c.Sync.Org == "" {
			errs = append(errs, ValidationError{
				Field:   "sync.org",
				Value:   c.Sync.Org,
				Message: "required when sync.source is github",
			})
		}
		if c.Sync.Repo == "" {
			errs = append(errs, ValidationError{
				Field:   "sync.repo",
				Value:   c.Sync.Repo,
				Message: "required when sync.source is github",
			})
		}
	}

	return errs
}

// validateRegistry validates the RegistryConfig
func (c *Config) validateRegistry() []ValidationError {
	var errs []ValidationError

	if c.Registry.BaseURL == "" {
		errs = append(errs, ValidationError{
			Field:   "registry.base_url",
			Value:   c.Registry.BaseURL,
			Message: "must not be empty",
		})
	} else if strings.HasSuffix(c.Registry.BaseURL, "/") {
		errs = append(errs, ValidationError{
			Field:   "registry.base_url",
			Value:   c.Registry.BaseURL,
			Message: "must not end with a slash",
		})
	}

	if c.Registry.TimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "registry.timeout_seconds",
			Value:   c.Registry.TimeoutSeconds,
			Message: "must be positive",
		})
	}

	return errs
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errs []ValidationError

	validLevel := false
	for _, l := range ValidLogLevels() {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errs
}

// ValidateCredentials checks that the credentials a run will actually use are
// present. The github source needs a GitHub token regardless of mode; the
// registry token is only needed when the payload will really be sent. A local
// dry run works with no credentials at all.
func (c *Config) ValidateCredentials(githubToken, registryToken string) error {
	if c.Sync.Source == "github" && githubToken == "" {
		return errors.NewConfigError("GitHub token not set", errors.ErrMissingCredential).
			WithSetting("OWNERSYNC_GITHUB_TOKEN")
	}
	if !c.Sync.DryRun && registryToken == "" {
		return errors.NewConfigError("registry token not set", errors.ErrMissingCredential).
			WithSetting("OWNERSYNC_REGISTRY_TOKEN")
	}
	return nil
}
