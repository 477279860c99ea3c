package config

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/testnorm/internal/status"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration with defaults applied and returns
// warnings for non-fatal issues.
func Validate(cfg *Config) (warnings []string, err error) {
	if strings.TrimSpace(cfg.TRX.Namespace) == "" {
		return nil, &ValidationError{Field: "trx.namespace", Message: "must not be blank"}
	}
	if strings.TrimSpace(cfg.TRX.NameSeparator) == "" {
		return nil, &ValidationError{Field: "trx.name_separator", Message: "must not be blank"}
	}
	return validateStatuses(cfg.Statuses)
}

func validateStatuses(s *StatusesConfig) ([]string, error) {
	lists := []struct {
		field  string
		tokens []string
	}{
		{"statuses.passed", s.Passed},
		{"statuses.failed", s.Failed},
		{"statuses.skipped", s.Skipped},
		{"statuses.xfailed", s.XFailed},
	}

	var warnings []string
	owner := make(map[string]string)
	for _, l := range lists {
		for _, tok := range l.tokens {
			key := status.Normalize(tok)
			if key == status.Unknown {
				return nil, &ValidationError{
					Field:   l.field,
					Message: fmt.Sprintf("token %q normalizes to %q, which is reserved for absent statuses", tok, status.Unknown),
				}
			}
			prev, seen := owner[key]
			switch {
			case seen && prev != l.field:
				return nil, &ValidationError{
					Field:   l.field,
					Message: fmt.Sprintf("token %q is already listed in %s", tok, prev),
				}
			case seen:
				warnings = append(warnings, fmt.Sprintf("%s: duplicate token %q", l.field, tok))
			default:
				owner[key] = l.field
			}
		}
	}
	return warnings, nil
}
