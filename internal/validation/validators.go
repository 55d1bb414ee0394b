package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Daily time limits are accepted in this range (minutes)
const (
	MinLimitMinutes = 5
	MaxLimitMinutes = 480
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate

	// Labels of 1-63 chars separated by dots, at least one dot. A leading
	// *. or embedded * makes it a wildcard pattern.
	domainRe  = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)
	patternRe = regexp.MustCompile(`^[a-z0-9.*-]+$`)
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("domain", validateDomain); err != nil {
		panic(fmt.Sprintf("failed to register domain validator: %v", err))
	}
	if err := Validate.RegisterValidation("block_entry", validateBlockEntry); err != nil {
		panic(fmt.Sprintf("failed to register block_entry validator: %v", err))
	}
	if err := Validate.RegisterValidation("limit_minutes", validateLimitMinutes); err != nil {
		panic(fmt.Sprintf("failed to register limit_minutes validator: %v", err))
	}
}

func validateDomain(fl validator.FieldLevel) bool {
	return ValidateDomain(fl.Field().String()) == nil
}

func validateBlockEntry(fl validator.FieldLevel) bool {
	return ValidateBlockEntry(fl.Field().String()) == nil
}

func validateLimitMinutes(fl validator.FieldLevel) bool {
	minutes := fl.Field().Int()
	return minutes >= MinLimitMinutes && minutes <= MaxLimitMinutes
}

// NormalizeDomain lowercases and trims a user-supplied domain
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// ValidateDomain checks that a string is a plausible registrable domain
func ValidateDomain(domain string) error {
	domain = NormalizeDomain(domain)
	if domain == "" {
		return fmt.Errorf("domain is required")
	}
	if len(domain) > 253 {
		return fmt.Errorf("domain too long")
	}
	if !domainRe.MatchString(domain) {
		return fmt.Errorf("invalid domain: %s", domain)
	}
	return nil
}

// ValidateBlockEntry checks a blocklist entry: either a plain domain or a
// wildcard pattern such as *.example.com.
func ValidateBlockEntry(entry string) error {
	entry = NormalizeDomain(entry)
	if entry == "" {
		return fmt.Errorf("entry is required")
	}
	if !strings.Contains(entry, "*") {
		return ValidateDomain(entry)
	}
	if !patternRe.MatchString(entry) {
		return fmt.Errorf("invalid pattern: %s", entry)
	}
	return nil
}

// ValidateLimitMinutes checks a daily limit expressed in minutes
func ValidateLimitMinutes(minutes int) error {
	if minutes < MinLimitMinutes || minutes > MaxLimitMinutes {
		return fmt.Errorf("limit must be between %d and %d minutes", MinLimitMinutes, MaxLimitMinutes)
	}
	return nil
}

// ValidateTheme checks a UI theme name
func ValidateTheme(theme string) error {
	switch theme {
	case "dark", "light":
		return nil
	default:
		return fmt.Errorf("invalid theme: %s (must be 'dark' or 'light')", theme)
	}
}
