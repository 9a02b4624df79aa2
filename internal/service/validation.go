package service

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/postdeck/postdeck/internal/platform"
)

// Validation errors. The messages are surfaced to the user verbatim, so
// they are written as UI copy rather than internal error strings. They
// are user-correctable conditions and are never logged as system errors.
var (
	ErrEmptyContent    = errors.New("Content cannot be empty")
	ErrNoPlatforms     = errors.New("Please select at least one platform")
	ErrInvalidTime     = errors.New("Invalid date/time")
	ErrTimeInPast      = errors.New("Scheduled time must be in the future")
	ErrInvalidPlatform = errors.New("unsupported platform")
)

// ContentLimitError reports content that exceeds a platform's length
// limit, citing the platform display name and the limit.
type ContentLimitError struct {
	Platform string
	Limit    int
}

func (e *ContentLimitError) Error() string {
	return fmt.Sprintf("Content exceeds %s limit of %d characters", e.Platform, e.Limit)
}

// IsValidationError reports whether err is a user-correctable
// validation failure rather than a system error.
func IsValidationError(err error) bool {
	var limitErr *ContentLimitError
	return errors.Is(err, ErrEmptyContent) ||
		errors.Is(err, ErrNoPlatforms) ||
		errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrTimeInPast) ||
		errors.Is(err, ErrInvalidPlatform) ||
		errors.As(err, &limitErr)
}

// ValidateContentLength checks content against a platform's length
// limit. Callers validating a post pass the adapted variant for the
// platform, not the raw draft.
func ValidateContentLength(content string, p platform.Platform) error {
	if content == "" {
		return ErrEmptyContent
	}

	cfg := p.Config()
	if utf8.RuneCountInString(content) > cfg.MaxLength {
		return &ContentLimitError{Platform: cfg.Name, Limit: cfg.MaxLength}
	}

	return nil
}

// ValidatePlatformSelection checks that at least one valid platform is
// targeted.
func ValidatePlatformSelection(platforms []platform.Platform) error {
	if len(platforms) == 0 {
		return ErrNoPlatforms
	}

	for _, p := range platforms {
		if !p.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidPlatform, string(p))
		}
	}

	return nil
}

// ValidateScheduledTime parses an RFC 3339 timestamp and checks it is
// not in the past.
func ValidateScheduledTime(raw string, now time.Time) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, ErrInvalidTime
	}

	if t.Before(now) {
		return time.Time{}, ErrTimeInPast
	}

	return t, nil
}
