package domain

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the calendar date format used as the row key and artifact key.
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateDate checks the YYYY-MM-DD shape and that the date exists on the calendar.
func ValidateDate(s string) error {
	if !datePattern.MatchString(s) {
		return NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return NewValidationError(fmt.Sprintf("invalid date %q: not a calendar date", s))
	}
	return nil
}
