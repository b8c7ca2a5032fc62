package metrics

import (
	"fmt"
	"regexp"

	"github.com/aristath/readiness/internal/domain"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// BuildRangeQuery renders the SQL for one inclusive date window.
// Both dates and the table identifier are validated before interpolation.
func BuildRangeQuery(table, start, end string) (string, error) {
	if !identifierPattern.MatchString(table) {
		return "", domain.NewValidationError(fmt.Sprintf("invalid table name %q", table))
	}
	if err := domain.ValidateDate(start); err != nil {
		return "", err
	}
	if err := domain.ValidateDate(end); err != nil {
		return "", err
	}
	if start > end {
		return "", domain.NewValidationError(fmt.Sprintf("start date %s is after end date %s", start, end))
	}

	return fmt.Sprintf(
		"SELECT * FROM %s WHERE \"date\" BETWEEN '%s' AND '%s' ORDER BY \"date\" ASC",
		table, start, end,
	), nil
}
