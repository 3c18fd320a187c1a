package booking

import (
	"fmt"
	"strings"

	"stayflow/models"
)

// DatesUnavailableError carries the conflicting intervals back to the
// caller. It is a client-visible conflict, not a retryable fault.
type DatesUnavailableError struct {
	Conflicts []models.Interval
}

func (e *DatesUnavailableError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, iv := range e.Conflicts {
		parts[i] = iv.String()
	}
	return fmt.Sprintf("dates unavailable: conflicts with %s", strings.Join(parts, ", "))
}
