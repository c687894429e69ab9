package runtime

import (
	"time"

	"github.com/aretw0/concierge/pkg/domain"
)

// ParseTravelDate validates a strict YYYY-MM-DD calendar date and returns it
// in canonical form. "2024-02-30" and "2024-6-15" are rejected.
func ParseTravelDate(input string) (string, error) {
	t, err := time.Parse(domain.DateLayout, input)
	if err != nil {
		return "", &domain.ValidationError{
			Field:  "date",
			Input:  input,
			Reason: "expected a calendar date formatted YYYY-MM-DD",
		}
	}
	return t.Format(domain.DateLayout), nil
}
