package rows

import (
	"fmt"
	"shipment-savings-service/internal/domain"
	"strings"
	"time"
)

// Day-first layouts accepted for date cells, tried in order.
// Single-digit layout elements also accept zero-padded input.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2-1-2006",
	"2.1.2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2/1/06",
}

// ParseDayFirst parses a day-first date leniently.
//
// A blank value reports present == false with no error; a non-blank value
// that matches no layout is domain.ErrMalformedDate.
func ParseDayFirst(value string) (t time.Time, present bool, err error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false, nil
	}

	for _, layout := range dayFirstLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, true, nil
		}
	}

	return time.Time{}, true, fmt.Errorf("%w: %q", domain.ErrMalformedDate, v)
}

// FormatDate renders a date as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
