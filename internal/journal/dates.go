package journal

import (
	"fmt"
	"time"

	"github.com/wonny/tradejournal/internal/contracts"
)

// DateLayout is the calendar date format accepted on input
const DateLayout = "2006-01-02"

// tradeHour is the local hour trade dates are pinned to, away from DST edges
const tradeHour = 12

// ParseTradeDate parses YYYY-MM-DD as noon in loc
func ParseTradeDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD: %w", s, contracts.ErrInvalidArgument)
	}
	return d.Add(tradeHour * time.Hour), nil
}

// ParseDateRange parses optional YYYY-MM-DD bounds into an inclusive range:
// from is the start of its day, to the last instant of its day, both in loc.
func ParseDateRange(from, to string, loc *time.Location) (*time.Time, *time.Time, error) {
	var start, end *time.Time

	if from != "" {
		d, err := time.ParseInLocation(DateLayout, from, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("date_from %q must be YYYY-MM-DD: %w", from, contracts.ErrInvalidArgument)
		}
		start = &d
	}

	if to != "" {
		d, err := time.ParseInLocation(DateLayout, to, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("date_to %q must be YYYY-MM-DD: %w", to, contracts.ErrInvalidArgument)
		}
		d = d.AddDate(0, 0, 1).Add(-time.Millisecond)
		end = &d
	}

	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, fmt.Errorf("date_to is before date_from: %w", contracts.ErrInvalidArgument)
	}

	return start, end, nil
}
