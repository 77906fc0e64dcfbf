package expense

import (
	"fmt"
	"strings"
	"time"
)

// DefaultLocation is the zone used to resolve "today" for drafts without a date.
const DefaultLocation = "Europe/Moscow"

const isoLayout = "2006-01-02"

// ISODate converts dd.mm.yyyy into yyyy-mm-dd, zero padding day and month.
// Components are reordered as is, no calendar validation happens here.
func ISODate(dmy string) string {
	parts := strings.Split(dmy, ".")
	if len(parts) != 3 {
		return dmy
	}

	return fmt.Sprintf("%s-%s-%s", parts[2], padTwo(parts[1]), padTwo(parts[0]))
}

// Today returns the calendar date of now in loc as yyyy-mm-dd.
func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(isoLayout)
}

// ParseISODate parses yyyy-mm-dd produced by ISODate or Today.
func ParseISODate(s string) (time.Time, error) {
	return time.Parse(isoLayout, s)
}

func padTwo(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}
