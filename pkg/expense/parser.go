package expense

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientFields = errors.New("expense: at least name and price are required")
	ErrInvalidPrice       = errors.New("expense: invalid price")
)

// datePattern matches dd.mm.yyyy with one or two digit day and month.
var datePattern = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`)

// Draft is a parsed expense that has no category yet.
type Draft struct {
	Name    string
	Price   decimal.Decimal
	Date    string // dd.mm.yyyy or empty for today
	Comment string
}

// Parse converts multi-line user input into a Draft.
//
// Line 0 is the name, line 1 is the price. Line 2 is the date when it matches
// dd.mm.yyyy, otherwise it starts the comment. All remaining lines are joined
// into the comment.
func Parse(raw string) (*Draft, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	if len(lines) < 2 {
		return nil, ErrInsufficientFields
	}

	price, err := parsePrice(lines[1])
	if err != nil {
		return nil, err
	}

	d := &Draft{
		Name:  lines[0],
		Price: price,
	}

	rest := lines[2:]
	if len(rest) > 0 && datePattern.MatchString(rest[0]) {
		d.Date = rest[0]
		rest = rest[1:]
	}
	d.Comment = strings.Join(rest, "\n")

	return d, nil
}

// parsePrice accepts both decimal comma and decimal point.
func parsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, ErrInvalidPrice
	}

	return price, nil
}

// HasDate reports whether the draft carries an explicit date.
func (d Draft) HasDate() bool {
	return d.Date != ""
}
