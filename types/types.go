package types

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar day without time-of-day or location.
// Two dates are equal iff their fields are equal, so Date is safe to use with ==
// and as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalizes overflowing values the same way time.Date does
// (e.g. Jan 32 -> Feb 1).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Reservation is a booking of one court for one day.
type Reservation struct {
	CourtID  int  `json:"court_id"`
	Date     Date `json:"date"`
	Duration int  `json:"duration"` // minutes
}

// Op names a mutation recorded in the journal.
type Op string

const (
	OpReserve   Op = "reserve"
	OpCancel    Op = "cancel"
	OpLightsOn  Op = "lights_on"
	OpLightsOff Op = "lights_off"
)

// Event describes one successful mutation of the booking state.
type Event struct {
	ID       string    `json:"id"`
	Seq      uint64    `json:"seq"`
	Op       Op        `json:"op"`
	CourtID  int       `json:"court_id"`
	Date     *Date     `json:"date,omitempty"`
	Duration int       `json:"duration,omitempty"`
	Removed  int       `json:"removed,omitempty"`
	At       time.Time `json:"at"`
}
