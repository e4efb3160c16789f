// internal/models/birth.go
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BirthQuery is a parsed "DD.MM.YYYY, HH:MM, Place" request. Hour and minute are UTC.
type BirthQuery struct {
	Day    int    `json:"day"`
	Month  int    `json:"month"`
	Year   int    `json:"year"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	Place  string `json:"place"`
	Raw    string `json:"raw"`
}

// Time returns the birth instant in UTC.
func (q BirthQuery) Time() time.Time {
	return time.Date(q.Year, time.Month(q.Month), q.Day, q.Hour, q.Minute, 0, 0, time.UTC)
}

// InputFormatError rejects chart input before it reaches the resolver.
type InputFormatError struct {
	Input  string
	Reason string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("invalid birth data %q: %s", e.Input, e.Reason)
}

func reject(input, format string, args ...interface{}) error {
	return &InputFormatError{Input: input, Reason: fmt.Sprintf(format, args...)}
}

// ParseBirthQuery parses text of the form "12.03.1995, 14:45, Moscow".
// Any failure is returned as *InputFormatError.
func ParseBirthQuery(text string) (BirthQuery, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 3 {
		return BirthQuery{}, reject(text, "expected 3 comma separated parts, got %d", len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	date, err := parseInts(parts[0], ".", 3)
	if err != nil {
		return BirthQuery{}, reject(text, "date: %v", err)
	}
	clock, err := parseInts(parts[1], ":", 2)
	if err != nil {
		return BirthQuery{}, reject(text, "time: %v", err)
	}

	q := BirthQuery{
		Day:    date[0],
		Month:  date[1],
		Year:   date[2],
		Hour:   clock[0],
		Minute: clock[1],
		Place:  parts[2],
		Raw:    text,
	}
	if err := q.validate(); err != nil {
		return BirthQuery{}, reject(text, "%v", err)
	}
	return q, nil
}

func parseInts(s, sep string, n int) ([]int, error) {
	fields := strings.Split(s, sep)
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d numbers separated by %q in %q", n, sep, s)
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", f)
		}
		out[i] = v
	}
	return out, nil
}

func (q BirthQuery) validate() error {
	if q.Year < 1 || q.Year > 9999 {
		return fmt.Errorf("year %d out of range", q.Year)
	}
	if q.Month < 1 || q.Month > 12 {
		return fmt.Errorf("month %d out of range", q.Month)
	}
	if q.Hour < 0 || q.Hour > 23 {
		return fmt.Errorf("hour %d out of range", q.Hour)
	}
	if q.Minute < 0 || q.Minute > 59 {
		return fmt.Errorf("minute %d out of range", q.Minute)
	}
	// time.Date normalizes 31.02 into March; a round trip catches that.
	if q.Day < 1 || q.Time().Day() != q.Day {
		return fmt.Errorf("day %d does not exist in %02d.%04d", q.Day, q.Month, q.Year)
	}
	return nil
}
