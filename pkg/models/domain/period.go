package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period: start must not be after end")

type PeriodType string

const (
	PeriodTypeDay     PeriodType = "day"
	PeriodTypeWeek    PeriodType = "week"
	PeriodTypeMonth   PeriodType = "month"
	PeriodTypeQuarter PeriodType = "quarter"
	PeriodTypeYear    PeriodType = "year"
	PeriodTypeCustom  PeriodType = "custom"
)

// Valid reports whether t is one of the declared types. Empty is accepted
// and resolves to custom.
func (t PeriodType) Valid() bool {
	switch t {
	case "", PeriodTypeDay, PeriodTypeWeek, PeriodTypeMonth, PeriodTypeQuarter, PeriodTypeYear, PeriodTypeCustom:
		return true
	}
	return false
}

// Period is a closed range of calendar days [Start, End].
type Period struct {
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
	Type  PeriodType `json:"period_type"`
}

// NewPeriod truncates both bounds to UTC calendar days.
func NewPeriod(start, end time.Time, periodType PeriodType) (Period, error) {
	s, e := Day(start), Day(end)
	if s.After(e) {
		return Period{}, fmt.Errorf("%w: %s > %s", ErrInvalidPeriod, s.Format(time.DateOnly), e.Format(time.DateOnly))
	}
	if periodType == "" {
		periodType = PeriodTypeCustom
	}
	return Period{Start: s, End: e, Type: periodType}, nil
}

// Day returns the UTC midnight of t's calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// EndExclusive is the first instant after the period.
func (p Period) EndExclusive() time.Time {
	return p.End.AddDate(0, 0, 1)
}

// Previous returns the window of identical length that ends the day before p starts.
func (p Period) Previous() Period {
	end := p.Start.AddDate(0, 0, -1)
	return Period{
		Start: end.AddDate(0, 0, -(p.Days() - 1)),
		End:   end,
		Type:  p.Type,
	}
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.EndExclusive())
}

func (p Period) String() string {
	return fmt.Sprintf("%s..%s", p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly))
}
