package schedule

import (
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule defines when a job should start next.
type Schedule interface {
	// Next returns the next start time strictly after from.
	Next(from time.Time) time.Time
}

// Func adapts a plain function into a Schedule.
type Func func(from time.Time) time.Time

func (f Func) Next(from time.Time) time.Time { return f(from) }

// Every returns a schedule that fires at a fixed interval.
func Every(d time.Duration) Schedule {
	return Func(func(from time.Time) time.Time {
		return from.Add(d)
	})
}

// Daily returns a schedule that fires once a day at the given UTC time.
func Daily(hour, minute int) Schedule {
	return Func(func(from time.Time) time.Time {
		from = from.UTC()
		at := time.Date(from.Year(), from.Month(), from.Day(), hour, minute, 0, 0, time.UTC)
		if !at.After(from) {
			at = at.AddDate(0, 0, 1)
		}
		return at
	})
}

// Weekly returns a schedule that fires once a week on the given weekday
// at the given UTC time.
func Weekly(day time.Weekday, hour, minute int) Schedule {
	return Func(func(from time.Time) time.Time {
		from = from.UTC()
		ahead := int(day-from.Weekday()+7) % 7
		at := time.Date(from.Year(), from.Month(), from.Day()+ahead, hour, minute, 0, 0, time.UTC)
		if !at.After(from) {
			at = at.AddDate(0, 0, 7)
		}
		return at
	})
}

// ParseCron builds a schedule from a standard five-field cron expression.
func ParseCron(expr string) (Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	s, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	return Func(s.Next), nil
}

// Cron is like ParseCron but panics on a malformed expression. Intended
// for schedules written as literals at startup.
func Cron(expr string) Schedule {
	s, err := ParseCron(expr)
	if err != nil {
		panic("invalid cron expression: " + err.Error())
	}
	return s
}
