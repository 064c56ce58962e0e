package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvery(t *testing.T) {
	s := Every(5 * time.Minute)
	now := time.Now()

	assert.Equal(t, now.Add(5*time.Minute), s.Next(now))
}

func TestEvery_MultipleNext(t *testing.T) {
	s := Every(time.Hour)
	start := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	next1 := s.Next(start)
	next2 := s.Next(next1)

	assert.Equal(t, time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC), next1)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), next2)
}

func TestDaily(t *testing.T) {
	s := Daily(9, 30)
	from := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC), s.Next(from))
}

func TestDaily_RollsToNextDay(t *testing.T) {
	s := Daily(9, 30)
	from := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC), s.Next(from))
}

func TestWeekly(t *testing.T) {
	s := Weekly(time.Monday, 10, 0)
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // Monday

	assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), s.Next(from))
}

func TestWeekly_RollsToNextWeek(t *testing.T) {
	s := Weekly(time.Monday, 10, 0)
	from := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC) // Monday after 10:00

	assert.Equal(t, time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC), s.Next(from))
}

func TestCron(t *testing.T) {
	s := Cron("0 9 * * *")
	from := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	next := s.Next(from)
	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, 0, next.Minute())
}

func TestCron_InvalidExpressionPanics(t *testing.T) {
	assert.Panics(t, func() {
		Cron("not a cron expression")
	})
}

func TestParseCron(t *testing.T) {
	s, err := ParseCron("*/15 * * * *")
	assert.NoError(t, err)
	assert.NotNil(t, s)

	_, err = ParseCron("way off")
	assert.Error(t, err)
}
