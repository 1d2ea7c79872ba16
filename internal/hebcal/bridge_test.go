package hebcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendar_ToHebrew_KnownDates(t *testing.T) {
	cal := NewCalendar()

	assert.Equal(t, HebrewDate{Year: 5760, Month: 10, Day: 23}, cal.ToHebrew(date(2000, time.January, 1)))
	assert.Equal(t, HebrewDate{Year: 5785, Month: 7, Day: 1}, cal.ToHebrew(date(2024, time.October, 3)))
	assert.Equal(t, HebrewDate{Year: 5784, Month: Nisan, Day: 15}, cal.ToHebrew(date(2024, time.April, 23)))
}

func TestCalendar_ToHebrew_IgnoresTimeOfDay(t *testing.T) {
	cal := NewCalendar()
	late := time.Date(2024, time.October, 3, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, cal.ToHebrew(date(2024, time.October, 3)), cal.ToHebrew(late))
}

func TestCalendar_RoundTrip(t *testing.T) {
	cal := NewCalendar()
	start := date(2019, time.December, 25)
	for i := 0; i < 800; i += 7 {
		d := start.AddDate(0, 0, i)
		assert.Equal(t, d, cal.ToGregorian(cal.ToHebrew(d)), "round trip for %s", d.Format("2006-01-02"))
	}
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, IsLeapYear(5784))
	assert.False(t, IsLeapYear(5785))
	assert.True(t, IsLeapYear(5787))
}

func TestMidnight(t *testing.T) {
	in := time.Date(2024, time.May, 5, 17, 30, 12, 99, time.FixedZone("x", 3600))
	assert.Equal(t, date(2024, time.May, 5), Midnight(in))
}
