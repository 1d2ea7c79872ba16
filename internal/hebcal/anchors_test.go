package hebcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offsetBridge maps Gregorian day N after epoch to Hebrew (5000, 1, N+1) so
// anchor arithmetic can be checked without calendar tables.
type offsetBridge struct {
	epoch time.Time
}

func (b offsetBridge) ToHebrew(t time.Time) HebrewDate {
	days := int(Midnight(t).Sub(b.epoch).Hours() / 24)
	return HebrewDate{Year: 5000, Month: 1, Day: days + 1}
}

func (b offsetBridge) ToGregorian(d HebrewDate) time.Time {
	return b.epoch.AddDate(d.Year-5000, 0, d.Day-1)
}

func TestComputeAnchors_UsesFifthAndTenthYears(t *testing.T) {
	epoch := date(2000, time.January, 1)
	anchors := ComputeAnchors(offsetBridge{epoch: epoch}, date(2000, time.January, 3))

	assert.Equal(t, HebrewDate{Year: 5000, Month: 1, Day: 3}, anchors.BirthHebrew)
	assert.Equal(t, HebrewDate{Year: 5005, Month: 1, Day: 3}, anchors.FifthHebrew)
	assert.Equal(t, HebrewDate{Year: 5010, Month: 1, Day: 3}, anchors.TenthHebrew)
	assert.Equal(t, date(2005, time.January, 3), anchors.Fifth)
	assert.Equal(t, date(2010, time.January, 3), anchors.Tenth)
}

func TestComputeAnchors_RealCalendar(t *testing.T) {
	cal := NewCalendar()
	birth := date(2019, time.October, 1) // 2 Tishrei 5780

	anchors := ComputeAnchors(cal, birth)
	require.Equal(t, HebrewDate{Year: 5780, Month: 7, Day: 2}, anchors.BirthHebrew)
	assert.Equal(t, HebrewDate{Year: 5785, Month: 7, Day: 2}, anchors.FifthHebrew)
	assert.Equal(t, date(2024, time.October, 4), anchors.Fifth)
	assert.True(t, anchors.Fifth.Before(anchors.Tenth))
	assert.Equal(t, anchors.TenthHebrew, cal.ToHebrew(anchors.Tenth))
}

func TestAnniversary_AdarIIInCommonYear(t *testing.T) {
	birth := HebrewDate{Year: 5784, Month: AdarII, Day: 10}

	assert.Equal(t, HebrewDate{Year: 5789, Month: Adar, Day: 10}, Anniversary(birth, 5))
	assert.Equal(t, HebrewDate{Year: 5787, Month: AdarII, Day: 10}, Anniversary(birth, 3))
}

func TestAnniversary_OrdinaryMonthUnchanged(t *testing.T) {
	birth := HebrewDate{Year: 5780, Month: 7, Day: 2}
	assert.Equal(t, HebrewDate{Year: 5790, Month: 7, Day: 2}, Anniversary(birth, 10))
}

func TestApproximateAge(t *testing.T) {
	birth := date(2015, time.June, 1)
	assert.Equal(t, 5, ApproximateAge(birth, date(2020, time.June, 10)))
	assert.Equal(t, 4, ApproximateAge(birth, date(2020, time.May, 1)))
	assert.Equal(t, 0, ApproximateAge(birth, date(2014, time.January, 1)))
}
