// Package hebcal converts between the Gregorian and Hebrew calendars and
// computes the Hebrew-birthday anchors a study schedule is built around.
package hebcal

import (
	"fmt"
	"time"

	"github.com/hebcal/hebcal-go/hdate"
)

// Month numbering follows the Hebrew calendar convention: Nisan is 1, Tishrei 7,
// Adar (Adar I in leap years) 12 and Adar II 13.
const (
	Nisan  = 1
	Adar   = 12
	AdarII = 13
)

// HebrewDate is a (year, month, day) triple in the Hebrew calendar.
type HebrewDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (d HebrewDate) String() string {
	return fmt.Sprintf("%d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Bridge converts dates between the two calendars. Both directions are total
// for valid inputs.
type Bridge interface {
	ToHebrew(t time.Time) HebrewDate
	ToGregorian(d HebrewDate) time.Time
}

// Calendar is the hebcal-backed Bridge.
type Calendar struct{}

// NewCalendar returns the default Bridge implementation.
func NewCalendar() *Calendar {
	return &Calendar{}
}

// ToHebrew converts the calendar date of t (time of day is ignored).
func (Calendar) ToHebrew(t time.Time) HebrewDate {
	hd := hdate.FromGregorian(t.Year(), t.Month(), t.Day())
	return HebrewDate{Year: hd.Year(), Month: int(hd.Month()), Day: hd.Day()}
}

// ToGregorian converts d to a UTC midnight time. Days past the end of the
// month roll over into the following month.
func (Calendar) ToGregorian(d HebrewDate) time.Time {
	first := hdate.New(d.Year, hdate.HMonth(d.Month), 1).Gregorian()
	return Midnight(first).AddDate(0, 0, d.Day-1)
}

// IsLeapYear reports whether the Hebrew year has an Adar II.
func IsLeapYear(year int) bool {
	return hdate.IsLeapYear(year)
}

// Midnight truncates t to its calendar date at UTC midnight.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
