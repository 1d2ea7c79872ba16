package lexicon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHebrewNumeral(t *testing.T) {
	cases := map[int]string{
		1:   "א",
		10:  "י",
		11:  "יא",
		15:  "טו",
		16:  "טז",
		21:  "כא",
		50:  "נ",
		99:  "צט",
		119: "קיט",
		150: "קנ",
		176: "קעו",
	}
	for n, want := range cases {
		assert.Equal(t, want, HebrewNumeral(n), "numeral for %d", n)
	}
}

func TestHebrewNumeral_NonPositive(t *testing.T) {
	assert.Equal(t, "0", HebrewNumeral(0))
	assert.Equal(t, "-3", HebrewNumeral(-3))
}

func TestHebrewMonth(t *testing.T) {
	assert.Equal(t, "ניסן", HebrewMonth(1))
	assert.Equal(t, "תשרי", HebrewMonth(7))
	assert.Equal(t, "אדר ב", HebrewMonth(13))
	assert.Equal(t, "14", HebrewMonth(14))
}

func TestHebrewWeekday(t *testing.T) {
	assert.Equal(t, "שבת", HebrewWeekday(time.Saturday))
	assert.Equal(t, "יום ראשון", HebrewWeekdayByName("Sunday"))
	assert.Equal(t, "Someday", HebrewWeekdayByName("Someday"))
}

func TestGregorianMonth(t *testing.T) {
	assert.Equal(t, "ינואר", GregorianMonth(time.January))
	assert.Equal(t, "דצמבר", GregorianMonth(time.December))
}

func TestBookName(t *testing.T) {
	assert.Equal(t, "בראשית", BookName("Genesis"))
	assert.Equal(t, "שיר השירים", BookName("Song of Songs"))
	assert.Equal(t, "Tobit", BookName("Tobit"))
}
