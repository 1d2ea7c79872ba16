// Package lexicon holds the Hebrew display names used in rendered documents:
// months, weekdays, book titles and numerals.
package lexicon

import (
	"strconv"
	"time"
)

var hebrewMonths = map[int]string{
	1: "ניסן", 2: "אייר", 3: "סיון", 4: "תמוז", 5: "אב", 6: "אלול",
	7: "תשרי", 8: "חשון", 9: "כסלו", 10: "טבת", 11: "שבט", 12: "אדר", 13: "אדר ב",
}

var hebrewWeekdays = map[time.Weekday]string{
	time.Sunday:    "יום ראשון",
	time.Monday:    "יום שני",
	time.Tuesday:   "יום שלישי",
	time.Wednesday: "יום רביעי",
	time.Thursday:  "יום חמישי",
	time.Friday:    "יום שישי",
	time.Saturday:  "שבת",
}

var gregorianMonths = map[time.Month]string{
	time.January: "ינואר", time.February: "פברואר", time.March: "מרץ",
	time.April: "אפריל", time.May: "מאי", time.June: "יוני",
	time.July: "יולי", time.August: "אוגוסט", time.September: "ספטמבר",
	time.October: "אוקטובר", time.November: "נובמבר", time.December: "דצמבר",
}

var bookNames = map[string]string{
	"Genesis": "בראשית", "Exodus": "שמות", "Leviticus": "ויקרא", "Numbers": "במדבר",
	"Deuteronomy": "דברים", "Joshua": "יהושע", "Judges": "שופטים",
	"I Samuel": "שמואל א", "II Samuel": "שמואל ב",
	"I Kings": "מלכים א", "II Kings": "מלכים ב", "Isaiah": "ישעיהו", "Jeremiah": "ירמיהו",
	"Ezekiel": "יחזקאל", "Hosea": "הושע", "Joel": "יואל", "Amos": "עמוס", "Obadiah": "עובדיה",
	"Jonah": "יונה", "Micah": "מיכה", "Nahum": "נחום", "Habakkuk": "חבקוק",
	"Zephaniah": "צפניה", "Haggai": "חגי", "Zechariah": "זכריה", "Malachi": "מלאכי",
	"Psalms": "תהלים", "Proverbs": "משלי", "Job": "איוב",
	"Song of Songs": "שיר השירים", "Ruth": "רות", "Lamentations": "איכה",
	"Ecclesiastes": "קהלת", "Esther": "אסתר", "Daniel": "דניאל", "Ezra": "עזרא",
	"Nehemiah": "נחמיה", "I Chronicles": "דברי הימים א", "II Chronicles": "דברי הימים ב",
}

// HebrewMonth returns the Hebrew month name, or the number when unknown.
func HebrewMonth(month int) string {
	if name, ok := hebrewMonths[month]; ok {
		return name
	}
	return strconv.Itoa(month)
}

// HebrewWeekday returns the Hebrew name of a weekday.
func HebrewWeekday(day time.Weekday) string {
	if name, ok := hebrewWeekdays[day]; ok {
		return name
	}
	return day.String()
}

// HebrewWeekdayByName maps an English weekday name ("Sunday") to Hebrew.
// Unknown names are returned unchanged.
func HebrewWeekdayByName(name string) string {
	for d, heb := range hebrewWeekdays {
		if d.String() == name {
			return heb
		}
	}
	return name
}

// GregorianMonth returns the Hebrew transliteration of a Gregorian month.
func GregorianMonth(month time.Month) string {
	if name, ok := gregorianMonths[month]; ok {
		return name
	}
	return strconv.Itoa(int(month))
}

// BookName returns the Hebrew title of a book, or the input when unknown.
func BookName(book string) string {
	if name, ok := bookNames[book]; ok {
		return name
	}
	return book
}
