package lexicon

import "strconv"

var numeralLetters = map[int]string{
	1: "א", 2: "ב", 3: "ג", 4: "ד", 5: "ה", 6: "ו", 7: "ז", 8: "ח", 9: "ט",
	10: "י", 20: "כ", 30: "ל", 40: "מ", 50: "נ", 60: "ס", 70: "ע", 80: "פ", 90: "צ",
	100: "ק", 200: "ר", 300: "ש", 400: "ת",
}

// HebrewNumeral renders n in Hebrew letters (gematria). 15 and 16 use the
// customary טו and טז. Values below 1 are rendered in decimal. Hundreds past
// 400 have no single letter and are omitted, which is enough for chapter and
// verse numbers.
func HebrewNumeral(n int) string {
	if n < 1 {
		return strconv.Itoa(n)
	}
	switch n {
	case 15:
		return "טו"
	case 16:
		return "טז"
	}

	var out string
	if l, ok := numeralLetters[(n/100)*100]; ok {
		out += l
	}
	rem := n % 100
	if l, ok := numeralLetters[(rem/10)*10]; ok {
		out += l
	}
	if l, ok := numeralLetters[rem%10]; ok {
		out += l
	}
	return out
}
