package hebcal

import "time"

const (
	// StartAnniversary is the Hebrew birthday the schedule starts on.
	StartAnniversary = 5
	// EndAnniversary is the Hebrew birthday the schedule ends on.
	EndAnniversary = 10
)

// Anchors holds a child's Hebrew birth date and the Gregorian dates of the
// 5th and 10th Hebrew birthdays.
type Anchors struct {
	Birth       time.Time  `json:"birth"`
	BirthHebrew HebrewDate `json:"birth_hebrew"`

	Fifth       time.Time  `json:"fifth"`
	FifthHebrew HebrewDate `json:"fifth_hebrew"`

	Tenth       time.Time  `json:"tenth"`
	TenthHebrew HebrewDate `json:"tenth_hebrew"`
}

// ComputeAnchors returns the anchors for a Gregorian birth date.
func ComputeAnchors(b Bridge, birth time.Time) Anchors {
	birth = Midnight(birth)
	heb := b.ToHebrew(birth)

	fifth := Anniversary(heb, StartAnniversary)
	tenth := Anniversary(heb, EndAnniversary)

	return Anchors{
		Birth:       birth,
		BirthHebrew: heb,
		Fifth:       b.ToGregorian(fifth),
		FifthHebrew: fifth,
		Tenth:       b.ToGregorian(tenth),
		TenthHebrew: tenth,
	}
}

// Anniversary returns the Hebrew date of the n-th Hebrew birthday. A birthday
// in Adar II falls in Adar when the target year has no leap month.
func Anniversary(birth HebrewDate, years int) HebrewDate {
	target := HebrewDate{Year: birth.Year + years, Month: birth.Month, Day: birth.Day}
	if target.Month == AdarII && !IsLeapYear(target.Year) {
		target.Month = Adar
	}
	return target
}

// ApproximateAge returns whole years between birth and now using 365-day years.
func ApproximateAge(birth, now time.Time) int {
	days := int(Midnight(now).Sub(Midnight(birth)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / 365
}
