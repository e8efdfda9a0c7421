// Package hebrew holds the fixed Hebrew-calendar conventions the ledger is
// keyed on. Months are a static 12-name sequence and seasons are a static
// partition of the indices; nothing here consults a real calendar.
package hebrew

type Season string

const (
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
)

// MonthNames is the fixed month sequence, index 0 = Tishrei.
var MonthNames = [12]string{
	"Tishrei",
	"Cheshvan",
	"Kislev",
	"Tevet",
	"Shevat",
	"Adar",
	"Nissan",
	"Iyar",
	"Sivan",
	"Tammuz",
	"Av",
	"Elul",
}

// SeasonForMonth maps a month index to its season label using the fixed
// partition of four consecutive 3-month runs. The mapping is a ledger
// convention, not a solar-seasonal computation.
func SeasonForMonth(monthIndex int) Season {
	switch {
	case monthIndex >= 0 && monthIndex <= 2:
		return SeasonFall
	case monthIndex >= 3 && monthIndex <= 5:
		return SeasonWinter
	case monthIndex >= 6 && monthIndex <= 8:
		return SeasonSpring
	default:
		return SeasonSummer
	}
}

// MonthName returns the display name for a month index, or an empty string
// when the index is outside 0-11.
func MonthName(monthIndex int) string {
	if monthIndex < 0 || monthIndex > 11 {
		return ""
	}
	return MonthNames[monthIndex]
}

// ValidMonth reports whether monthIndex addresses a ledger month.
func ValidMonth(monthIndex int) bool {
	return monthIndex >= 0 && monthIndex <= 11
}
