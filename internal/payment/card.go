// Package payment implements the card-entry pre-checks the sponsorship form
// runs while the member types. These are cosmetic UX checks only: no
// authorization happens anywhere in this service, and a pledge is recorded
// regardless of card authenticity once the fields pass.
package payment

import (
	"strconv"
	"strings"
	"time"
)

type Brand string

const (
	BrandVisa       Brand = "visa"
	BrandMastercard Brand = "mastercard"
	BrandAmex       Brand = "amex"
	BrandDiscover   Brand = "discover"
	BrandUnknown    Brand = "unknown"
)

// DetectBrand inspects leading digits so the form can show the brand while
// the number is still incomplete.
func DetectBrand(number string) Brand {
	digits := stripSpaces(number)
	if digits == "" {
		return BrandUnknown
	}

	switch {
	case strings.HasPrefix(digits, "4"):
		return BrandVisa
	case len(digits) >= 2 && digits[0] == '5' && digits[1] >= '1' && digits[1] <= '5':
		return BrandMastercard
	case strings.HasPrefix(digits, "34") || strings.HasPrefix(digits, "37"):
		return BrandAmex
	case strings.HasPrefix(digits, "6011") || strings.HasPrefix(digits, "65"):
		return BrandDiscover
	}
	return BrandUnknown
}

// expectedLength per brand; Amex is the 15-digit outlier.
func expectedLength(brand Brand) int {
	if brand == BrandAmex {
		return 15
	}
	return 16
}

// ValidCardNumber strips spaces and checks digits-only plus the brand's
// length and prefix rules.
func ValidCardNumber(number string) (Brand, bool) {
	digits := stripSpaces(number)
	if digits == "" || !allDigits(digits) {
		return BrandUnknown, false
	}

	brand := DetectBrand(digits)
	if brand == BrandUnknown {
		return BrandUnknown, false
	}
	if len(digits) != expectedLength(brand) {
		return brand, false
	}
	return brand, true
}

// ValidExpiry checks MM/YY shape, month 1-12, and that the pair is not
// strictly before now's (month, year).
func ValidExpiry(expiry string, now time.Time) bool {
	parts := strings.Split(expiry, "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	year += 2000

	if year < now.Year() {
		return false
	}
	if year == now.Year() && month < int(now.Month()) {
		return false
	}
	return true
}

// ValidCVV requires 3 digits, or 4 when the detected brand is Amex.
func ValidCVV(cvv string, brand Brand) bool {
	if !allDigits(cvv) || cvv == "" {
		return false
	}
	if brand == BrandAmex {
		return len(cvv) == 4
	}
	return len(cvv) == 3
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
