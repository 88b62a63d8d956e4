package report

import (
	"fmt"
	"math"
	"strings"
)

// FormatSwiss renders a currency amount in Swiss style with apostrophe
// thousand separators, e.g. 82'723.98.
func FormatSwiss(number float64) string {
	if number == 0 || math.IsNaN(number) {
		return "0.00"
	}

	number = math.Round(number*100) / 100
	negative := number < 0
	abs := math.Abs(number)

	intPart := int64(abs)
	decPart := int(math.Round((abs - float64(intPart)) * 100))
	if decPart == 100 { // rounding pushed the fraction over
		intPart++
		decPart = 0
	}

	digits := fmt.Sprintf("%d", intPart)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('\'')
		}
		b.WriteRune(d)
	}

	result := fmt.Sprintf("%s.%02d", b.String(), decPart)
	if negative {
		return "-" + result
	}
	return result
}

// DisplayCampaignNo appends the delayed-sending marker to a campaign number.
func DisplayCampaignNo(campaignNo string, delayed bool) string {
	if delayed {
		return campaignNo + "-D"
	}
	return campaignNo
}

// DisplayWine joins wine name and vintage, truncated with an ellipsis when
// longer than max runes.
func DisplayWine(wine, vintage string, max int) string {
	name := wine
	if vintage != "" {
		name = wine + " " + vintage
	}
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max]) + "…"
}
