package contest

import (
	"regexp"
	"strconv"
	"strings"
)

// currencyMarks are the characters that make a text look like a money amount.
var currencyMarks = []string{"원", "만", "억", "$"}

// HasCurrency reports whether text carries a currency-bearing character.
func HasCurrency(text string) bool {
	for _, c := range currencyMarks {
		if strings.Contains(text, c) {
			return true
		}
	}
	return false
}

var firstPlaceAmount = []struct {
	re   *regexp.Regexp
	unit float64
}{
	{regexp.MustCompile(`(?:1등|대상|최우수상|금상|우승).*?(\d+(?:,\d+)*)\s*만원`), 10000},
	{regexp.MustCompile(`(?:1등|대상|최우수상|금상|우승).*?(\d+(?:,\d+)*)\s*억원`), 100000000},
	{regexp.MustCompile(`(?:1등|대상|최우수상|금상|우승).*?(\d+(?:,\d+)*)\s*원`), 1},
}

var (
	eokAmount = regexp.MustCompile(`(\d+(?:,\d+)*(?:\.\d+)?)\s*억원?`)
	manAmount = regexp.MustCompile(`(\d+(?:,\d+)*(?:\.\d+)?)\s*만원?`)
	wonAmount = regexp.MustCompile(`(\d+(?:,\d+)*)\s*원`)
)

// minPlainWon ignores small bare-won amounts such as entry fees.
const minPlainWon = 100000

// PrizeAmount returns the first-place amount in won, used to rank contests by prize.
// Without a first-place keyword the largest amount in the text is used.
// Unknown or unparseable prizes are worth 0.
func PrizeAmount(prize string) int64 {
	if prize == "" || prize == Unknown {
		return 0
	}

	// The extractor's own annotation counts as a first-place keyword.
	text := strings.Replace(prize, FirstPlacePrefix, "1등 ", 1)

	for _, p := range firstPlaceAmount {
		if m := p.re.FindStringSubmatch(text); m != nil {
			if v, ok := parseAmount(m[1]); ok {
				return int64(v * p.unit)
			}
		}
	}

	var best float64
	for _, m := range eokAmount.FindAllStringSubmatch(text, -1) {
		if v, ok := parseAmount(m[1]); ok && v*100000000 > best {
			best = v * 100000000
		}
	}
	for _, m := range manAmount.FindAllStringSubmatch(text, -1) {
		if v, ok := parseAmount(m[1]); ok && v*10000 > best {
			best = v * 10000
		}
	}
	for _, m := range wonAmount.FindAllStringSubmatch(text, -1) {
		if v, ok := parseAmount(m[1]); ok && v >= minPlainWon && v > best {
			best = v
		}
	}
	return int64(best)
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
