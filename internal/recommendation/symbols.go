package recommendation

import (
	"regexp"
	"sort"
	"strings"
)

var cashtagRx = regexp.MustCompile(`\$([A-Za-z]{1,5})`)

// ExtractSymbols returns the distinct upper-cased tickers mentioned as $TICKER in text.
// The result is sorted and never nil.
func ExtractSymbols(text string) []string {
	matches := cashtagRx.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		symbol := strings.ToUpper(m[1])
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}
