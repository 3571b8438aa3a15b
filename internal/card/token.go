package card

import (
	"strings"
	"unicode/utf8"
)

// OptionToken is the short display code shown next to an option ("A", "2", ...).
type OptionToken struct {
	Code string `json:"code"`
}

// knownTokens keeps the catalog options stable across regenerations.
var knownTokens = map[string]string{
	"data-model": "A",
	"screens":    "B",
	"flows":      "C",
	"minimal":    "1",
	"dashboard":  "2",
	"workspace":  "3",
}

// TokenFor returns the display token for an option id. Catalog ids map to
// fixed codes; any other id uses its first character, upper-cased.
func TokenFor(id string) OptionToken {
	if code, ok := knownTokens[id]; ok {
		return OptionToken{Code: code}
	}
	r, size := utf8.DecodeRuneInString(id)
	if size == 0 {
		return OptionToken{}
	}
	return OptionToken{Code: strings.ToUpper(string(r))}
}
