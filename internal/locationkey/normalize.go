// Package locationkey canonicalizes free-text city and state names into stable lookup keys.
package locationkey

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds text to its canonical key form: canonical decomposition,
// upper case, combining marks removed, surrounding whitespace trimmed.
//
// Normalize("São Paulo ") == "SAO PAULO". The result is a fixed point of Normalize.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// Transformers carry state; build a fresh chain per call.
	t := transform.Chain(
		norm.NFD,
		cases.Upper(language.Und),
		runes.Remove(runes.In(unicode.Mn)),
	)

	out, _, err := transform.String(t, text)
	if err != nil {
		// Only reachable on invalid UTF-8; fall back to a plain fold.
		out = strings.ToUpper(text)
	}

	return strings.TrimSpace(out)
}

// Key builds the cache key "<CITY>, <STATE>" from raw text.
// The state part is empty when no state is known ("CITY, ").
func Key(city, state string) string {
	return Join(Normalize(city), Normalize(state))
}

// Join builds a cache key from parts that are already normalized.
func Join(city, state string) string {
	return city + ", " + state
}
