package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Free-text locations arrive as "District, City" or just "City", often with
// diacritics ("Mokotów, Warszawa"). Comparison always happens on the folded
// form.

var diacriticsFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Letters whose base form does not fall out of NFD decomposition.
var strayLetters = strings.NewReplacer(
	"ł", "l", "Ł", "L",
	"ø", "o", "Ø", "O",
	"đ", "d", "Đ", "D",
)

// NormalizeLocation folds diacritics, lowercases and trims a location
// string so "Kraków" and "krakow" compare equal.
func NormalizeLocation(s string) string {
	s = strayLetters.Replace(s)
	if folded, _, err := transform.String(diacriticsFolder, s); err == nil {
		s = folded
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// CityToken extracts the city component of a free-text location: the last
// comma-separated segment, normalized. A single-token location is its own
// city token.
func CityToken(location string) string {
	parts := strings.Split(location, ",")
	return NormalizeLocation(parts[len(parts)-1])
}

// LocationsCompatible is the coarse location pre-filter: the request's city
// token matches the property city, or the full request location contains
// the property city token. Covers both "District, City" and "City" inputs.
func LocationsCompatible(requestLocation, propertyCity string) bool {
	city := NormalizeLocation(propertyCity)
	if city == "" {
		return false
	}
	if CityToken(requestLocation) == city {
		return true
	}
	full := NormalizeLocation(requestLocation)
	return full != "" && strings.Contains(full, city)
}
