package matching

import "testing"

func TestNormalizeLocation(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain city", "Warszawa", "warszawa"},
		{"diacritics", "Kraków", "krakow"},
		{"stray letter", "Wrocław", "wroclaw"},
		{"mixed diacritics", "Łódź", "lodz"},
		{"whitespace", "  Gdańsk  ", "gdansk"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeLocation(tc.in)
			if got != tc.want {
				t.Fatalf("expected %q got %q", tc.want, got)
			}
		})
	}
}

func TestCityToken(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"district and city", "Mokotów, Warszawa", "warszawa"},
		{"city only", "Warszawa", "warszawa"},
		{"three segments", "Stare Miasto, Śródmieście, Kraków", "krakow"},
		{"trailing comma", "Warszawa,", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CityToken(tc.in)
			if got != tc.want {
				t.Fatalf("expected %q got %q", tc.want, got)
			}
		})
	}
}

func TestLocationsCompatible(t *testing.T) {
	cases := []struct {
		name     string
		location string
		city     string
		want     bool
	}{
		{"token match", "Mokotów, Warszawa", "Warszawa", true},
		{"token match folded", "mokotow, warszawa", "WARSZAWA", true},
		{"full string contains city", "Osiedle przy Warszawa Zachodnia", "Warszawa", true},
		{"different city", "Mokotów, Warszawa", "Kraków", false},
		{"empty city", "Warszawa", "", false},
		{"empty location", "", "Warszawa", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := LocationsCompatible(tc.location, tc.city)
			if got != tc.want {
				t.Fatalf("expected %v got %v", tc.want, got)
			}
		})
	}
}
