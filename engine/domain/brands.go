package domain

import "strings"

// KnownBrands maps canonical brand names to the model lines the catalog
// carries. Aliases resolve through brandAliases.
var KnownBrands = map[string][]string{
	"Porsche":      {"911", "Cayman", "Boxster", "718"},
	"Chevrolet":    {"Corvette", "Camaro"},
	"Ford":         {"Mustang", "GT"},
	"BMW":          {"M2", "M3", "M4", "Z4"},
	"Toyota":       {"GR Supra", "GR86", "Supra"},
	"Subaru":       {"BRZ", "WRX"},
	"Nissan":       {"GT-R", "370Z", "Z"},
	"Mazda":        {"MX-5 Miata", "RX-7", "RX-8"},
	"Audi":         {"R8", "RS3", "RS5", "TT RS"},
	"Lotus":        {"Emira", "Evora", "Exige", "Elise"},
	"Mercedes-AMG": {"GT", "C63"},
	"Lexus":        {"LC 500", "RC F"},
	"Dodge":        {"Viper", "Challenger"},
	"Honda":        {"NSX", "S2000", "Civic Type R"},
	"Acura":        {"NSX", "Integra"},
	"Alpine":       {"A110"},
	"Jaguar":       {"F-Type"},
	"Aston Martin": {"Vantage"},
	"McLaren":      {"570S", "720S", "Artura"},
	"Ferrari":      {"458", "488", "F8"},
	"Lamborghini":  {"Huracan", "Gallardo"},
	"Maserati":     {"MC20"},
}

var brandAliases = map[string]string{
	"chevy":    "Chevrolet",
	"vw":       "Volkswagen",
	"mercedes": "Mercedes-AMG",
	"amg":      "Mercedes-AMG",
	"merc":     "Mercedes-AMG",
}

// CanonicalBrand returns the catalog spelling of brand, or "" if unknown.
func CanonicalBrand(brand string) string {
	b := strings.TrimSpace(brand)
	if b == "" {
		return ""
	}
	if alias, ok := brandAliases[strings.ToLower(b)]; ok {
		return alias
	}
	for known := range KnownBrands {
		if strings.EqualFold(known, b) {
			return known
		}
	}
	return ""
}

// BrandFromName infers the brand from a display name like "Porsche 911 GT3".
// Multi-word brands are matched before single words.
func BrandFromName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	best := ""
	for known := range KnownBrands {
		k := strings.ToLower(known)
		if lower == k || strings.HasPrefix(lower, k+" ") {
			if len(known) > len(best) {
				best = known
			}
		}
	}
	if best != "" {
		return best
	}
	first, _, _ := strings.Cut(lower, " ")
	if alias, ok := brandAliases[first]; ok {
		return alias
	}
	return ""
}
