package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// VIN format: 17 alphanumeric characters, excluding I, O, Q.
var vinRegex = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// Slugs are lowercase words joined by single hyphens.
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

const maxSlugLength = 96

// ValidateSlug checks that s is a URL-safe catalog key.
func ValidateSlug(s string) error {
	if len(s) == 0 || len(s) > maxSlugLength || !slugRegex.MatchString(s) {
		return NewValidationError("slug", s, ErrInvalidSlug)
	}
	return nil
}

// ValidateVIN checks the 17-character VIN format. Letters are upper-cased
// before matching; I, O and Q are never valid.
func ValidateVIN(vin string) error {
	if !vinRegex.MatchString(strings.ToUpper(strings.TrimSpace(vin))) {
		return NewValidationError("vin", vin, ErrInvalidVIN)
	}
	return nil
}

// ValidateVehicle validates a record before it is written to a remote store.
func ValidateVehicle(v Vehicle) error {
	if err := ValidateSlug(v.Slug); err != nil {
		return err
	}
	if strings.TrimSpace(v.Name) == "" {
		return NewValidationError("name", v.Name, ErrInvalidVehicle)
	}
	if v.Tier != "" && !ValidTiers[v.Tier] {
		return NewValidationError("tier", string(v.Tier), ErrUnknownTier)
	}
	if v.Brand != "" && CanonicalBrand(v.Brand) == "" {
		return NewValidationError("brand", v.Brand, ErrUnknownBrand)
	}

	scores := map[string]*float64{
		"sound":       v.Sound,
		"interior":    v.Interior,
		"track":       v.Track,
		"reliability": v.Reliability,
		"value":       v.Value,
		"driverFun":   v.DriverFun,
		"aftermarket": v.Aftermarket,
	}
	for field, s := range scores {
		if s != nil && (*s < 1 || *s > 10) {
			return NewValidationError(field, fmt.Sprintf("%g", *s), ErrScoreRange)
		}
	}
	return nil
}

// Slugify builds a slug from a display name: "Porsche 911 GT3" -> "porsche-911-gt3".
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
