// Package relevance decides whether a piece of content applies to the
// user's selected car.
package relevance

import (
	"slices"
	"strings"

	"github.com/WessleyAI/carhub/engine/domain"
)

// Type is the relevance classification.
type Type string

const (
	TypeGeneral       Type = "GENERAL"
	TypeNoCarSelected Type = "NO_CAR_SELECTED"
	TypeAppliesToYou  Type = "APPLIES_TO_YOU"
	TypeDoesNotApply  Type = "DOES_NOT_APPLY"
)

// Variant is the display style of a classification.
type Variant string

const (
	VariantGeneral    Variant = "general"
	VariantApplies    Variant = "applies"
	VariantNotApplies Variant = "notApplies"
)

// Dimension is one declared applicability list.
type Dimension string

const (
	DimPowertrain Dimension = "powertrain"
	DimDrivetrain Dimension = "drivetrain"
	DimCategory   Dimension = "category"
	DimBrand      Dimension = "brand"
	DimModel      Dimension = "model"
)

// Metadata declares what a content block is about and which cars it
// applies to. Empty lists are undeclared.
type Metadata struct {
	Topics               []string `json:"topics,omitempty" yaml:"topics,omitempty"`
	AppliesToPowertrains []string `json:"appliesToPowertrains,omitempty" yaml:"appliesToPowertrains,omitempty"`
	AppliesToDrivetrains []string `json:"appliesToDrivetrains,omitempty" yaml:"appliesToDrivetrains,omitempty"`
	AppliesToCategories  []string `json:"appliesToCategories,omitempty" yaml:"appliesToCategories,omitempty"`
	AppliesToBrands      []string `json:"appliesToBrands,omitempty" yaml:"appliesToBrands,omitempty"`
	AppliesToModels      []string `json:"appliesToModels,omitempty" yaml:"appliesToModels,omitempty"`
	IsUniversal          bool     `json:"isUniversal,omitempty" yaml:"isUniversal,omitempty"`
}

// Declared reports whether any applicability list is non-empty.
func (m Metadata) Declared() bool {
	return len(m.AppliesToPowertrains) > 0 || len(m.AppliesToDrivetrains) > 0 ||
		len(m.AppliesToCategories) > 0 || len(m.AppliesToBrands) > 0 ||
		len(m.AppliesToModels) > 0
}

// Result is a classification with its display text.
type Result struct {
	Type    Type    `json:"type"`
	Variant Variant `json:"variant"`
	Label   string  `json:"label"`
	Message string  `json:"message,omitempty"`
}

// Classify evaluates meta against car. The first matching rule wins:
// universal content is general; with no car selected the answer is
// NO_CAR_SELECTED; content declaring no applicability is general; a match
// on any one declared dimension applies; otherwise it does not apply.
func Classify(meta Metadata, car *domain.Vehicle) Result {
	switch {
	case meta.IsUniversal:
		return general()
	case car == nil:
		return Result{
			Type:    TypeNoCarSelected,
			Variant: VariantGeneral,
			Label:   "Select a car",
			Message: "Select your car to see whether this applies to it",
		}
	case !meta.Declared():
		return general()
	case len(MatchedDimensions(meta, *car)) > 0:
		return Result{
			Type:    TypeAppliesToYou,
			Variant: VariantApplies,
			Label:   "Applies to your car",
			Message: "For Your " + car.Name,
		}
	default:
		return Result{
			Type:    TypeDoesNotApply,
			Variant: VariantNotApplies,
			Label:   "May not apply",
			Message: "This may not apply to your " + car.Name,
		}
	}
}

func general() Result {
	return Result{Type: TypeGeneral, Variant: VariantGeneral, Label: "General"}
}

// MatchedDimensions lists the declared dimensions car matches, in a fixed
// order.
func MatchedDimensions(meta Metadata, car domain.Vehicle) []Dimension {
	var out []Dimension
	if containsFold(meta.AppliesToPowertrains, string(car.Powertrain)) {
		out = append(out, DimPowertrain)
	}
	if containsFold(meta.AppliesToDrivetrains, string(car.Drivetrain)) {
		out = append(out, DimDrivetrain)
	}
	if containsFold(meta.AppliesToCategories, string(car.Category)) {
		out = append(out, DimCategory)
	}
	if brandMatches(meta.AppliesToBrands, car) {
		out = append(out, DimBrand)
	}
	if modelMatches(meta.AppliesToModels, car) {
		out = append(out, DimModel)
	}
	return out
}

func containsFold(list []string, v string) bool {
	if v == "" {
		return false
	}
	return slices.ContainsFunc(list, func(s string) bool {
		return strings.EqualFold(strings.TrimSpace(s), v)
	})
}

// brandMatches compares canonical spellings so "Chevy" matches "Chevrolet".
func brandMatches(brands []string, car domain.Vehicle) bool {
	brand := car.Brand
	if brand == "" {
		brand = domain.BrandFromName(car.Name)
	}
	if c := domain.CanonicalBrand(brand); c != "" {
		brand = c
	}
	return slices.ContainsFunc(brands, func(b string) bool {
		if c := domain.CanonicalBrand(b); c != "" {
			b = c
		}
		return brand != "" && strings.EqualFold(b, brand)
	})
}

// modelMatches accepts an exact model or a model named within the car's
// display name.
func modelMatches(models []string, car domain.Vehicle) bool {
	name := strings.ToLower(car.Name)
	return slices.ContainsFunc(models, func(m string) bool {
		m = strings.TrimSpace(m)
		if m == "" {
			return false
		}
		return strings.EqualFold(m, car.Model) || strings.Contains(name, strings.ToLower(m))
	})
}
