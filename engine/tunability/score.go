// Package tunability derives a 0-10 "moddability" score from a vehicle's
// static attributes.
package tunability

import (
	"fmt"
	"math"

	"github.com/WessleyAI/carhub/engine/domain"
)

const (
	base           = 5.0
	aftermarketMul = 0.6
)

// Labels by minimum score, highest first.
var labels = []struct {
	min         float64
	label       string
	description string
}{
	{8, "Highly Moddable", "Deep parts catalog and a large tuning community. Most upgrades are bolt-on."},
	{6.5, "Very Tunable", "Strong aftermarket with well-documented upgrade paths."},
	{5, "Moderately Tunable", "Common upgrades are available; bigger builds need specialist work."},
	{3.5, "Limited Support", "A small aftermarket; expect to source parts from specialists."},
	{0, "Difficult to Modify", "Few parts, complex packaging or electronics that resist changes."},
}

var categoryImpact = map[domain.Category]Factor{
	domain.CategoryFrontEngine: {"Front-engine layout: easy engine bay access", 0.5},
	domain.CategoryMidEngine:   {"Mid-engine packaging", -0.5},
	domain.CategoryRearEngine:  {"Rear-engine packaging", -0.3},
}

var drivetrainImpact = map[domain.Drivetrain]Factor{
	domain.DrivetrainRWD: {"RWD layout", 1.2},
	domain.DrivetrainAWD: {"AWD layout", 0.4},
	domain.DrivetrainFWD: {"FWD layout", -0.3},
}

var tierImpact = map[domain.Tier]Factor{
	domain.TierBudget:  {"Budget price tier", 0.8},
	domain.TierMid:     {"Mid price tier", 0.5},
	domain.TierPremium: {"Premium price tier", -0.5},
}

var volumeImpact = map[domain.Volume]Factor{
	domain.VolumeHigh: {"High production volume", 0.6},
	domain.VolumeLow:  {"Low production volume", -0.8},
}

// Brands with a large tuning ecosystem, and brands whose owners rarely modify.
var (
	tunerBrands  = map[string]bool{"Nissan": true, "Toyota": true, "Subaru": true, "Ford": true, "Chevrolet": true, "BMW": true, "Honda": true, "Mazda": true}
	exoticBrands = map[string]bool{"Ferrari": true, "Lamborghini": true, "McLaren": true, "Maserati": true, "Aston Martin": true}
)

// Factor is one signed contribution to the score.
type Factor struct {
	Factor string  `json:"factor"`
	Impact float64 `json:"impact"`
}

func (f Factor) String() string {
	return fmt.Sprintf("%s: %+.1f", f.Factor, f.Impact)
}

// Result is a tunability score with its explanation.
type Result struct {
	Score       float64  `json:"score"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Factors     []Factor `json:"factors"`
}

// Score computes the tunability of v. It is a pure function of v's
// attributes: the same vehicle always yields the same score and factors.
func Score(v domain.Vehicle) Result {
	factors := []Factor{}
	add := func(f Factor, ok bool) {
		if ok && f.Impact != 0 {
			f.Impact = round1(f.Impact)
			factors = append(factors, f)
		}
	}

	if v.Aftermarket != nil {
		add(Factor{fmt.Sprintf("Aftermarket support (%g/10)", *v.Aftermarket), (*v.Aftermarket - 5) * aftermarketMul}, true)
	}
	f, ok := categoryImpact[v.Category]
	add(f, ok)
	f, ok = drivetrainImpact[v.Drivetrain]
	add(f, ok)
	add(brandFactor(v))
	f, ok = tierImpact[v.Tier]
	add(f, ok)
	f, ok = volumeImpact[volume(v)]
	add(f, ok)

	score := base
	for _, f := range factors {
		score += f.Impact
	}
	score = round1(math.Max(0, math.Min(10, score)))

	r := Result{Score: score, Factors: factors}
	for _, l := range labels {
		if score >= l.min {
			r.Label, r.Description = l.label, l.description
			break
		}
	}
	return r
}

func brandFactor(v domain.Vehicle) (Factor, bool) {
	brand := domain.CanonicalBrand(v.Brand)
	if brand == "" {
		brand = domain.BrandFromName(v.Name)
	}
	switch {
	case tunerBrands[brand]:
		return Factor{brand + " tuning ecosystem", 0.8}, true
	case exoticBrands[brand]:
		return Factor{brand + " exotic ownership", -1.0}, true
	}
	return Factor{}, false
}

// volume uses the declared production volume, or price as a proxy for it.
func volume(v domain.Vehicle) domain.Volume {
	if v.ProductionVolume != "" {
		return v.ProductionVolume
	}
	if v.PriceAvg == nil {
		return ""
	}
	switch p := *v.PriceAvg; {
	case p >= 150000:
		return domain.VolumeLow
	case p < 50000:
		return domain.VolumeHigh
	}
	return domain.VolumeMedium
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
