package catalog

import (
	"strings"

	"github.com/WessleyAI/carhub/engine/domain"
	"github.com/WessleyAI/carhub/engine/remote"
)

// Normalize maps a remote row onto the canonical Vehicle. Every field
// resolves independently: the remote value when non-null, else the static
// value, else absent. static may be nil when the slug is remote-only.
func Normalize(row remote.Row, static *domain.Vehicle) domain.Vehicle {
	v, _ := normalize(row, static)
	return v
}

// fallbacks counts the fields taken from static during one normalize call.
type fallbacks int

func normalize(row remote.Row, static *domain.Vehicle) (domain.Vehicle, int) {
	var st domain.Vehicle
	if static != nil {
		st = *static
	}
	var n fallbacks

	v := domain.Vehicle{
		Slug:             row.Slug,
		Name:             n.str(row.Name, st.Name),
		Model:            n.str(row.Model, st.Model),
		Years:            n.str(row.Years, st.Years),
		Tier:             domain.Tier(n.enum(row.Tier, string(st.Tier), validTier)),
		Category:         domain.Category(n.enum(row.Category, string(st.Category), validCategory)),
		Drivetrain:       domain.Drivetrain(n.enum(row.Drivetrain, string(st.Drivetrain), validDrivetrain)),
		Powertrain:       domain.Powertrain(n.enum(row.Powertrain, string(st.Powertrain), validPowertrain)),
		Engine:           n.str(row.Engine, st.Engine),
		Transmission:     n.str(row.Transmission, st.Transmission),
		PriceRange:       n.str(row.PriceRange, st.PriceRange),
		PriceAvg:         n.num(row.PriceAvg, st.PriceAvg),
		ProductionVolume: domain.Volume(n.enum(row.ProductionVolume, string(st.ProductionVolume), validVolume)),

		Scores: domain.Scores{
			Sound:       n.num(row.ScoreSound, st.Sound),
			Interior:    n.num(row.ScoreInterior, st.Interior),
			Track:       n.num(row.ScoreTrack, st.Track),
			Reliability: n.num(row.ScoreReliability, st.Reliability),
			Value:       n.num(row.ScoreValue, st.Value),
			DriverFun:   n.num(row.ScoreDriverFun, st.DriverFun),
			Aftermarket: n.num(row.ScoreAftermarket, st.Aftermarket),
		},
		Specs: domain.Specs{
			HP:           n.num(row.HP, st.HP),
			Torque:       n.num(row.Torque, st.Torque),
			CurbWeight:   n.num(row.CurbWeight, st.CurbWeight),
			ZeroToSixty:  n.num(row.ZeroToSixty, st.ZeroToSixty),
			QuarterMile:  n.num(row.QuarterMile, st.QuarterMile),
			Braking60To0: n.num(row.Braking60To0, st.Braking60To0),
			LateralG:     n.num(row.LateralG, st.LateralG),
			TopSpeed:     n.num(row.TopSpeed, st.TopSpeed),
		},
		Performance: domain.Performance{
			PerfPowerAccel:      n.num(row.PerfPowerAccel, st.PerfPowerAccel),
			PerfGripCornering:   n.num(row.PerfGripCornering, st.PerfGripCornering),
			PerfBraking:         n.num(row.PerfBraking, st.PerfBraking),
			PerfTrackPace:       n.num(row.PerfTrackPace, st.PerfTrackPace),
			PerfDrivability:     n.num(row.PerfDrivability, st.PerfDrivability),
			PerfReliabilityHeat: n.num(row.PerfReliabilityHeat, st.PerfReliabilityHeat),
			PerfSoundEmotion:    n.num(row.PerfSoundEmotion, st.PerfSoundEmotion),
		},

		Notes:        n.str(row.Notes, st.Notes),
		Pros:         n.list(row.Pros, st.Pros),
		Cons:         n.list(row.Cons, st.Cons),
		BestFor:      n.list(row.BestFor, st.BestFor),
		HeroImageURL: n.str(row.HeroImageURL, st.HeroImageURL),
		Gallery:      n.list(row.Gallery, st.Gallery),
		VideoURL:     n.str(row.VideoURL, st.VideoURL),
	}

	// Brand: remote, then static, then inferred from the resolved name.
	v.Brand = n.str(canonical(row.Brand), st.Brand)
	if v.Brand == "" {
		v.Brand = domain.BrandFromName(v.Name)
	}
	if v.Name == "" {
		v.Name = v.Slug
	}
	return v, int(n)
}

func (n *fallbacks) str(rv *string, sv string) string {
	if rv != nil && strings.TrimSpace(*rv) != "" {
		return *rv
	}
	if sv != "" {
		*n++
	}
	return sv
}

func (n *fallbacks) num(rv, sv *float64) *float64 {
	if rv != nil {
		return rv
	}
	if sv != nil {
		*n++
	}
	return sv
}

// list treats an empty remote list like null: the remote store writes []
// for columns it has not populated.
func (n *fallbacks) list(rv, sv []string) []string {
	if len(rv) > 0 {
		return rv
	}
	if len(sv) > 0 {
		*n++
	}
	return sv
}

// enum accepts the remote value only when it is a recognised member.
func (n *fallbacks) enum(rv *string, sv string, valid func(string) bool) string {
	if rv != nil && valid(*rv) {
		return *rv
	}
	if sv != "" {
		*n++
	}
	return sv
}

func canonical(brand *string) *string {
	if brand == nil {
		return nil
	}
	if c := domain.CanonicalBrand(*brand); c != "" {
		return &c
	}
	return brand
}

func validTier(s string) bool { return domain.ValidTiers[domain.Tier(s)] }

func validCategory(s string) bool {
	switch domain.Category(s) {
	case domain.CategoryMidEngine, domain.CategoryFrontEngine, domain.CategoryRearEngine:
		return true
	}
	return false
}

func validDrivetrain(s string) bool {
	switch domain.Drivetrain(s) {
	case domain.DrivetrainRWD, domain.DrivetrainAWD, domain.DrivetrainFWD:
		return true
	}
	return false
}

func validPowertrain(s string) bool {
	switch domain.Powertrain(s) {
	case domain.PowertrainICE, domain.PowertrainHybrid, domain.PowertrainEV:
		return true
	}
	return false
}

func validVolume(s string) bool {
	switch domain.Volume(s) {
	case domain.VolumeHigh, domain.VolumeMedium, domain.VolumeLow:
		return true
	}
	return false
}
