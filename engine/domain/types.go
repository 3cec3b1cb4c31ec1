// Package domain defines the core vehicle types, enumerations and validation
// shared by the catalog, garage and scoring engines.
package domain

import "slices"

// Tier classifies a vehicle by price bracket.
type Tier string

const (
	TierPremium  Tier = "premium"
	TierUpperMid Tier = "upper-mid"
	TierMid      Tier = "mid"
	TierBudget   Tier = "budget"
)

// ValidTiers is the set of recognised price tiers.
var ValidTiers = map[Tier]bool{
	TierPremium: true, TierUpperMid: true, TierMid: true, TierBudget: true,
}

// Category classifies a vehicle by engine placement.
type Category string

const (
	CategoryMidEngine   Category = "Mid-Engine"
	CategoryFrontEngine Category = "Front-Engine"
	CategoryRearEngine  Category = "Rear-Engine"
)

// Drivetrain is the driven-wheels layout.
type Drivetrain string

const (
	DrivetrainRWD Drivetrain = "RWD"
	DrivetrainAWD Drivetrain = "AWD"
	DrivetrainFWD Drivetrain = "FWD"
)

// Powertrain is the propulsion type.
type Powertrain string

const (
	PowertrainICE    Powertrain = "ice"
	PowertrainHybrid Powertrain = "hybrid"
	PowertrainEV     Powertrain = "ev"
)

// Volume is a coarse production-volume proxy.
type Volume string

const (
	VolumeHigh   Volume = "high"
	VolumeMedium Volume = "medium"
	VolumeLow    Volume = "low"
)

// Vehicle is a resolved catalog record. Pointer fields are independently
// nullable: nil means neither the remote store nor the static catalog has
// a value for that field.
type Vehicle struct {
	Slug             string     `json:"slug"`
	Name             string     `json:"name"`
	Brand            string     `json:"brand"`
	Model            string     `json:"model,omitempty"`
	Years            string     `json:"years"`
	Tier             Tier       `json:"tier"`
	Category         Category   `json:"category"`
	Drivetrain       Drivetrain `json:"drivetrain,omitempty"`
	Powertrain       Powertrain `json:"powertrain,omitempty"`
	Engine           string     `json:"engine,omitempty"`
	Transmission     string     `json:"transmission,omitempty"`
	PriceRange       string     `json:"priceRange,omitempty"`
	PriceAvg         *float64   `json:"priceAvg,omitempty"`
	ProductionVolume Volume     `json:"productionVolume,omitempty"`

	Scores
	Specs
	Performance

	Notes        string   `json:"notes,omitempty"`
	Pros         []string `json:"pros,omitempty"`
	Cons         []string `json:"cons,omitempty"`
	BestFor      []string `json:"bestFor,omitempty"`
	HeroImageURL string   `json:"heroImageUrl,omitempty"`
	Gallery      []string `json:"gallery,omitempty"`
	VideoURL     string   `json:"videoUrl,omitempty"`
}

// Scores are the seven 1-10 advisory ratings.
type Scores struct {
	Sound       *float64 `json:"sound,omitempty"`
	Interior    *float64 `json:"interior,omitempty"`
	Track       *float64 `json:"track,omitempty"`
	Reliability *float64 `json:"reliability,omitempty"`
	Value       *float64 `json:"value,omitempty"`
	DriverFun   *float64 `json:"driverFun,omitempty"`
	Aftermarket *float64 `json:"aftermarket,omitempty"`
}

// Specs are measured physical and performance figures.
type Specs struct {
	HP           *float64 `json:"hp,omitempty"`
	Torque       *float64 `json:"torque,omitempty"`
	CurbWeight   *float64 `json:"curbWeight,omitempty"`
	ZeroToSixty  *float64 `json:"zeroToSixty,omitempty"`
	QuarterMile  *float64 `json:"quarterMile,omitempty"`
	Braking60To0 *float64 `json:"braking60To0,omitempty"`
	LateralG     *float64 `json:"lateralG,omitempty"`
	TopSpeed     *float64 `json:"topSpeed,omitempty"`
}

// Performance holds the performance-hub scores.
type Performance struct {
	PerfPowerAccel      *float64 `json:"perfPowerAccel,omitempty"`
	PerfGripCornering   *float64 `json:"perfGripCornering,omitempty"`
	PerfBraking         *float64 `json:"perfBraking,omitempty"`
	PerfTrackPace       *float64 `json:"perfTrackPace,omitempty"`
	PerfDrivability     *float64 `json:"perfDrivability,omitempty"`
	PerfReliabilityHeat *float64 `json:"perfReliabilityHeat,omitempty"`
	PerfSoundEmotion    *float64 `json:"perfSoundEmotion,omitempty"`
}

// MaintenanceSpec is the fluids and consumables sheet for a car.
type MaintenanceSpec struct {
	CarSlug         string `json:"carSlug"`
	OilType         string `json:"oilType,omitempty"`
	OilCapacity     string `json:"oilCapacity,omitempty"`
	CoolantType     string `json:"coolantType,omitempty"`
	BrakeFluidType  string `json:"brakeFluidType,omitempty"`
	TireSizeFront   string `json:"tireSizeFront,omitempty"`
	TireSizeRear    string `json:"tireSizeRear,omitempty"`
	TirePressureF   string `json:"tirePressureFront,omitempty"`
	TirePressureR   string `json:"tirePressureRear,omitempty"`
}

// KnownIssue is a documented reliability problem.
type KnownIssue struct {
	CarSlug       string `json:"carSlug"`
	Title         string `json:"title"`
	Severity      string `json:"severity,omitempty"`
	Description   string `json:"description,omitempty"`
	AffectedYears string `json:"affectedYears,omitempty"`
	EstimatedCost string `json:"estimatedCost,omitempty"`
}

// ServiceInterval is a scheduled maintenance item.
type ServiceInterval struct {
	CarSlug       string `json:"carSlug"`
	Item          string `json:"item"`
	Miles         int    `json:"miles,omitempty"`
	Months        int    `json:"months,omitempty"`
	EstimatedCost string `json:"estimatedCost,omitempty"`
}

// Clone returns a copy of v that shares no pointers or slices with it.
func (v Vehicle) Clone() Vehicle {
	c := v
	c.PriceAvg = cloneFloat(v.PriceAvg)
	for _, p := range []**float64{
		&c.Sound, &c.Interior, &c.Track, &c.Reliability, &c.Value, &c.DriverFun, &c.Aftermarket,
		&c.HP, &c.Torque, &c.CurbWeight, &c.ZeroToSixty, &c.QuarterMile, &c.Braking60To0, &c.LateralG, &c.TopSpeed,
		&c.PerfPowerAccel, &c.PerfGripCornering, &c.PerfBraking, &c.PerfTrackPace,
		&c.PerfDrivability, &c.PerfReliabilityHeat, &c.PerfSoundEmotion,
	} {
		*p = cloneFloat(*p)
	}
	c.Pros = slices.Clone(v.Pros)
	c.Cons = slices.Clone(v.Cons)
	c.BestFor = slices.Clone(v.BestFor)
	c.Gallery = slices.Clone(v.Gallery)
	return c
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return Float(*p)
}

// Float returns a pointer to v. Used by seed data and tests.
func Float(v float64) *float64 { return &v }
