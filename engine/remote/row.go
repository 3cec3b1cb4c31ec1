package remote

import "github.com/WessleyAI/carhub/engine/domain"

// Row is one record of the remote cars relation. Column names are the
// remote snake_case schema; every column except slug may be null while the
// remote store is being populated.
type Row struct {
	Slug             string   `json:"slug" db:"slug"`
	Name             *string  `json:"name" db:"name"`
	Brand            *string  `json:"brand" db:"brand"`
	Model            *string  `json:"model" db:"model"`
	Years            *string  `json:"years" db:"years"`
	Tier             *string  `json:"tier" db:"tier"`
	Category         *string  `json:"category" db:"category"`
	Drivetrain       *string  `json:"drivetrain" db:"drivetrain"`
	Powertrain       *string  `json:"powertrain" db:"powertrain"`
	Engine           *string  `json:"engine" db:"engine"`
	Transmission     *string  `json:"transmission" db:"transmission"`
	PriceRange       *string  `json:"price_range" db:"price_range"`
	PriceAvg         *float64 `json:"price_avg" db:"price_avg"`
	ProductionVolume *string  `json:"production_volume" db:"production_volume"`

	ScoreSound       *float64 `json:"score_sound" db:"score_sound"`
	ScoreInterior    *float64 `json:"score_interior" db:"score_interior"`
	ScoreTrack       *float64 `json:"score_track" db:"score_track"`
	ScoreReliability *float64 `json:"score_reliability" db:"score_reliability"`
	ScoreValue       *float64 `json:"score_value" db:"score_value"`
	ScoreDriverFun   *float64 `json:"score_driver_fun" db:"score_driver_fun"`
	ScoreAftermarket *float64 `json:"score_aftermarket" db:"score_aftermarket"`

	HP           *float64 `json:"hp" db:"hp"`
	Torque       *float64 `json:"torque" db:"torque"`
	CurbWeight   *float64 `json:"curb_weight" db:"curb_weight"`
	ZeroToSixty  *float64 `json:"zero_to_sixty" db:"zero_to_sixty"`
	QuarterMile  *float64 `json:"quarter_mile" db:"quarter_mile"`
	Braking60To0 *float64 `json:"braking_60_0" db:"braking_60_0"`
	LateralG     *float64 `json:"lateral_g" db:"lateral_g"`
	TopSpeed     *float64 `json:"top_speed" db:"top_speed"`

	PerfPowerAccel      *float64 `json:"perf_power_accel" db:"perf_power_accel"`
	PerfGripCornering   *float64 `json:"perf_grip_cornering" db:"perf_grip_cornering"`
	PerfBraking         *float64 `json:"perf_braking" db:"perf_braking"`
	PerfTrackPace       *float64 `json:"perf_track_pace" db:"perf_track_pace"`
	PerfDrivability     *float64 `json:"perf_drivability" db:"perf_drivability"`
	PerfReliabilityHeat *float64 `json:"perf_reliability_heat" db:"perf_reliability_heat"`
	PerfSoundEmotion    *float64 `json:"perf_sound_emotion" db:"perf_sound_emotion"`

	Notes        *string  `json:"notes" db:"notes"`
	Pros         []string `json:"pros" db:"pros"`
	Cons         []string `json:"cons" db:"cons"`
	BestFor      []string `json:"best_for" db:"best_for"`
	HeroImageURL *string  `json:"image_hero_url" db:"image_hero_url"`
	Gallery      []string `json:"image_gallery" db:"image_gallery"`
	VideoURL     *string  `json:"video_url" db:"video_url"`
}

// RowFromVehicle projects a catalog vehicle onto the remote schema. Used to
// seed a remote store from the static catalog.
func RowFromVehicle(v domain.Vehicle) Row {
	return Row{
		Slug:             v.Slug,
		Name:             str(v.Name),
		Brand:            str(v.Brand),
		Model:            str(v.Model),
		Years:            str(v.Years),
		Tier:             str(string(v.Tier)),
		Category:         str(string(v.Category)),
		Drivetrain:       str(string(v.Drivetrain)),
		Powertrain:       str(string(v.Powertrain)),
		Engine:           str(v.Engine),
		Transmission:     str(v.Transmission),
		PriceRange:       str(v.PriceRange),
		PriceAvg:         v.PriceAvg,
		ProductionVolume: str(string(v.ProductionVolume)),

		ScoreSound:       v.Sound,
		ScoreInterior:    v.Interior,
		ScoreTrack:       v.Track,
		ScoreReliability: v.Reliability,
		ScoreValue:       v.Value,
		ScoreDriverFun:   v.DriverFun,
		ScoreAftermarket: v.Aftermarket,

		HP:           v.HP,
		Torque:       v.Torque,
		CurbWeight:   v.CurbWeight,
		ZeroToSixty:  v.ZeroToSixty,
		QuarterMile:  v.QuarterMile,
		Braking60To0: v.Braking60To0,
		LateralG:     v.LateralG,
		TopSpeed:     v.TopSpeed,

		PerfPowerAccel:      v.PerfPowerAccel,
		PerfGripCornering:   v.PerfGripCornering,
		PerfBraking:         v.PerfBraking,
		PerfTrackPace:       v.PerfTrackPace,
		PerfDrivability:     v.PerfDrivability,
		PerfReliabilityHeat: v.PerfReliabilityHeat,
		PerfSoundEmotion:    v.PerfSoundEmotion,

		Notes:        str(v.Notes),
		Pros:         v.Pros,
		Cons:         v.Cons,
		BestFor:      v.BestFor,
		HeroImageURL: str(v.HeroImageURL),
		Gallery:      v.Gallery,
		VideoURL:     str(v.VideoURL),
	}
}

// str maps "" to a null column.
func str(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
