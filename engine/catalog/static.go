package catalog

import (
	"github.com/WessleyAI/carhub/engine/domain"
	"github.com/WessleyAI/carhub/pkg/fn"
)

var num = domain.Float

// staticCatalog is the bundled fallback dataset, in display order. It is
// served verbatim when the remote store is unavailable and fills fields the
// remote store has not populated yet.
var staticCatalog = []domain.Vehicle{
	{
		Slug: "porsche-911-gt3", Name: "Porsche 911 GT3", Brand: "Porsche", Model: "911",
		Years: "2022-2024", Tier: domain.TierPremium, Category: domain.CategoryRearEngine,
		Drivetrain: domain.DrivetrainRWD, Powertrain: domain.PowertrainICE,
		Engine: "4.0L naturally aspirated flat-six", Transmission: "7-speed PDK / 6-speed manual",
		PriceRange: "$180k-$250k", PriceAvg: num(215000), ProductionVolume: domain.VolumeLow,
		Scores: domain.Scores{Sound: num(10), Interior: num(8), Track: num(10), Reliability: num(8), Value: num(6), DriverFun: num(10), Aftermarket: num(7)},
		Specs:  domain.Specs{HP: num(502), Torque: num(346), CurbWeight: num(3164), ZeroToSixty: num(3.2), QuarterMile: num(11.0), Braking60To0: num(95), LateralG: num(1.2), TopSpeed: num(197)},
		Performance: domain.Performance{PerfPowerAccel: num(9), PerfGripCornering: num(10), PerfBraking: num(10), PerfTrackPace: num(10), PerfDrivability: num(7), PerfReliabilityHeat: num(9), PerfSoundEmotion: num(10)},
		Notes:   "9,000 rpm flat-six with a double-wishbone front axle borrowed from the race car.",
		Pros:    []string{"Engine note", "Steering feel", "Track durability"},
		Cons:    []string{"Dealer markups", "Firm ride"},
		BestFor: []string{"track days", "collectors"},
	},
	{
		Slug: "porsche-718-cayman", Name: "Porsche Cayman", Brand: "Porsche", Model: "718",
		Years: "2017-2024", Tier: domain.TierUpperMid, Category: domain.CategoryMidEngine,
		Drivetrain: domain.DrivetrainRWD, Powertrain: domain.PowertrainICE,
		Engine: "2.0L turbocharged flat-four", Transmission: "7-speed PDK / 6-speed manual",
		PriceRange: "$65k-$80k", PriceAvg: num(72000), ProductionVolume: domain.VolumeMedium,
		Scores: domain.Scores{Sound: num(5), Interior: num(8), Track: num(8), Reliability: num(8), Value: num(7), DriverFun: num(9), Aftermarket: num(7)},
		Specs:  domain.Specs{HP: num(300), Torque: num(280), CurbWeight: num(3045), ZeroToSixty: num(4.7), QuarterMile: num(13.1), Braking60To0: num(101), LateralG: num(1.0), TopSpeed: num(170)},
		Performance: domain.Performance{PerfPowerAccel: num(6), PerfGripCornering: num(9), PerfBraking: num(9), PerfTrackPace: num(7), PerfDrivability: num(9), PerfReliabilityHeat: num(8), PerfSoundEmotion: num(5)},
		Notes:   "Balanced mid-engine chassis held back only by the four-cylinder soundtrack.",
		Pros:    []string{"Balance", "Daily usability", "Two trunks"},
		Cons:    []string{"Four-cylinder sound"},
		BestFor: []string{"canyon roads", "daily driving"},
	},
	{
		Slug: "chevrolet-corvette-c8", Name: "Chevrolet Corvette Stingray", Brand: "Chevrolet", Model: "Corvette",
		Years: "2020-2024", Tier: domain.TierUpperMid, Category: domain.CategoryMidEngine,
		Drivetrain: domain.DrivetrainRWD, Powertrain: domain.PowertrainICE,
		Engine: "6.2L LT2 V8", Transmission: "8-speed dual-clutch",
		PriceRange: "$65k-$85k", PriceAvg: num(75000), ProductionVolume: domain.VolumeHigh,
		Scores: domain.Scores{Sound: num(8), Interior: num(7), Track: num(8), Reliability: num(7), Value: num(10), DriverFun: num(8), Aftermarket: num(9)},
		Specs:  domain.Specs{HP: num(495), Torque: num(470), CurbWeight: num(3535), ZeroToSixty: num(2.9), QuarterMile: num(11.2), Braking60To0: num(98), LateralG: num(1.04), TopSpeed: num(194)},
		Performance: domain.Performance{PerfPowerAccel: num(9), PerfGripCornering: num(8), PerfBraking: num(8), PerfTrackPace: num(8), PerfDrivability: num(9), PerfReliabilityHeat: num(7), PerfSoundEmotion: num(8)},
		Notes:   "Supercar acceleration at a fraction of the price.",
		Pros:    []string{"Performance per dollar", "Comfort", "Aftermarket"},
		Cons:    []string{"Interior quality", "Front visibility"},
		BestFor: []string{"road trips", "straight-line speed"},
	},
	{
		Slug: "nissan-gt-r", Name: "Nissan GT-R", Brand: "Nissan", Model: "GT-R",
		Years: "2017-2024", Tier: domain.TierPremium, Category: domain.CategoryFrontEngine,
		Drivetrain: domain.DrivetrainAWD, Powertrain: domain.PowertrainICE,
		Engine: "3.8L twin-turbo VR38DETT V6", Transmission: "6-speed dual-clutch",
		PriceRange: "$110k-$125k", PriceAvg: num(118000), ProductionVolume: domain.VolumeMedium,
		Scores: domain.Scores{Sound: num(6), Interior: num(6), Track: num(8), Reliability: num(7), Value: num(6), DriverFun: num(7), Aftermarket: num(10)},
		Specs:  domain.Specs{HP: num(565), Torque: num(467), CurbWeight: num(3933), ZeroToSixty: num(2.9), QuarterMile: num(11.1), Braking60To0: num(100), LateralG: num(1.0), TopSpeed: num(196)},
		Notes:   "Hand-built engine and a tuning scene that routinely doubles its output.",
		Pros:    []string{"All-weather pace", "Tuning potential"},
		Cons:    []string{"Weight", "Dated cabin"},
		BestFor: []string{"tuning", "launch control"},
	},
	{
		Slug: "ford-mustang-gt", Name: "Ford Mustang GT", Brand: "Ford", Model: "Mustang",
		Years: "2018-2023", Tier: domain.TierMid, Category: domain.CategoryFrontEngine,
		Drivetrain: domain.DrivetrainRWD, Powertrain: domain.PowertrainICE,
		Engine: "5.0L Coyote V8", Transmission: "6-speed manual / 10-speed automatic",
		PriceRange: "$35k-$48k", PriceAvg: num(42000), ProductionVolume: domain.VolumeHigh,
		Scores: domain.Scores{Sound: num(9), Interior: num(6), Track: num(6), Reliability: num(8), Value: num(9), DriverFun: num(8), Aftermarket: num(10)},
		Specs:  domain.Specs{HP: num(460), Torque: num(420), CurbWeight: num(3705), ZeroToSixty: num(4.2), QuarterMile: num(12.3), Braking60To0: num(107), LateralG: num(0.97), TopSpeed: num(155)},
		Notes:   "The default V8 project car with parts for every budget.",
		Pros:    []string{"V8 sound", "Parts availability"},
		Cons:    []string{"Weight", "Rear seat space"},
		BestFor: []string{"drag strip", "first project car"},
	},
	{
		Slug: "toyota-gr86", Name: "Toyota GR86", Brand: "Toyota", Model: "GR86",
		Years: "2022-2024", Tier: domain.TierBudget, Category: domain.CategoryFrontEngine,
		Drivetrain: domain.DrivetrainRWD, Powertrain: domain.PowertrainICE,
		Engine: "2.4L flat-four", Transmission: "6-speed manual / 6-speed automatic",
		PriceRange: "$29k-$34k", PriceAvg: num(31000), ProductionVolume: domain.VolumeHigh,
		Scores: domain.Scores{Sound: num(5), Interior: num(6), Track: num(7), Reliability: num(8), Value: num(10), DriverFun: num(9), Aftermarket: num(9)},
		Specs:  domain.Specs{HP: num(228), Torque: num(184), CurbWeight: num(2811), ZeroToSixty: num(5.4), QuarterMile: num(14.0), Braking60To0: num(108), LateralG: num(0.98), TopSpeed: num(140)},
		Notes:   "Light, cheap and rear-drive: the entry ticket to grassroots motorsport.",
		Pros:    []string{"Price", "Chassis balance"},
		Cons:    []string{"Road noise"},
		BestFor: []string{"autocross", "learning car control"},
	},
	{
		Slug: "mazda-mx-5-miata", Name: "Mazda MX-5 Miata", Brand: "Mazda", Model: "MX-5 Miata",
		Years: "2019-2024", Tier: domain.TierBudget, Category: domain.CategoryFrontEngine,
		Drivetrain: domain.DrivetrainRWD, Powertrain: domain.PowertrainICE,
		Engine: "2.0L Skyactiv-G inline-four", Transmission: "6-speed manual",
		PriceRange: "$29k-$36k", PriceAvg: num(32000), ProductionVolume: domain.VolumeHigh,
		Scores: domain.Scores{Sound: num(5), Interior: num(6), Track: num(7), Reliability: num(9), Value: num(9), DriverFun: num(10), Aftermarket: num(9)},
		Specs:  domain.Specs{HP: num(181), Torque: num(151), CurbWeight: num(2341), ZeroToSixty: num(5.7), QuarterMile: num(14.3), Braking60To0: num(112), LateralG: num(0.93), TopSpeed: num(135)},
		Notes:   "Open-top roadster that proves power is optional.",
		Pros:    []string{"Reliability", "Low running costs"},
		Cons:    []string{"Cabin space"},
		BestFor: []string{"weekend drives", "spec racing"},
	},
	{
		Slug: "bmw-m2", Name: "BMW M2", Brand: "BMW", Model: "M2",
		Years: "2023-2024", Tier: domain.TierUpperMid, Category: domain.CategoryFrontEngine,
		Drivetrain: domain.DrivetrainRWD, Powertrain: domain.PowertrainICE,
		Engine: "3.0L twin-turbo S58 inline-six", Transmission: "6-speed manual / 8-speed automatic",
		PriceRange: "$63k-$72k", PriceAvg: num(66000), ProductionVolume: domain.VolumeMedium,
		Scores: domain.Scores{Sound: num(7), Interior: num(8), Track: num(8), Reliability: num(7), Value: num(7), DriverFun: num(8), Aftermarket: num(9)},
		Specs:  domain.Specs{HP: num(453), Torque: num(406), CurbWeight: num(3814), ZeroToSixty: num(3.9), QuarterMile: num(12.1), Braking60To0: num(104), LateralG: num(1.0), TopSpeed: num(177)},
		Notes:   "Compact coupe with the M3 engine and a manual option.",
		Pros:    []string{"Engine", "Manual gearbox"},
		Cons:    []string{"Weight", "Styling"},
		BestFor: []string{"daily driving", "track days"},
	},
	{
		Slug: "lotus-emira", Name: "Lotus Emira", Brand: "Lotus", Model: "Emira",
		Years: "2022-2024", Tier: domain.TierUpperMid, Category: domain.CategoryMidEngine,
		Drivetrain: domain.DrivetrainRWD, Powertrain: domain.PowertrainICE,
		Engine: "3.5L supercharged V6", Transmission: "6-speed manual / 6-speed automatic",
		PriceRange: "$95k-$105k", PriceAvg: num(99000), ProductionVolume: domain.VolumeLow,
		Scores: domain.Scores{Sound: num(8), Interior: num(7), Track: num(8), Reliability: num(6), Value: num(7), DriverFun: num(9), Aftermarket: num(4)},
		Specs:  domain.Specs{HP: num(400), Torque: num(310), CurbWeight: num(3187), ZeroToSixty: num(4.2), TopSpeed: num(180)},
		Notes:   "Hydraulic steering and a gated manual in a mid-engine package.",
		Pros:    []string{"Steering", "Looks"},
		Cons:    []string{"Infotainment", "Dealer network"},
		BestFor: []string{"purists"},
	},
	{
		Slug: "audi-r8", Name: "Audi R8 V10", Brand: "Audi", Model: "R8",
		Years: "2017-2023", Tier: domain.TierPremium, Category: domain.CategoryMidEngine,
		Drivetrain: domain.DrivetrainAWD, Powertrain: domain.PowertrainICE,
		Engine: "5.2L naturally aspirated V10", Transmission: "7-speed dual-clutch",
		PriceRange: "$150k-$210k", PriceAvg: num(175000), ProductionVolume: domain.VolumeLow,
		Scores: domain.Scores{Sound: num(10), Interior: num(8), Track: num(8), Reliability: num(7), Value: num(5), DriverFun: num(8), Aftermarket: num(5)},
		Specs:  domain.Specs{HP: num(562), Torque: num(406), CurbWeight: num(3649), ZeroToSixty: num(3.2), QuarterMile: num(11.0), Braking60To0: num(99), LateralG: num(1.05), TopSpeed: num(201)},
		Notes:   "The everyday supercar, shared with the Huracan.",
		Pros:    []string{"V10", "Usability"},
		Cons:    []string{"Price", "Fuel economy"},
		BestFor: []string{"grand touring"},
	},
	{
		Slug: "honda-civic-type-r", Name: "Honda Civic Type R", Brand: "Honda", Model: "Civic Type R",
		Years: "2023-2024", Tier: domain.TierMid, Category: domain.CategoryFrontEngine,
		Drivetrain: domain.DrivetrainFWD, Powertrain: domain.PowertrainICE,
		Engine: "2.0L turbocharged K20C1 inline-four", Transmission: "6-speed manual",
		PriceRange: "$44k-$50k", PriceAvg: num(46000), ProductionVolume: domain.VolumeHigh,
		Scores: domain.Scores{Sound: num(5), Interior: num(7), Track: num(8), Reliability: num(9), Value: num(8), DriverFun: num(8), Aftermarket: num(8)},
		Specs:  domain.Specs{HP: num(315), Torque: num(310), CurbWeight: num(3188), ZeroToSixty: num(5.0), QuarterMile: num(13.4), Braking60To0: num(105), LateralG: num(1.0), TopSpeed: num(171)},
		Notes:   "Front-drive hot hatch that laps like a sports car.",
		Pros:    []string{"Practicality", "Shifter"},
		Cons:    []string{"Front-drive limits"},
		BestFor: []string{"one-car garages"},
	},
	{
		Slug: "acura-nsx", Name: "Acura NSX", Brand: "Acura", Model: "NSX",
		Years: "2017-2022", Tier: domain.TierPremium, Category: domain.CategoryMidEngine,
		Drivetrain: domain.DrivetrainAWD, Powertrain: domain.PowertrainHybrid,
		Engine: "3.5L twin-turbo V6 with three electric motors", Transmission: "9-speed dual-clutch",
		PriceRange: "$130k-$170k", PriceAvg: num(150000), ProductionVolume: domain.VolumeLow,
		Scores: domain.Scores{Sound: num(6), Interior: num(7), Track: num(8), Reliability: num(8), Value: num(6), DriverFun: num(7), Aftermarket: num(3)},
		Specs:  domain.Specs{HP: num(573), Torque: num(476), CurbWeight: num(3878), ZeroToSixty: num(2.9)},
		Notes:   "Hybrid torque vectoring makes it approachable at the limit.",
		Pros:    []string{"Reliability", "Traction"},
		Cons:    []string{"Weight", "Synthetic feel"},
		BestFor: []string{"daily supercar"},
	},
}

// Static returns a deep copy of the static catalog in its declared order.
func Static() []domain.Vehicle {
	return fn.Map(staticCatalog, domain.Vehicle.Clone)
}
