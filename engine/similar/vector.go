// Package similar finds cars that resemble a given car. Each car is
// embedded as a fixed-length feature vector and stored in Qdrant.
package similar

import (
	"github.com/google/uuid"

	"github.com/WessleyAI/carhub/engine/domain"
)

// Dims is the length of a car vector.
const Dims = 18

// neutral stands in for a missing feature.
const neutral = 0.5

var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("carhub/similar"))

// PointID is the stable Qdrant point id for a slug.
func PointID(slug string) string {
	return uuid.NewSHA1(pointNamespace, []byte(slug)).String()
}

// Vector embeds v. Scores and specs are scaled to [0,1]; layout and
// drivetrain are one-hot.
func Vector(v domain.Vehicle) []float32 {
	out := make([]float32, 0, Dims)
	for _, s := range []*float64{
		v.Sound, v.Interior, v.Track, v.Reliability, v.Value, v.DriverFun, v.Aftermarket,
	} {
		out = append(out, scaled(s, 10))
	}
	out = append(out,
		scaled(v.HP, 1000),
		scaled(v.Torque, 1000),
		scaled(v.CurbWeight, 5000),
		inverted(v.ZeroToSixty, 10),
		scaled(v.PriceAvg, 300_000),
	)
	out = append(out,
		oneHot(v.Category == domain.CategoryFrontEngine),
		oneHot(v.Category == domain.CategoryMidEngine),
		oneHot(v.Category == domain.CategoryRearEngine),
		oneHot(v.Drivetrain == domain.DrivetrainRWD),
		oneHot(v.Drivetrain == domain.DrivetrainAWD),
		oneHot(v.Drivetrain == domain.DrivetrainFWD),
	)
	return out
}

func scaled(p *float64, limit float64) float32 {
	if p == nil {
		return neutral
	}
	return float32(clamp(*p / limit))
}

// inverted scales metrics where lower is better, such as 0-60 times.
func inverted(p *float64, limit float64) float32 {
	if p == nil {
		return neutral
	}
	return float32(clamp(1 - *p/limit))
}

func clamp(x float64) float64 {
	return min(max(x, 0), 1)
}

func oneHot(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
