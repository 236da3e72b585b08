package services

import (
	"errors"
	"fmt"
)

// Likelihood and impact are assessed on a 1-5 scale; the product score
// therefore spans 1-25.
const (
	ScaleMin = 1
	ScaleMax = 5
	ScoreMin = ScaleMin * ScaleMin
	ScoreMax = ScaleMax * ScaleMax
)

// Rating bands, ordered from lowest to highest severity.
const (
	RatingNegligible = "Negligible"
	RatingMinor      = "Minor"
	RatingModerate   = "Moderate"
	RatingMajor      = "Major"
	RatingCritical   = "Critical"
)

// ErrScaleOutOfRange is returned when a likelihood or impact value falls
// outside the 1-5 assessment scale. Out-of-range input is rejected, never
// clamped.
var ErrScaleOutOfRange = errors.New("likelihood and impact must be between 1 and 5")

type ratingBand struct {
	min    int
	max    int
	rating string
}

// The banding table is the single policy constant shared by inherent and
// residual scoring. Bands are contiguous and cover the full 1-25 range:
// 1-4 Negligible, 5-9 Minor, 10-14 Moderate, 15-19 Major, 20-25 Critical.
var ratingBands = []ratingBand{
	{1, 4, RatingNegligible},
	{5, 9, RatingMinor},
	{10, 14, RatingModerate},
	{15, 19, RatingMajor},
	{20, 25, RatingCritical},
}

// ratingRank orders the bands so callers can compare severities.
var ratingRank = map[string]int{
	RatingNegligible: 0,
	RatingMinor:      1,
	RatingModerate:   2,
	RatingMajor:      3,
	RatingCritical:   4,
}

// ComputeScore derives the risk score and rating band from a likelihood and
// impact pair. It is pure and is used identically for inherent and residual
// assessments.
func ComputeScore(likelihood, impact int) (int, string, error) {
	if likelihood < ScaleMin || likelihood > ScaleMax || impact < ScaleMin || impact > ScaleMax {
		return 0, "", fmt.Errorf("%w: got likelihood=%d impact=%d", ErrScaleOutOfRange, likelihood, impact)
	}
	score := likelihood * impact
	return score, RatingForScore(score), nil
}

// RatingForScore maps a 1-25 score onto its rating band. Scores outside the
// valid range return an empty rating; callers that validated their inputs
// through ComputeScore never see one.
func RatingForScore(score int) string {
	for _, band := range ratingBands {
		if score >= band.min && score <= band.max {
			return band.rating
		}
	}
	return ""
}

// RatingRank returns the severity order of a rating, Negligible being 0 and
// Critical 4. Unknown ratings return -1.
func RatingRank(rating string) int {
	rank, ok := ratingRank[rating]
	if !ok {
		return -1
	}
	return rank
}
