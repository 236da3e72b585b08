package services

import (
	"errors"
	"testing"
)

func TestComputeScoreIsProductOfInputs(t *testing.T) {
	for likelihood := 1; likelihood <= 5; likelihood++ {
		for impact := 1; impact <= 5; impact++ {
			score, rating, err := ComputeScore(likelihood, impact)
			if err != nil {
				t.Fatalf("ComputeScore(%d, %d) returned error: %v", likelihood, impact, err)
			}
			if score != likelihood*impact {
				t.Fatalf("ComputeScore(%d, %d) = %d, want %d", likelihood, impact, score, likelihood*impact)
			}
			if rating == "" {
				t.Fatalf("ComputeScore(%d, %d) returned empty rating", likelihood, impact)
			}
			if rating != RatingForScore(score) {
				t.Fatalf("rating %q does not match RatingForScore(%d) = %q", rating, score, RatingForScore(score))
			}
		}
	}
}

func TestComputeScoreIsIdempotent(t *testing.T) {
	score1, rating1, err1 := ComputeScore(4, 3)
	score2, rating2, err2 := ComputeScore(4, 3)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if score1 != score2 || rating1 != rating2 {
		t.Fatalf("recompute diverged: (%d, %q) vs (%d, %q)", score1, rating1, score2, rating2)
	}
}

func TestComputeScoreRejectsOutOfRange(t *testing.T) {
	cases := []struct {
		likelihood int
		impact     int
	}{
		{0, 3},
		{6, 3},
		{3, 0},
		{3, 6},
		{-1, 2},
		{2, 100},
	}

	for _, tc := range cases {
		if _, _, err := ComputeScore(tc.likelihood, tc.impact); !errors.Is(err, ErrScaleOutOfRange) {
			t.Fatalf("ComputeScore(%d, %d) = %v, want ErrScaleOutOfRange", tc.likelihood, tc.impact, err)
		}
	}
}

func TestBandingTableCutPoints(t *testing.T) {
	cases := []struct {
		score  int
		rating string
	}{
		{1, RatingNegligible},
		{4, RatingNegligible},
		{5, RatingMinor},
		{9, RatingMinor},
		{10, RatingModerate},
		{14, RatingModerate},
		{15, RatingMajor},
		{19, RatingMajor},
		{20, RatingCritical},
		{25, RatingCritical},
	}

	for _, tc := range cases {
		if got := RatingForScore(tc.score); got != tc.rating {
			t.Fatalf("RatingForScore(%d) = %q, want %q", tc.score, got, tc.rating)
		}
	}
}

func TestBandingCoversFullRangeAndIsMonotonic(t *testing.T) {
	prevRank := -1
	for score := ScoreMin; score <= ScoreMax; score++ {
		rating := RatingForScore(score)
		if rating == "" {
			t.Fatalf("RatingForScore(%d) returned empty rating", score)
		}
		rank := RatingRank(rating)
		if rank < prevRank {
			t.Fatalf("rating rank decreased at score %d: %q (rank %d) after rank %d", score, rating, rank, prevRank)
		}
		prevRank = rank
	}
}

func TestScoringExamples(t *testing.T) {
	cases := []struct {
		likelihood int
		impact     int
		score      int
		rating     string
	}{
		{5, 5, 25, RatingCritical},
		{1, 2, 2, RatingNegligible},
		{3, 3, 9, RatingMinor},
		{4, 4, 16, RatingMajor},
		{2, 5, 10, RatingModerate},
	}

	for _, tc := range cases {
		score, rating, err := ComputeScore(tc.likelihood, tc.impact)
		if err != nil {
			t.Fatalf("ComputeScore(%d, %d) returned error: %v", tc.likelihood, tc.impact, err)
		}
		if score != tc.score || rating != tc.rating {
			t.Fatalf("ComputeScore(%d, %d) = (%d, %q), want (%d, %q)",
				tc.likelihood, tc.impact, score, rating, tc.score, tc.rating)
		}
	}
}

func TestRatingForScoreOutOfRange(t *testing.T) {
	for _, score := range []int{0, 26, -5} {
		if got := RatingForScore(score); got != "" {
			t.Fatalf("RatingForScore(%d) = %q, want empty", score, got)
		}
	}
}

func TestRatingRankUnknown(t *testing.T) {
	if got := RatingRank("Catastrophic"); got != -1 {
		t.Fatalf("RatingRank(unknown) = %d, want -1", got)
	}
}
