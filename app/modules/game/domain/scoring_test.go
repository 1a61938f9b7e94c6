package gamedomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commander-league/backend/app/shared"
)

func TestValidateRanks(t *testing.T) {
	tests := []struct {
		name    string
		ranks   []float64
		wantErr string
	}{
		{name: "simple ordered game", ranks: []float64{1, 2, 3}},
		{name: "unordered input is sorted first", ranks: []float64{3, 1, 2}},
		{name: "tie consuming two positions", ranks: []float64{1, 1, 3}},
		{name: "everyone tied", ranks: []float64{1, 1, 1, 1}},
		{name: "two tie groups", ranks: []float64{1, 1, 3, 3}},
		{name: "tie in the middle", ranks: []float64{1, 2, 2, 4}},
		{
			name:    "rank after tie must skip consumed position",
			ranks:   []float64{1, 1, 2},
			wantErr: "expected rank 3, got 2",
		},
		{
			name:    "gap without a tie",
			ranks:   []float64{1, 3, 4},
			wantErr: "expected rank 2, got 3",
		},
		{
			name:    "sequence must start at 1",
			ranks:   []float64{2, 3, 4},
			wantErr: "expected rank 1, got 2",
		},
		{
			name:    "rank exceeds player count",
			ranks:   []float64{1, 2, 4},
			wantErr: "exceeds the number of players",
		},
		{
			name:    "non-integer rank",
			ranks:   []float64{1, 1.5, 3},
			wantErr: "not an integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRanks(tt.ranks)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var vErr *shared.ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCalculatePoints(t *testing.T) {
	tests := []struct {
		name        string
		ranks       []int
		playerCount int
		want        []float64
	}{
		{
			name:        "two players",
			ranks:       []int{1, 2},
			playerCount: 2,
			want:        []float64{100, 0},
		},
		{
			name:        "four players linear",
			ranks:       []int{1, 2, 3, 4},
			playerCount: 4,
			want:        []float64{100, 66.7, 33.3, 0},
		},
		{
			name:        "tie for second averages positions two and three",
			ranks:       []int{1, 2, 2},
			playerCount: 3,
			want:        []float64{100, 25, 25},
		},
		{
			name:        "tie for first in a three player game",
			ranks:       []int{1, 1, 3},
			playerCount: 3,
			want:        []float64{75, 75, 0},
		},
		{
			name:        "all tied share the full mean",
			ranks:       []int{1, 1, 1},
			playerCount: 3,
			want:        []float64{50, 50, 50},
		},
		{
			name:        "points follow input order not rank order",
			ranks:       []int{3, 1, 2},
			playerCount: 3,
			want:        []float64{0, 100, 50},
		},
		{
			name:        "six player pod",
			ranks:       []int{1, 2, 3, 4, 5, 6},
			playerCount: 6,
			want:        []float64{100, 80, 60, 40, 20, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculatePoints(tt.ranks, tt.playerCount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculatePointsExtremes(t *testing.T) {
	// The winner always lands on 100 and the loser on 0 regardless of pod size.
	for playerCount := 2; playerCount <= 6; playerCount++ {
		ranks := make([]int, playerCount)
		for i := range ranks {
			ranks[i] = i + 1
		}
		got, err := CalculatePoints(ranks, playerCount)
		require.NoError(t, err)
		assert.Equal(t, 100.0, got[0], "players=%d", playerCount)
		assert.Equal(t, 0.0, got[playerCount-1], "players=%d", playerCount)
	}
}

func TestCalculatePointsRejectsSinglePlayer(t *testing.T) {
	_, err := CalculatePoints([]int{1}, 1)
	var vErr *shared.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestScorePlacements(t *testing.T) {
	deckID := int64(7)
	guest := "Nicol Bolas"

	got, err := ScorePlacements([]PlacementInput{
		{Rank: 2, DeckID: &deckID},
		{Rank: 1, PlayerName: &guest},
	})
	require.NoError(t, err)
	assert.Equal(t, []ScoredPlacement{
		{Rank: 2, Points: 0, DeckID: &deckID},
		{Rank: 1, Points: 100, PlayerName: &guest},
	}, got)

	_, err = ScorePlacements([]PlacementInput{{Rank: 1}, {Rank: 1}, {Rank: 2}})
	assert.Error(t, err)
}

func TestCalculateNewPerformance(t *testing.T) {
	assert.Equal(t, 100.0, CalculateNewPerformance(0, 0, 100))
	assert.Equal(t, 50.0, CalculateNewPerformance(100, 1, 0))
	assert.Equal(t, 66.7, CalculateNewPerformance(50, 2, 100))

	// Repeated application reproduces a running average.
	results := []float64{100, 0, 50, 75}
	perf := 0.0
	for i, p := range results {
		perf = CalculateNewPerformance(perf, i, p)
	}
	assert.Equal(t, 56.3, perf) // (100+0+50+75)/4 = 56.25 -> 56.3
}

func TestCalculatePreviousPerformance(t *testing.T) {
	t.Run("round trips with new performance", func(t *testing.T) {
		current := 60.0
		games := 4
		points := 35.0

		after := CalculateNewPerformance(current, games, points)
		back := CalculatePreviousPerformance(after, games+1, points)
		assert.Equal(t, current, back)
	})

	t.Run("round trip with intermediate rounding stays within a decimal", func(t *testing.T) {
		current := 62.5
		games := 4
		points := 33.3

		after := CalculateNewPerformance(current, games, points)
		back := CalculatePreviousPerformance(after, games+1, points)
		assert.InDelta(t, current, back, 0.2)
	})

	t.Run("undoing the only game resets to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, CalculatePreviousPerformance(100, 1, 100))
		assert.Equal(t, 0.0, CalculatePreviousPerformance(40, 0, 40))
	})

	t.Run("clamped at zero", func(t *testing.T) {
		assert.Equal(t, 0.0, CalculatePreviousPerformance(10, 2, 80))
	})
}
