package gamedomain

import (
	"math"
	"sort"

	"github.com/commander-league/backend/app/shared"
)

// MinPlayers and MaxPlayers bound the number of placements per game.
const (
	MinPlayers = 2
	MaxPlayers = 6
)

// PlacementInput is one player's result as submitted by the caller. Rank
// arrives as a float so non-integer input can be rejected explicitly instead
// of being silently truncated by JSON decoding.
type PlacementInput struct {
	Rank       float64
	DeckID     *int64
	PlayerName *string
}

// ScoredPlacement is a placement with its computed points.
type ScoredPlacement struct {
	Rank       int
	Points     float64
	DeckID     *int64
	PlayerName *string
}

// round1 rounds to one decimal place, half away from zero.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// positionValue is the linear score for a position on a 0-100 scale:
// first place 100, last place 0.
func positionValue(pos, playerCount int) float64 {
	return float64(playerCount-pos) / float64(playerCount-1) * 100
}

// ValidateRanks checks a rank configuration. playerCount is the total number
// of placements. Rules:
//   - every rank must be an integer
//   - no rank may exceed playerCount
//   - sorted ascending, the sequence must start at 1 and may only skip
//     positions consumed by a tie group ([1,1,3] is valid, [1,1,2] and
//     [1,3,4] are not)
func ValidateRanks(ranks []float64) error {
	playerCount := len(ranks)

	ints := make([]int, 0, playerCount)
	for _, r := range ranks {
		if r != math.Trunc(r) {
			return shared.NewValidationError("rank %v is not an integer", r)
		}
		ints = append(ints, int(r))
	}
	sort.Ints(ints)

	expected := 1
	for i := 0; i < playerCount; {
		rank := ints[i]
		if rank > playerCount {
			return shared.NewValidationError("rank %d exceeds the number of players (%d)", rank, playerCount)
		}
		if rank != expected {
			return shared.NewValidationError("invalid rank sequence: expected rank %d, got %d", expected, rank)
		}

		tied := 0
		for i < playerCount && ints[i] == rank {
			tied++
			i++
		}
		expected += tied
	}
	return nil
}

// CalculatePoints converts validated ranks into points on the linear 0-100
// scale. Tied placements consume consecutive position slots and each receive
// the arithmetic mean of the values of the positions they jointly occupy.
// Results are rounded to one decimal place.
//
// playerCount must be at least MinPlayers; a single-player game would divide
// by zero in the linear formula and is rejected instead.
func CalculatePoints(ranks []int, playerCount int) ([]float64, error) {
	if playerCount < MinPlayers {
		return nil, shared.NewValidationError("a game requires at least %d players", MinPlayers)
	}
	if len(ranks) != playerCount {
		return nil, shared.NewValidationError("got %d placements for %d players", len(ranks), playerCount)
	}

	// Group by rank, assign position slots in ascending rank order.
	byRank := make(map[int][]int, playerCount) // rank -> indexes into ranks
	uniq := make([]int, 0, playerCount)
	for idx, r := range ranks {
		if _, seen := byRank[r]; !seen {
			uniq = append(uniq, r)
		}
		byRank[r] = append(byRank[r], idx)
	}
	sort.Ints(uniq)

	points := make([]float64, playerCount)
	position := 1
	for _, rank := range uniq {
		idxs := byRank[rank]
		sum := 0.0
		for i := 0; i < len(idxs); i++ {
			sum += positionValue(position+i, playerCount)
		}
		value := round1(sum / float64(len(idxs)))
		for _, idx := range idxs {
			points[idx] = value
		}
		position += len(idxs)
	}
	return points, nil
}

// ScorePlacements validates and scores a full set of placements.
func ScorePlacements(in []PlacementInput) ([]ScoredPlacement, error) {
	ranks := make([]float64, len(in))
	for i, p := range in {
		ranks[i] = p.Rank
	}
	if err := ValidateRanks(ranks); err != nil {
		return nil, err
	}

	ints := make([]int, len(in))
	for i, r := range ranks {
		ints[i] = int(r)
	}
	points, err := CalculatePoints(ints, len(in))
	if err != nil {
		return nil, err
	}

	out := make([]ScoredPlacement, len(in))
	for i, p := range in {
		out[i] = ScoredPlacement{
			Rank:       ints[i],
			Points:     points[i],
			DeckID:     p.DeckID,
			PlayerName: p.PlayerName,
		}
	}
	return out, nil
}

// CalculateNewPerformance folds a new result into a deck's rolling average.
func CalculateNewPerformance(current float64, gamesPlayed int, newPoints float64) float64 {
	return round1((current*float64(gamesPlayed) + newPoints) / float64(gamesPlayed+1))
}

// CalculatePreviousPerformance reverts the most recent result from a deck's
// rolling average, for undo. Undoing the only game resets to zero instead of
// dividing by zero; floating point drift is clamped at zero.
func CalculatePreviousPerformance(current float64, gamesPlayed int, lastPoints float64) float64 {
	if gamesPlayed <= 1 {
		return 0
	}
	reverted := (current*float64(gamesPlayed) - lastPoints) / float64(gamesPlayed-1)
	if reverted < 0 {
		return 0
	}
	return round1(reverted)
}
