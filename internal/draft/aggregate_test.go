package draft

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	require.Equal(t, 80, Percentage(8, 10))
	require.Equal(t, 67, Percentage(2, 3))
	require.Equal(t, 0, Percentage(5, 0))
	require.Equal(t, 0, Percentage(5, -1))
	require.Equal(t, 0, Percentage(0, 0))
}

func TestPercentageMatchesRounding(t *testing.T) {
	for score := 0.0; score <= 10; score++ {
		expected := int(math.Round(score / 10 * 100))
		require.Equal(t, expected, Percentage(score, 10))
	}
}

func TestOverall(t *testing.T) {
	require.Equal(t, 0, Overall(nil))
	require.Equal(t, 0, Overall([]Criterion{}))

	criteria := []Criterion{
		{Name: "Teaching quality", Score: 8, MaxScore: 10},
		{Name: "Infrastructure", Score: 6, MaxScore: 10},
	}
	require.Equal(t, 70, Overall(criteria))
}

func TestOverallExcludesZeroMaxRows(t *testing.T) {
	criteria := []Criterion{
		{Name: "Scored", Score: 9, MaxScore: 10},
		{Name: "Mid-edit", Score: 4, MaxScore: 0},
	}
	require.Equal(t, 90, Overall(criteria))

	require.Equal(t, 0, Overall([]Criterion{{Name: "a", MaxScore: 0}, {Name: "b", MaxScore: 0}}))
}

func TestOverallOrderInvariant(t *testing.T) {
	forward := []Criterion{
		{Score: 3, MaxScore: 5},
		{Score: 7, MaxScore: 10},
		{Score: 1, MaxScore: 4},
	}
	reversed := []Criterion{forward[2], forward[1], forward[0]}
	require.Equal(t, Overall(forward), Overall(reversed))
}
