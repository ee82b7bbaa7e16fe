package draft

import "math"

// Percentage converts a score out of maxScore into a rounded percentage.
// A non-positive maxScore yields 0 so a row that is mid-edit never produces
// NaN or a panic.
func Percentage(score, maxScore float64) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(score / maxScore * 100))
}

// Overall aggregates criteria into a single percentage: sum of scores over sum
// of max scores across criteria with a positive max. Criteria with a zero max
// are excluded from the aggregate rather than counted as 0%. An empty or
// all-zero-max list yields 0.
func Overall(criteria []Criterion) int {
	var scoreSum, maxSum float64
	for _, criterion := range criteria {
		if criterion.MaxScore > 0 {
			scoreSum += criterion.Score
			maxSum += criterion.MaxScore
		}
	}
	return Percentage(scoreSum, maxSum)
}
