package scoring

import "math"

// Program constants, fixed per admission cycle. The total score formula is
// 综合成绩 = 学业综合成绩×80% + 学术专长成绩（≤15）+ 综合表现成绩（≤5）.
const (
	// AcademicScoreCap is the ceiling on the academic specialty bucket.
	AcademicScoreCap = 15.0
	// ComprehensiveScoreCap is the ceiling on the comprehensive performance bucket.
	ComprehensiveScoreCap = 5.0
	// GPAMax is the upper bound of the four-point GPA scale.
	GPAMax = 4.0
	// GPAScoreMultiplier converts GPA to the hundred-point academic score.
	GPAScoreMultiplier = 25.0
	// GPAWeight is the share of the GPA-derived score in the total.
	GPAWeight = 0.8
)

// Round2 rounds to two decimal places, the precision of every emitted score.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// Clamp bounds value to [min, max]. NaN clamps to min.
func Clamp(value, min, max float64) float64 {
	if math.IsNaN(value) || value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
