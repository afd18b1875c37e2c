package game

import "github.com/chewxy/math32"

// Sum ...
func Sum(data []float32) (result float32) {
	for _, v := range data {
		result += v
	}
	return result
}

// Mean ...
func Mean(data []float32) float32 {
	count := float32(len(data))
	if count == 0 {
		return 0
	}
	return Sum(data) / count
}

// Variance ...
func Variance(data []float32) (variance float32) {
	count := float32(len(data))
	if count == 0 {
		return 0.0
	}
	mean := Sum(data) / count

	for _, number := range data {
		variance += (number - mean) * (number - mean)
	}
	return variance / count
}

// StandardDeviation ...
func StandardDeviation(data []float32) float32 {
	return math32.Sqrt(Variance(data))
}

// Max returns the largest value in data, or 0 when data is empty.
func Max(data []float32) float32 {
	if len(data) == 0 {
		return 0
	}
	max := data[0]
	for _, v := range data[1:] {
		max = math32.Max(max, v)
	}
	return max
}
