package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sample size bounds for the normality test.
const (
	minNormalitySampleSize = 3
	maxNormalitySampleSize = 5000
)

// NormalityTestResult is the outcome of an approximate normality check.
// The p-value is a coarse approximation: treat IsNormal as indicative, not
// as a table-accurate Shapiro-Wilk decision.
type NormalityTestResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"pValue"`
	IsNormal  bool    `json:"isNormal"`
	TestName  string  `json:"testName"`
}

// TestNormality runs a Shapiro-Francia-style test: the W statistic is the
// squared correlation between the ordered sample and the expected normal
// order statistics (Blom scores), and the p-value comes from Royston's
// log-normal approximation of ln(1-W). Valid for 3 <= n <= 5000.
func TestNormality(sample Sample) (NormalityTestResult, error) {
	n := len(sample)
	if n < minNormalitySampleSize || n > maxNormalitySampleSize {
		return NormalityTestResult{}, fmt.Errorf("normality test: sample size %d outside [%d,%d]: %w",
			n, minNormalitySampleSize, maxNormalitySampleSize, ErrInvalidSampleSize)
	}

	sorted := make([]float64, n)
	copy(sorted, sample)
	sort.Float64s(sorted)
	if sorted[0] == sorted[n-1] {
		return NormalityTestResult{}, fmt.Errorf("normality test: sample has zero variance: %w", ErrDivisionByZero)
	}

	// Expected standard normal order statistics via Blom's approximation.
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
	}

	w := squaredCorrelation(sorted, scores)

	// A perfectly linear normal plot drives 1-W to zero; clamp before the
	// log transform below.
	var p float64
	if w >= 1-1e-12 {
		w = 1
		p = 1
	} else {
		logN := math.Log(float64(n))
		mu := -1.2725 + 1.0521*(math.Log(logN)-logN)
		sigma := 1.0308 - 0.26758*(math.Log(logN)+2/logN)
		z := (math.Log(1-w) - mu) / sigma
		p = clampProbability(1 - NormalCDF(z))
	}

	return NormalityTestResult{
		Statistic: w,
		PValue:    p,
		IsNormal:  p > DefaultAlpha,
		TestName:  "shapiro-francia",
	}, nil
}

// squaredCorrelation returns the squared Pearson correlation of x and y.
// Degenerate inputs are excluded by the caller.
func squaredCorrelation(x, y []float64) float64 {
	n := float64(len(x))
	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range x {
		dx, dy := x[i]-meanX, y[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	return cov * cov / (varX * varY)
}
