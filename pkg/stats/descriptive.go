package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Sample is an ordered sequence of finite observations. Inputs are never
// mutated; every operation works on its own sorted copy where ordering
// matters.
type Sample []float64

// Quartiles holds the three quartiles computed by linear interpolation
// between order statistics at fractional rank p*(n-1).
type Quartiles struct {
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
	Q3 float64 `json:"q3"`
}

// DescriptiveStatistics summarizes a sample. Variance uses Bessel's
// correction (n-1 divisor); skewness and kurtosis use the bias-corrected
// sample formulas; Kurtosis is excess kurtosis.
type DescriptiveStatistics struct {
	Count     int       `json:"count"`
	Sum       float64   `json:"sum"`
	Mean      float64   `json:"mean"`
	Median    float64   `json:"median"`
	Mode      []float64 `json:"mode"`
	Variance  float64   `json:"variance"`
	StdDev    float64   `json:"stdDev"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Range     float64   `json:"range"`
	Quartiles Quartiles `json:"quartiles"`
	IQR       float64   `json:"iqr"`
	Skewness  float64   `json:"skewness"`
	Kurtosis  float64   `json:"kurtosis"`
	CoeffVar  float64   `json:"coeffVar"`
}

// Describe computes the full set of descriptive statistics for sample.
// Every moment in the result must be defined, so the sample needs at least
// four observations; the error names the first statistic that cannot be
// computed.
func Describe(sample Sample) (DescriptiveStatistics, error) {
	n := len(sample)
	switch {
	case n == 0:
		return DescriptiveStatistics{}, fmt.Errorf("describe: %w", ErrEmptyDataset)
	case n < 2:
		return DescriptiveStatistics{}, fmt.Errorf("describe: variance requires at least 2 observations, got %d: %w", n, ErrInsufficientSampleSize)
	case n < 3:
		return DescriptiveStatistics{}, fmt.Errorf("describe: skewness requires at least 3 observations, got %d: %w", n, ErrInsufficientSampleSize)
	case n < 4:
		return DescriptiveStatistics{}, fmt.Errorf("describe: kurtosis requires at least 4 observations, got %d: %w", n, ErrInsufficientSampleSize)
	}

	sorted := make([]float64, n)
	copy(sorted, sample)
	sort.Float64s(sorted)

	mean := stat.Mean(sample, nil)
	variance := stat.Variance(sample, nil)
	stdDev := math.Sqrt(variance)

	var sum float64
	for _, v := range sample {
		sum += v
	}

	q := Quartiles{
		Q1: interpolatedQuantile(sorted, 0.25),
		Q2: interpolatedQuantile(sorted, 0.5),
		Q3: interpolatedQuantile(sorted, 0.75),
	}

	// The coefficient of variation is undefined for a zero mean; report 0
	// there so results stay JSON-encodable.
	var coeffVar float64
	if mean != 0 {
		coeffVar = stdDev / mean
	}

	return DescriptiveStatistics{
		Count:     n,
		Sum:       sum,
		Mean:      mean,
		Median:    q.Q2,
		Mode:      mode(sorted),
		Variance:  variance,
		StdDev:    stdDev,
		Min:       sorted[0],
		Max:       sorted[n-1],
		Range:     sorted[n-1] - sorted[0],
		Quartiles: q,
		IQR:       q.Q3 - q.Q1,
		Skewness:  skewness(sample, mean, stdDev),
		Kurtosis:  kurtosis(sample, mean, stdDev),
		CoeffVar:  coeffVar,
	}, nil
}

// DescribeGroups computes descriptive statistics per named sample. A failing
// group aborts the whole call and its key is carried on the error.
func DescribeGroups(groups map[string]Sample) (map[string]DescriptiveStatistics, error) {
	out := make(map[string]DescriptiveStatistics, len(groups))
	for name, sample := range groups {
		stats, err := Describe(sample)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", name, err)
		}
		out[name] = stats
	}
	return out, nil
}

// interpolatedQuantile returns the quantile at probability p over sorted
// data, interpolating linearly between the order statistics that bracket
// fractional rank p*(n-1).
func interpolatedQuantile(sorted []float64, p float64) float64 {
	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (rank-float64(lo))*(sorted[hi]-sorted[lo])
}

// mode returns all values attaining the maximum frequency, ascending. The
// input must already be sorted; on an all-distinct sample every value ties
// at frequency one and the whole sample comes back.
func mode(sorted []float64) []float64 {
	best := 0
	var modes []float64
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		switch count := j - i; {
		case count > best:
			best = count
			modes = modes[:0]
			modes = append(modes, sorted[i])
		case count == best:
			modes = append(modes, sorted[i])
		}
		i = j
	}
	return modes
}

// skewness computes the adjusted Fisher-Pearson sample skewness. Callers
// guarantee n >= 3 and a non-degenerate standard deviation check upstream;
// a zero stdDev still yields 0 rather than NaN for constant samples.
func skewness(sample Sample, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	n := float64(len(sample))
	var sum float64
	for _, v := range sample {
		z := (v - mean) / stdDev
		sum += z * z * z
	}
	return n / ((n - 1) * (n - 2)) * sum
}

// kurtosis computes bias-corrected sample excess kurtosis.
func kurtosis(sample Sample, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	n := float64(len(sample))
	var sum float64
	for _, v := range sample {
		z := (v - mean) / stdDev
		sum += z * z * z * z
	}
	return n*(n+1)/((n-1)*(n-2)*(n-3))*sum - 3*(n-1)*(n-1)/((n-2)*(n-3))
}
