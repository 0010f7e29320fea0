package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultAlpha is the significance threshold callers pass when they have no
// preference. There is no hidden global; every test takes alpha explicitly.
const DefaultAlpha = 0.05

// ConfidenceInterval brackets a population mean or mean difference at the
// given confidence level (1 - alpha).
type ConfidenceInterval struct {
	LowerBound float64 `json:"lowerBound"`
	UpperBound float64 `json:"upperBound"`
	Level      float64 `json:"level"`
}

// TTestResult is the outcome of a one- or two-sample t-test. Significant is
// strictly p < alpha. EffectSize is the magnitude of the standardized mean
// difference: |mean-mu0|/sd for one sample, Cohen's d on the pooled standard
// deviation for two.
type TTestResult struct {
	Statistic          float64            `json:"statistic"`
	PValue             float64            `json:"pValue"`
	DegreesOfFreedom   float64            `json:"degreesOfFreedom"`
	Significant        bool               `json:"significant"`
	ConfidenceInterval ConfidenceInterval `json:"confidenceInterval"`
	EffectSize         float64            `json:"effectSize"`
}

// ChiSquareResult is the outcome of a chi-square test of independence.
// CramersV measures association strength: 0 none, 1 perfect.
type ChiSquareResult struct {
	Statistic        float64 `json:"statistic"`
	PValue           float64 `json:"pValue"`
	DegreesOfFreedom int     `json:"degreesOfFreedom"`
	Significant      bool    `json:"significant"`
	CramersV         float64 `json:"cramersV"`
}

// OneSampleTTest tests whether the sample mean differs from hypothesizedMean,
// two-tailed, at significance level alpha.
func OneSampleTTest(sample Sample, hypothesizedMean, alpha float64) (TTestResult, error) {
	if err := checkAlpha(alpha); err != nil {
		return TTestResult{}, err
	}
	n := len(sample)
	if n == 0 {
		return TTestResult{}, fmt.Errorf("one-sample t-test: %w", ErrEmptyDataset)
	}
	if n < 2 {
		return TTestResult{}, fmt.Errorf("one-sample t-test: need at least 2 observations, got %d: %w", n, ErrInsufficientSampleSize)
	}

	mean := stat.Mean(sample, nil)
	sd := math.Sqrt(stat.Variance(sample, nil))
	if sd == 0 {
		return TTestResult{}, fmt.Errorf("one-sample t-test: sample has zero variance: %w", ErrDivisionByZero)
	}

	se := sd / math.Sqrt(float64(n))
	t := (mean - hypothesizedMean) / se
	df := float64(n - 1)

	p, err := twoTailedP(t, df)
	if err != nil {
		return TTestResult{}, err
	}
	ci, err := tInterval(mean, se, df, alpha)
	if err != nil {
		return TTestResult{}, err
	}

	return TTestResult{
		Statistic:          t,
		PValue:             p,
		DegreesOfFreedom:   df,
		Significant:        p < alpha,
		ConfidenceInterval: ci,
		EffectSize:         math.Abs(mean-hypothesizedMean) / sd,
	}, nil
}

// TwoSampleTTest compares the means of two independent samples with Welch's
// unequal-variance t-test, two-tailed, at significance level alpha. The
// confidence interval is on the mean difference a-b.
func TwoSampleTTest(a, b Sample, alpha float64) (TTestResult, error) {
	if err := checkAlpha(alpha); err != nil {
		return TTestResult{}, err
	}
	for i, s := range []Sample{a, b} {
		name := [...]string{"first", "second"}[i]
		if len(s) == 0 {
			return TTestResult{}, fmt.Errorf("two-sample t-test: %s sample: %w", name, ErrEmptyDataset)
		}
		if len(s) < 2 {
			return TTestResult{}, fmt.Errorf("two-sample t-test: %s sample needs at least 2 observations, got %d: %w", name, len(s), ErrInsufficientSampleSize)
		}
	}

	na, nb := float64(len(a)), float64(len(b))
	meanA, meanB := stat.Mean(a, nil), stat.Mean(b, nil)
	varA, varB := stat.Variance(a, nil), stat.Variance(b, nil)
	if varA == 0 && varB == 0 {
		return TTestResult{}, fmt.Errorf("two-sample t-test: both samples have zero variance: %w", ErrDivisionByZero)
	}

	se := math.Sqrt(varA/na + varB/nb)
	t := (meanA - meanB) / se

	// Welch-Satterthwaite degrees of freedom.
	df := math.Pow(varA/na+varB/nb, 2) /
		(math.Pow(varA/na, 2)/(na-1) + math.Pow(varB/nb, 2)/(nb-1))

	p, err := twoTailedP(t, df)
	if err != nil {
		return TTestResult{}, err
	}
	ci, err := tInterval(meanA-meanB, se, df, alpha)
	if err != nil {
		return TTestResult{}, err
	}

	pooledSD := math.Sqrt(((na-1)*varA + (nb-1)*varB) / (na + nb - 2))

	return TTestResult{
		Statistic:          t,
		PValue:             p,
		DegreesOfFreedom:   df,
		Significant:        p < alpha,
		ConfidenceInterval: ci,
		EffectSize:         math.Abs(meanA-meanB) / pooledSD,
	}, nil
}

// ChiSquareTest runs Pearson's chi-square test of independence on a
// contingency table of non-negative counts, at significance level alpha.
// Degenerate tables (any expected cell of zero) are reported, never turned
// into NaN.
func ChiSquareTest(table [][]int, alpha float64) (ChiSquareResult, error) {
	if err := checkAlpha(alpha); err != nil {
		return ChiSquareResult{}, err
	}
	rows := len(table)
	if rows < 2 {
		return ChiSquareResult{}, fmt.Errorf("chi-square test: need at least 2 rows, got %d: %w", rows, ErrInvalidInput)
	}
	cols := len(table[0])
	if cols < 2 {
		return ChiSquareResult{}, fmt.Errorf("chi-square test: need at least 2 columns, got %d: %w", cols, ErrInvalidInput)
	}

	rowTotals := make([]float64, rows)
	colTotals := make([]float64, cols)
	var grand float64
	for i, row := range table {
		if len(row) != cols {
			return ChiSquareResult{}, fmt.Errorf("chi-square test: row %d has %d columns, want %d: %w", i, len(row), cols, ErrInvalidInput)
		}
		for j, count := range row {
			if count < 0 {
				return ChiSquareResult{}, fmt.Errorf("chi-square test: negative count %d at cell (%d,%d): %w", count, i, j, ErrInvalidInput)
			}
			rowTotals[i] += float64(count)
			colTotals[j] += float64(count)
			grand += float64(count)
		}
	}
	if grand == 0 {
		return ChiSquareResult{}, fmt.Errorf("chi-square test: table is all zeros: %w", ErrDivisionByZero)
	}

	var statistic float64
	for i := range table {
		for j := range table[i] {
			expected := rowTotals[i] * colTotals[j] / grand
			if expected == 0 {
				return ChiSquareResult{}, fmt.Errorf("chi-square test: expected count is zero at cell (%d,%d): %w", i, j, ErrDivisionByZero)
			}
			diff := float64(table[i][j]) - expected
			statistic += diff * diff / expected
		}
	}

	df := (rows - 1) * (cols - 1)
	cdf, err := ChiSquareCDF(statistic, float64(df))
	if err != nil {
		return ChiSquareResult{}, err
	}
	p := clampProbability(1 - cdf)

	minDim := rows - 1
	if cols-1 < minDim {
		minDim = cols - 1
	}
	cramersV := math.Sqrt(statistic / (grand * float64(minDim)))

	return ChiSquareResult{
		Statistic:        statistic,
		PValue:           p,
		DegreesOfFreedom: df,
		Significant:      p < alpha,
		CramersV:         cramersV,
	}, nil
}

func checkAlpha(alpha float64) error {
	if alpha <= 0 || alpha >= 1 {
		return fmt.Errorf("significance level %v must lie in (0,1): %w", alpha, ErrInvalidParameter)
	}
	return nil
}

func twoTailedP(t, df float64) (float64, error) {
	cdf, err := StudentTCDF(math.Abs(t), df)
	if err != nil {
		return 0, err
	}
	return clampProbability(2 * (1 - cdf)), nil
}

func tInterval(center, se, df, alpha float64) (ConfidenceInterval, error) {
	tCrit, err := InverseTQuantile(1-alpha/2, df)
	if err != nil {
		return ConfidenceInterval{}, err
	}
	margin := tCrit * se
	return ConfidenceInterval{
		LowerBound: center - margin,
		UpperBound: center + margin,
		Level:      1 - alpha,
	}, nil
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
