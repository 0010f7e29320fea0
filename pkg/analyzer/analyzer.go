// Package analyzer wraps the stats engine for callers that want grouped
// analysis with structured logging and usage metrics. The engine itself
// stays pure; everything observable lives here.
package analyzer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/stat-engine/pkg/stats"
)

// Config holds analysis parameters. Defaults come from New; there is no
// global configuration state.
type Config struct {
	SignificanceLevel float64 `json:"significanceLevel"`
	NormalityTesting  bool    `json:"normalityTesting"`
}

// Analyzer runs composite analyses over named samples. It holds only
// immutable configuration and is safe for concurrent use.
type Analyzer struct {
	logger *zap.Logger
	config Config
}

// SampleAnalysis bundles the results for one named sample. Normality is nil
// when normality testing is disabled or the sample is outside the test's
// valid size range.
type SampleAnalysis struct {
	Name      string                      `json:"name"`
	Stats     stats.DescriptiveStatistics `json:"descriptiveStats"`
	Normality *stats.NormalityTestResult  `json:"normality,omitempty"`
}

// ComparisonResult pairs a two-sample t-test with the names of the samples
// it compared.
type ComparisonResult struct {
	SampleA string            `json:"sampleA"`
	SampleB string            `json:"sampleB"`
	Test    stats.TTestResult `json:"test"`
}

// New creates an Analyzer with the default configuration: alpha 0.05 and
// normality testing enabled.
func New(logger *zap.Logger) *Analyzer {
	return NewWithConfig(logger, Config{
		SignificanceLevel: stats.DefaultAlpha,
		NormalityTesting:  true,
	})
}

// NewWithConfig creates an Analyzer with an explicit configuration.
func NewWithConfig(logger *zap.Logger, config Config) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger, config: config}
}

// AnalyzeSample computes descriptive statistics for one named sample, plus a
// normality check when enabled. A normality check that fails on its own
// preconditions is logged and skipped; descriptive failures are returned.
func (a *Analyzer) AnalyzeSample(ctx context.Context, name string, sample stats.Sample) (*SampleAnalysis, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	descriptive, err := stats.Describe(sample)
	if err != nil {
		return nil, fmt.Errorf("sample %q: %w", name, err)
	}

	analysis := &SampleAnalysis{Name: name, Stats: descriptive}
	analysesTotal.Inc()

	if a.config.NormalityTesting {
		normality, err := stats.TestNormality(sample)
		if err != nil {
			a.logger.Warn("Normality test skipped",
				zap.String("sample", name),
				zap.Int("size", len(sample)),
				zap.Error(err))
		} else {
			analysis.Normality = &normality
		}
	}

	a.logger.Info("Sample analyzed",
		zap.String("sample", name),
		zap.Int("count", descriptive.Count),
		zap.Float64("mean", descriptive.Mean),
		zap.Float64("stdDev", descriptive.StdDev))

	return analysis, nil
}

// AnalyzeGroups analyzes every named sample. A failing group aborts the call
// and its key is carried on the error.
func (a *Analyzer) AnalyzeGroups(ctx context.Context, groups map[string]stats.Sample) (map[string]*SampleAnalysis, error) {
	out := make(map[string]*SampleAnalysis, len(groups))
	for name, sample := range groups {
		analysis, err := a.AnalyzeSample(ctx, name, sample)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", name, err)
		}
		out[name] = analysis
	}
	return out, nil
}

// CompareSamples runs Welch's two-sample t-test between two named samples at
// the configured significance level.
func (a *Analyzer) CompareSamples(ctx context.Context, nameA string, sampleA stats.Sample, nameB string, sampleB stats.Sample) (*ComparisonResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	test, err := stats.TwoSampleTTest(sampleA, sampleB, a.config.SignificanceLevel)
	if err != nil {
		return nil, fmt.Errorf("compare %q vs %q: %w", nameA, nameB, err)
	}
	hypothesisTestsTotal.Inc()
	if test.Significant {
		significantResultsTotal.Inc()
	}

	a.logger.Info("Samples compared",
		zap.String("sampleA", nameA),
		zap.String("sampleB", nameB),
		zap.Float64("t", test.Statistic),
		zap.Float64("pValue", test.PValue),
		zap.Bool("significant", test.Significant))

	return &ComparisonResult{SampleA: nameA, SampleB: nameB, Test: test}, nil
}

// TestAgainstMean runs a one-sample t-test of sample against
// hypothesizedMean at the configured significance level.
func (a *Analyzer) TestAgainstMean(ctx context.Context, name string, sample stats.Sample, hypothesizedMean float64) (*stats.TTestResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	test, err := stats.OneSampleTTest(sample, hypothesizedMean, a.config.SignificanceLevel)
	if err != nil {
		return nil, fmt.Errorf("sample %q: %w", name, err)
	}
	hypothesisTestsTotal.Inc()
	if test.Significant {
		significantResultsTotal.Inc()
	}

	a.logger.Info("One-sample test run",
		zap.String("sample", name),
		zap.Float64("hypothesizedMean", hypothesizedMean),
		zap.Float64("pValue", test.PValue),
		zap.Bool("significant", test.Significant))

	return &test, nil
}

// TestIndependence runs the chi-square test of independence on a
// contingency table at the configured significance level.
func (a *Analyzer) TestIndependence(ctx context.Context, table [][]int) (*stats.ChiSquareResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	test, err := stats.ChiSquareTest(table, a.config.SignificanceLevel)
	if err != nil {
		return nil, err
	}
	hypothesisTestsTotal.Inc()
	if test.Significant {
		significantResultsTotal.Inc()
	}

	a.logger.Info("Independence tested",
		zap.Int("rows", len(table)),
		zap.Float64("chiSquare", test.Statistic),
		zap.Float64("pValue", test.PValue),
		zap.Float64("cramersV", test.CramersV),
		zap.Bool("significant", test.Significant))

	return &test, nil
}
