package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/example/stat-engine/pkg/stats"
)

func TestAnalyzeSample(t *testing.T) {
	a := New(zap.NewNop())

	analysis, err := a.AnalyzeSample(context.Background(), "latency", stats.Sample{2, 4, 4, 4, 5, 5, 7, 9})
	if err != nil {
		t.Fatalf("AnalyzeSample: %v", err)
	}
	if analysis.Name != "latency" {
		t.Errorf("Name = %q, want latency", analysis.Name)
	}
	if analysis.Stats.Mean != 5 {
		t.Errorf("Mean = %v, want 5", analysis.Stats.Mean)
	}
	if analysis.Normality == nil {
		t.Error("Normality = nil, want a result with normality testing enabled")
	}
}

func TestAnalyzeSampleNormalityDisabled(t *testing.T) {
	a := NewWithConfig(zap.NewNop(), Config{SignificanceLevel: stats.DefaultAlpha})

	analysis, err := a.AnalyzeSample(context.Background(), "latency", stats.Sample{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatal(err)
	}
	if analysis.Normality != nil {
		t.Error("Normality should be nil when disabled")
	}
}

func TestAnalyzeGroupsErrorNamesGroup(t *testing.T) {
	a := New(zap.NewNop())

	_, err := a.AnalyzeGroups(context.Background(), map[string]stats.Sample{
		"good": {1, 2, 3, 4, 5},
		"bad":  {1},
	})
	if !errors.Is(err, stats.ErrInsufficientSampleSize) {
		t.Fatalf("got %v, want ErrInsufficientSampleSize", err)
	}
	if !strings.Contains(err.Error(), `"bad"`) {
		t.Errorf("error %q does not name the failing group", err)
	}
}

func TestCompareSamples(t *testing.T) {
	a := New(zap.NewNop())

	cmp, err := a.CompareSamples(context.Background(),
		"before", stats.Sample{10.2, 10.4, 10.1, 10.3, 10.2},
		"after", stats.Sample{8.1, 8.3, 8.0, 8.2, 8.1})
	if err != nil {
		t.Fatalf("CompareSamples: %v", err)
	}
	if cmp.SampleA != "before" || cmp.SampleB != "after" {
		t.Errorf("names = %q/%q", cmp.SampleA, cmp.SampleB)
	}
	if !cmp.Test.Significant {
		t.Errorf("p = %v: clearly separated samples should be significant", cmp.Test.PValue)
	}
}

func TestTestAgainstMean(t *testing.T) {
	a := New(zap.NewNop())

	res, err := a.TestAgainstMean(context.Background(), "throughput", stats.Sample{5, 7, 5, 3, 5, 3, 3, 9}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if res.Significant {
		t.Errorf("p = %v: centered sample should not be significant", res.PValue)
	}
}

func TestTestIndependence(t *testing.T) {
	a := New(zap.NewNop())

	res, err := a.TestIndependence(context.Background(), [][]int{{20, 30}, {30, 20}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Significant {
		t.Errorf("p = %v, want significance for the associated table", res.PValue)
	}
}

func TestAnalyzerHonorsContext(t *testing.T) {
	a := New(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.AnalyzeSample(ctx, "x", stats.Sample{1, 2, 3, 4}); !errors.Is(err, context.Canceled) {
		t.Errorf("AnalyzeSample: got %v, want context.Canceled", err)
	}
	if _, err := a.CompareSamples(ctx, "a", stats.Sample{1, 2}, "b", stats.Sample{3, 4}); !errors.Is(err, context.Canceled) {
		t.Errorf("CompareSamples: got %v, want context.Canceled", err)
	}
}
