package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/stat-engine/pkg/analyzer"
	"github.com/example/stat-engine/pkg/publish"
	"github.com/example/stat-engine/pkg/stats"
)

// inputDocument is the JSON shape accepted on -input.
type inputDocument struct {
	Samples     map[string]stats.Sample `json:"samples"`
	Comparisons []comparisonSpec        `json:"comparisons"`
	MeanTests   []meanTestSpec          `json:"meanTests"`
	Tables      map[string][][]int      `json:"tables"`
}

type comparisonSpec struct {
	A string `json:"a"`
	B string `json:"b"`
}

type meanTestSpec struct {
	Sample string  `json:"sample"`
	Mean   float64 `json:"mean"`
}

// report is what the binary prints and publishes.
type report struct {
	Samples     map[string]*analyzer.SampleAnalysis `json:"samples,omitempty"`
	Comparisons []*analyzer.ComparisonResult        `json:"comparisons,omitempty"`
	MeanTests   map[string]*stats.TTestResult       `json:"meanTests,omitempty"`
	Tables      map[string]*stats.ChiSquareResult   `json:"tables,omitempty"`
}

func parseDocument(data []byte) (*inputDocument, error) {
	var doc inputDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse analysis document: %w", err)
	}
	if len(doc.Samples) == 0 && len(doc.Tables) == 0 {
		return nil, fmt.Errorf("analysis document has no samples and no tables")
	}
	for _, cmp := range doc.Comparisons {
		if _, ok := doc.Samples[cmp.A]; !ok {
			return nil, fmt.Errorf("comparison references unknown sample %q", cmp.A)
		}
		if _, ok := doc.Samples[cmp.B]; !ok {
			return nil, fmt.Errorf("comparison references unknown sample %q", cmp.B)
		}
	}
	for _, mt := range doc.MeanTests {
		if _, ok := doc.Samples[mt.Sample]; !ok {
			return nil, fmt.Errorf("mean test references unknown sample %q", mt.Sample)
		}
	}
	return &doc, nil
}

func runAnalyses(ctx context.Context, a *analyzer.Analyzer, doc *inputDocument) (*report, error) {
	out := &report{}

	if len(doc.Samples) > 0 {
		samples, err := a.AnalyzeGroups(ctx, doc.Samples)
		if err != nil {
			return nil, err
		}
		out.Samples = samples
	}

	for _, cmp := range doc.Comparisons {
		result, err := a.CompareSamples(ctx, cmp.A, doc.Samples[cmp.A], cmp.B, doc.Samples[cmp.B])
		if err != nil {
			return nil, err
		}
		out.Comparisons = append(out.Comparisons, result)
	}

	if len(doc.MeanTests) > 0 {
		out.MeanTests = make(map[string]*stats.TTestResult, len(doc.MeanTests))
		for _, mt := range doc.MeanTests {
			result, err := a.TestAgainstMean(ctx, mt.Sample, doc.Samples[mt.Sample], mt.Mean)
			if err != nil {
				return nil, err
			}
			out.MeanTests[mt.Sample] = result
		}
	}

	if len(doc.Tables) > 0 {
		out.Tables = make(map[string]*stats.ChiSquareResult, len(doc.Tables))
		for name, table := range doc.Tables {
			result, err := a.TestIndependence(ctx, table)
			if err != nil {
				return nil, fmt.Errorf("table %q: %w", name, err)
			}
			out.Tables[name] = result
		}
	}

	return out, nil
}

func publishReport(ctx context.Context, pub publish.Publisher, r *report) error {
	for name, analysis := range r.Samples {
		if err := pub.PublishResult(ctx, "sample/"+name, analysis); err != nil {
			return err
		}
	}
	for _, cmp := range r.Comparisons {
		if err := pub.PublishResult(ctx, fmt.Sprintf("compare/%s-vs-%s", cmp.SampleA, cmp.SampleB), cmp); err != nil {
			return err
		}
	}
	for name, result := range r.MeanTests {
		if err := pub.PublishResult(ctx, "mean-test/"+name, result); err != nil {
			return err
		}
	}
	for name, result := range r.Tables {
		if err := pub.PublishResult(ctx, "table/"+name, result); err != nil {
			return err
		}
	}
	return nil
}
