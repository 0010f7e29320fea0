package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/example/stat-engine/pkg/analyzer"
	"github.com/example/stat-engine/pkg/publish"
)

// Batch runner: reads a JSON document of named samples, comparisons, and
// contingency tables, runs the engine over it, and prints a JSON report.
// Results can optionally be published to Redis and metrics exposed over HTTP.
func main() {
	var (
		inputPath   = flag.String("input", "", "path to the JSON analysis document")
		alpha       = flag.Float64("alpha", 0.05, "significance level for hypothesis tests")
		redisAddr   = flag.String("redis", "", "Redis address for result publication (disabled when empty)")
		channel     = flag.String("channel", "statengine.results", "Redis pub/sub channel for results")
		metricsAddr = flag.String("metrics", "", "listen address for /metrics (disabled when empty)")
	)
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input flag")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		analyzer.RegisterMetrics(mux)
		go func() {
			log.Printf("metrics server listening on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Fatalf("metrics server failed: %v", err)
			}
		}()
	}

	doc, err := loadDocument(*inputPath)
	if err != nil {
		log.Fatalf("failed to load input: %v", err)
	}

	a := analyzer.NewWithConfig(logger, analyzer.Config{
		SignificanceLevel: *alpha,
		NormalityTesting:  true,
	})

	ctx := context.Background()
	report, err := runAnalyses(ctx, a, doc)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	if *redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: *redisAddr})
		defer client.Close()
		pub := publish.NewRedisPublisher(client, *channel, logger)
		if err := publishReport(ctx, pub, report); err != nil {
			log.Fatalf("publish failed: %v", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalf("failed to encode report: %v", err)
	}
}

func loadDocument(path string) (*inputDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseDocument(data)
}
