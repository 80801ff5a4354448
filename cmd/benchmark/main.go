package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"policyrag/config"
	"policyrag/internal/adapter/embedding"
	"policyrag/internal/adapter/retriever"
	"policyrag/internal/adapter/source"
	"policyrag/internal/log"
	"policyrag/internal/port"
	"policyrag/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	workDir := flag.String("dir", ".", "Working directory with config and fetched corpus")
	query := flag.String("q", "", "Query to test")
	topK := flag.Int("k", 5, "Number of results")
	runs := flag.Int("runs", 5, "Query repetitions for the latency average")
	flag.Parse()

	if *query == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir . -q \"query\"")
		fmt.Println("\nTests:")
		fmt.Println("  1. Corpus acquisition and section splitting")
		fmt.Println("  2. Embedding provider connectivity and ingest time")
		fmt.Println("  3. Retrieval quality and query latency")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*workDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	embedder, err := embedding.NewFromConfig(cfg.Embedding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedder init failed: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	rtr := retriever.NewSemanticRetriever(embedder)
	ingest := usecase.NewIngestUseCase(corpusSource(*workDir, cfg), rtr, log.NewNop())

	fmt.Println("POLICY RETRIEVAL BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Model: %s (%s)\n", cfg.Embedding.Model, cfg.Embedding.Provider)
	fmt.Printf("Dimension: %d\n", embedder.Dimension())
	fmt.Println()

	result, err := ingest.Ingest(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Sections embedded: %d in %s\n", result.Sections, result.Elapsed.Round(time.Millisecond))
	fmt.Println()

	fmt.Printf("Query: \"%s\"\n", *query)
	fmt.Println(strings.Repeat("-", 70))

	var results []domainResult
	var totalLatency time.Duration
	for i := 0; i < *runs; i++ {
		start := time.Now()
		ranked, err := rtr.Query(ctx, *query, *topK)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
			os.Exit(1)
		}
		totalLatency += time.Since(start)
		if i == 0 {
			for _, r := range ranked {
				results = append(results, domainResult{content: r.Content, score: r.Similarity})
			}
		}
	}

	fmt.Printf("Top %d matches:\n\n", len(results))

	totalScore := 0.0
	for i, r := range results {
		preview := strings.TrimSpace(r.content)
		preview = strings.ReplaceAll(preview, "\n", " ")
		if len(preview) > 150 {
			preview = preview[:150] + "..."
		}

		totalScore += r.score

		rating := "LOW"
		if r.score > 0.7 {
			rating = "HIGH"
		} else if r.score > 0.5 {
			rating = "GOOD"
		} else if r.score > 0.3 {
			rating = "OK"
		}

		fmt.Printf("%d. [%s %.3f]\n", i+1, rating, r.score)
		fmt.Printf("   %s\n\n", preview)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}

	avgScore := totalScore / float64(len(results))
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Average similarity: %.3f\n", avgScore)
	fmt.Printf("  Top-1 similarity:   %.3f\n", results[0].score)
	fmt.Printf("  Query latency:      %s avg over %d runs\n",
		(totalLatency / time.Duration(*runs)).Round(time.Microsecond), *runs)

	if avgScore > 0.5 {
		fmt.Println("  Status: GOOD - semantic search working well")
	} else if avgScore > 0.3 {
		fmt.Println("  Status: OK - results are somewhat related")
	} else {
		fmt.Println("  Status: POOR - consider another model or the cosine metric")
	}
}

type domainResult struct {
	content string
	score   float64
}

func corpusSource(workDir string, cfg *config.Config) port.CorpusSource {
	if cfg.Source.Path != "" {
		return source.NewFileSource(cfg.Source.Path, cfg.Source.Includes, cfg.Source.Excludes)
	}
	if local := config.CorpusPath(workDir); statFile(local) {
		return source.NewFileSource(local, nil, nil)
	}
	return source.NewHTTPSource(cfg.Source.URL)
}

func statFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
