// Package main runs the answer quality evaluation.
package main

import (
	"context"
	"flag"
	"fmt"

	"scheme-qa-go/internal/config"
	"scheme-qa-go/internal/eval"
	"scheme-qa-go/internal/service"
	"scheme-qa-go/internal/vectorstore"
	"scheme-qa-go/pkg/embedding"
	"scheme-qa-go/pkg/es"
	"scheme-qa-go/pkg/llm"
	"scheme-qa-go/pkg/log"
)

// pipelineAnswerer adapts the answer service to the harness, dropping the
// source list.
type pipelineAnswerer struct {
	svc service.AnswerService
}

func (a *pipelineAnswerer) Answer(ctx context.Context, question string) (string, error) {
	answer, _, err := a.svc.Answer(ctx, question)
	return answer, err
}

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "path to config file")
	truthPath := flag.String("truth", "", "ground truth CSV path (overrides config)")
	chartPath := flag.String("chart", "", "output chart path (overrides config)")
	flag.Parse()

	config.Init(*configPath)
	cfg := config.Conf

	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()

	if *truthPath != "" {
		cfg.Eval.GroundTruthPath = *truthPath
	}
	if *chartPath != "" {
		cfg.Eval.ChartPath = *chartPath
	}

	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Fatalf("failed to initialise Elasticsearch: %s", err)
	}

	embeddingClient := embedding.NewClient(cfg.Embedding)
	llmClient := llm.NewClient(cfg.LLM)
	store := vectorstore.NewElasticStore(cfg.Elasticsearch.IndexName)
	retrievalService := service.NewRetrievalService(embeddingClient, store)
	answerService := service.NewAnswerService(retrievalService, llmClient, cfg.Assistant.TopK, cfg.Assistant.UseHyDE)

	items, err := eval.LoadGroundTruth(cfg.Eval.GroundTruthPath)
	if err != nil {
		log.Fatalf("failed to load ground truth: %v", err)
	}
	log.Infof("loaded %d ground truth questions from %s", len(items), cfg.Eval.GroundTruthPath)

	scorer := eval.NewScorer(embeddingClient)
	harness := eval.NewHarness(&pipelineAnswerer{svc: answerService}, scorer, cfg.Eval.Threshold)

	results, err := harness.Run(context.Background(), items)
	if err != nil {
		log.Fatalf("evaluation failed: %v", err)
	}
	summary := eval.Summarize(results)

	fmt.Println("\n=== Evaluation Summary ===")
	fmt.Printf("Questions:      %d\n", summary.Total)
	fmt.Printf("Correct:        %d\n", summary.Correct)
	fmt.Printf("Accuracy:       %.2f%%\n", summary.Accuracy)
	fmt.Printf("Avg Precision:  %.4f\n", summary.AvgPrecision)
	fmt.Printf("Avg Recall:     %.4f\n", summary.AvgRecall)
	fmt.Printf("Avg F1:         %.4f\n", summary.AvgF1)

	if cfg.Eval.ChartPath != "" {
		if err := eval.RenderChart(results, cfg.Eval.Threshold, cfg.Eval.ChartPath); err != nil {
			log.Errorf("failed to render chart: %v", err)
		} else {
			log.Infof("chart written to %s", cfg.Eval.ChartPath)
		}
	}
}
