// Package main is the terminal Q&A assistant.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"scheme-qa-go/internal/config"
	"scheme-qa-go/internal/model"
	"scheme-qa-go/internal/pipeline"
	"scheme-qa-go/internal/repository"
	"scheme-qa-go/internal/service"
	"scheme-qa-go/internal/vectorstore"
	"scheme-qa-go/pkg/database"
	"scheme-qa-go/pkg/embedding"
	"scheme-qa-go/pkg/es"
	"scheme-qa-go/pkg/llm"
	"scheme-qa-go/pkg/log"
	"scheme-qa-go/pkg/tasks"
)

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "path to config file")
	region := flag.String("region", model.RegionAll, "region filter for the index")
	reindex := flag.Bool("reindex", false, "rebuild the index before answering")
	flag.Parse()

	config.Init(*configPath)
	cfg := config.Conf

	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()

	if !model.IsValidRegion(*region) {
		log.Fatalf("unknown region %q, valid values start with %q", *region, model.RegionAll)
	}

	database.InitMySQL(cfg.Database.MySQL.DSN)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Fatalf("failed to initialise Elasticsearch: %s", err)
	}

	embeddingClient := embedding.NewClient(cfg.Embedding)
	llmClient := llm.NewClient(cfg.LLM)
	store := vectorstore.NewElasticStore(cfg.Elasticsearch.IndexName)

	ctx := context.Background()
	if *reindex || cfg.Assistant.ReindexOnStart || *region != model.RegionAll {
		chunkRepo := repository.NewChunkRepository(database.DB)
		if err := chunkRepo.Migrate(); err != nil {
			log.Fatalf("failed to migrate chunk table: %v", err)
		}
		processor := pipeline.NewProcessor(
			embeddingClient, store, chunkRepo,
			cfg.MinIO, cfg.Embedding, cfg.Assistant.TablePath,
		)
		if err := processor.Process(ctx, tasks.IngestTask{Region: *region}); err != nil {
			log.Fatalf("index rebuild failed: %v", err)
		}
	}

	retrievalService := service.NewRetrievalService(embeddingClient, store)
	// the terminal assistant queries directly with the question text
	answerService := service.NewAnswerService(retrievalService, llmClient, cfg.Assistant.TopK, false)

	runLoop(ctx, answerService, *region)
}

// runLoop reads questions from stdin until EOF or an interrupt.
func runLoop(ctx context.Context, answerService service.AnswerService, region string) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		fmt.Println("\nGoodbye!")
		os.Exit(0)
	}()

	fmt.Printf("Government scheme assistant ready (region: %s).\n", region)
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("\nAsk your question (Ctrl+C to exit): ")
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Println("\nGoodbye!")
			return
		}
		if err != nil {
			log.Fatalf("failed to read question: %v", err)
		}
		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}

		answer, sources, err := answerService.Answer(ctx, question)
		if err != nil {
			log.Errorf("failed to answer question: %v", err)
			fmt.Println("Something went wrong, please try again.")
			continue
		}

		fmt.Println("\n=== Answer ===")
		fmt.Println(answer)
		printSources(sources)
	}
}

func printSources(sources []model.ScoredChunk) {
	if len(sources) == 0 {
		return
	}
	fmt.Println("\n--- Sources ---")
	for i, src := range sources {
		snippet := service.Snippet(src.Chunk.Text, 160)
		fmt.Printf("%d. %s (Row %d, score %.3f)\n   %s\n", i+1, src.Chunk.Title, src.Chunk.SourceRow, src.Score, snippet)
	}
}
