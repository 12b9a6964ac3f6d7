// Package main is the entry point of the web chat server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scheme-qa-go/internal/config"
	"scheme-qa-go/internal/handler"
	"scheme-qa-go/internal/middleware"
	"scheme-qa-go/internal/pipeline"
	"scheme-qa-go/internal/repository"
	"scheme-qa-go/internal/service"
	"scheme-qa-go/internal/vectorstore"
	"scheme-qa-go/pkg/database"
	"scheme-qa-go/pkg/embedding"
	"scheme-qa-go/pkg/es"
	"scheme-qa-go/pkg/kafka"
	"scheme-qa-go/pkg/llm"
	"scheme-qa-go/pkg/log"
	"scheme-qa-go/pkg/storage"
	"scheme-qa-go/pkg/tasks"
	"scheme-qa-go/pkg/token"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Configuration
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. Logger
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("logger initialised")

	// 3. Infrastructure clients
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("failed to initialise Elasticsearch: %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)

	// 4. Repositories
	chunkRepo := repository.NewChunkRepository(database.DB)
	if err := chunkRepo.Migrate(); err != nil {
		log.Fatalf("failed to migrate chunk table: %v", err)
	}
	transcriptRepo := repository.NewTranscriptRepository(database.RDB)

	// 5. Services (dependency injection)
	sessionManager := token.NewSessionManager(cfg.JWT.Secret, cfg.JWT.TokenExpireMinutes)
	embeddingClient := embedding.NewClient(cfg.Embedding)
	llmClient := llm.NewClient(cfg.LLM)
	store := vectorstore.NewElasticStore(cfg.Elasticsearch.IndexName)
	retrievalService := service.NewRetrievalService(embeddingClient, store)
	answerService := service.NewAnswerService(retrievalService, llmClient, cfg.Assistant.TopK, cfg.Assistant.UseHyDE)
	chatService := service.NewChatService(answerService, transcriptRepo)

	// 6. Ingest pipeline
	processor := pipeline.NewProcessor(
		embeddingClient,
		store,
		chunkRepo,
		cfg.MinIO,
		cfg.Embedding,
		cfg.Assistant.TablePath,
	)

	// 7. Background Kafka consumer for scraper-produced ingest tasks
	go kafka.StartConsumer(cfg.Kafka, processor)

	// 7.1 Optional index rebuild on startup from the local table
	if cfg.Assistant.ReindexOnStart {
		go func() {
			if err := processor.Process(context.Background(), tasks.IngestTask{}); err != nil {
				log.Errorf("startup index rebuild failed: %v", err)
			}
		}()
	}

	// 8. Router
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 9. Routes
	chatHandler := handler.NewChatHandler(chatService, sessionManager)
	assistantHandler := handler.NewAssistantHandler(processor, transcriptRepo)

	r.StaticFile("/", "./web/index.html")
	apiV1 := r.Group("/api/v1")
	{
		chatGroup := apiV1.Group("/chat")
		{
			chatGroup.GET("/token", chatHandler.GetSessionToken)
		}

		apiV1.GET("/regions", assistantHandler.ListRegions)
		apiV1.POST("/region", assistantHandler.SelectRegion)

		apiV1.GET("/transcript", assistantHandler.GetTranscript)
		apiV1.DELETE("/transcript", assistantHandler.ClearTranscript)
	}
	r.GET("/chat/:token", chatHandler.Handle)

	// 10. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP server shutdown failed: %v", err)
	}
	log.Info("server stopped")
}
