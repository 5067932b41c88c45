package cmd

import (
	"context"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/agent"
	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/appconfig"
	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/db"
	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/llm"
	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/services"
	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/ollama/ollama/api"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "agente-consulta-examenes",
	Short: "Agente conversacional de consulta y práctica para exámenes",
	Long: `Agente de estudio sobre una base de conocimiento en Neo4j:
responde consultas sobre el material, recomienda y toma ejercicios,
corrige respuestas y lleva el nivel de conocimiento por tema.`,
}

func Execute() error {
	return rootCmd.Execute()
}

// app bundles every wired component a command needs.
type app struct {
	cfg          *appconfig.AppConfig
	store        *db.Store
	orchestrator *agent.Orchestrator
	sessions     *services.SessionRegistry
}

// bootstrap loads configuration and wires the full component graph. A missing
// or unreachable knowledge base is fatal: every capability depends on it.
func bootstrap(ctx context.Context) (*app, error) {
	dotenv.LoadEnv()

	cfg := &appconfig.AppConfig{}
	if err := config.LoadConfig("config.ini", cfg); err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if !cfg.HasNeo4jConfig() {
		logger.Fatal("Missing Neo4j connection settings (NEO4J-URI, NEO4J-USER, NEO4J-PASSWORD)")
	}

	store, err := db.NewStore(ctx, cfg.Neo4jUri, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		logger.Fatal("Failed to connect to the knowledge base", zap.Error(err))
	}

	ollamaClient, err := api.ClientFromEnvironment()
	if err != nil {
		logger.Fatal("Failed to create the Ollama client", zap.Error(err))
	}

	client := llm.NewOllamaClient(ollamaClient, cfg.OllamaModel)
	embedder := llm.NewOllamaEmbedder(ollamaClient, cfg.EmbeddingModel)

	if dimension, err := embedder.DetectDimension(ctx); err != nil {
		logger.Error("Could not probe the embedding dimension, skipping index bootstrap", zap.Error(err))
	} else {
		store.EnsureVectorIndexes(ctx, dimension)
	}

	retriever := agent.NewRetriever(embedder, store)
	if useIndex, forced := cfg.VectorIndexOverride(); forced {
		if useIndex {
			retriever.UseIndex()
		} else {
			retriever.UseBruteForce()
		}
		logger.Info("Similarity strategy pinned by config", zap.Bool("useIndex", useIndex))
	} else {
		retriever.ProbeStrategy(ctx)
	}

	mastery := agent.NewMasteryStore(store)
	selector := agent.NewExerciseSelector(retriever, store)
	grading := agent.NewGradingService(embedder, store, mastery)
	summarizer := agent.NewSummarizer(client, retriever)
	answerer := agent.NewAnswerer(client, retriever)
	router := agent.NewRouter(client, store, agent.DefaultGuardPolicy())

	orchestrator := agent.NewOrchestrator(router, mastery, selector, grading, summarizer, answerer, store)

	return &app{
		cfg:          cfg,
		store:        store,
		orchestrator: orchestrator,
		sessions:     services.NewSessionRegistry(store),
	}, nil
}
