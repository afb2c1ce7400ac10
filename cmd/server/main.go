package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"document-qa/internal/config"
	"document-qa/internal/llm"
	"document-qa/internal/rag"
	"document-qa/internal/server"
	"document-qa/internal/session"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	embedder, err := llm.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	generator, err := llm.NewClient(&cfg.InferLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing LLM client")
	}

	engine := rag.New(embedder, generator, cfg.RAG.TopK)
	sessions := session.NewManager(embedder, engine, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	router := server.NewRouter(sessions, cfg.Server.MaxUploadSize)

	log.Info().Str("addr", cfg.Server.Addr).Msg("Starting document QA server")
	if err := http.ListenAndServe(cfg.Server.Addr, router); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
