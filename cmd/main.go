package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"readerschat/internal/chunker"
	"readerschat/internal/config"
	"readerschat/internal/llm"
	"readerschat/internal/rag"
	"readerschat/internal/server"
	"readerschat/internal/session"
	"readerschat/internal/store"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	embedder, err := llm.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	generator, err := llm.NewClient(&cfg.ChatLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing completion client")
	}

	var builder store.Builder
	switch cfg.Store.Backend {
	case "postgres":
		db := store.ConnectPostgres(&cfg.Store.Postgres)
		defer db.Close()
		builder = store.NewPostgresBuilder(db)
	case "chromem":
		builder = store.NewChromemBuilder()
	default:
		log.Fatal().Str("backend", cfg.Store.Backend).Msg("Unknown store backend")
	}

	splitter, err := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing chunker")
	}

	sess := session.New(cfg.RAG.MaxHistory)
	pipeline := rag.NewPipeline(splitter, embedder, builder, generator, sess, cfg.RAG.TopK)
	router := server.NewRouter(server.NewHandler(pipeline), &cfg.Server)

	srv := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("ReadersChat server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
}
