package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voice-journal/pkg/api"
	"voice-journal/pkg/config"
	"voice-journal/pkg/db"
	"voice-journal/pkg/openai"
	"voice-journal/pkg/service"
	"voice-journal/pkg/synth"
	"voice-journal/pkg/transcription"
)

func main() {
	config.LoadDefaultEnv()
	cfg := config.FromEnv()

	var (
		addr       = flag.String("addr", cfg.ListenAddr, "HTTP listen address")
		publicURL  = flag.String("public-url", cfg.PublicURL, "Externally visible base URL used in feed links")
		dbDriver   = flag.String("db-driver", cfg.Database.Driver, "Storage backend: sqlite, postgres, supabase or mongo")
		sqlitePath = flag.String("sqlite", cfg.Database.SQLitePath, "SQLite database path")
		pgDSN      = flag.String("database-url", cfg.Database.Postgres.DSN, "Postgres connection string")
		mongoURI   = flag.String("mongo-uri", cfg.Database.MongoURI, "MongoDB connection string")
		mongoDB    = flag.String("mongo-db", cfg.Database.MongoDB, "MongoDB database name")
		workers    = flag.Int("workers", cfg.PersistWorkers, "Number of parallel workers used to save tasks")
		noLLM      = flag.Bool("no-llm", false, "Always use the deterministic segmenter")
	)
	flag.Parse()

	cfg.Database.Driver = db.ResolveDriver(*dbDriver)
	cfg.Database.SQLitePath = *sqlitePath
	cfg.Database.Postgres.DSN = *pgDSN
	cfg.Database.MongoURI = *mongoURI
	cfg.Database.MongoDB = *mongoDB

	if cfg.Transcription.APIKey == "" {
		log.Fatalf("ASSEMBLYAI_API_KEY is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	store, err := db.Open(connectCtx, cfg.Database)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close(context.Background())
	log.Printf("Using %s storage", cfg.Database.Driver)

	var primary synth.Synthesizer
	if cfg.HasLanguageModel() && !*noLLM {
		llm := openai.NewClient(cfg.OpenAI)
		primary = synth.NewLLM(llm)
		log.Printf("Using language model %s with fallback segmenter", llm.Model())
	} else {
		log.Printf("No language model configured, using fallback segmenter only")
	}

	svc := service.New(service.Config{
		Transcriber: transcription.NewClient(cfg.Transcription),
		Synthesizer: synth.NewChain(primary, synth.NewFallback(nil)),
		Store:       store,
		Workers:     *workers,
	})

	srv := api.New(svc, api.Options{PublicURL: *publicURL})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(*addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case <-ctx.Done():
		log.Printf("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown failed: %v", err)
		}
	}
}
