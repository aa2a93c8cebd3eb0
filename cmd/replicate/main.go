package main

import (
	"context"
	"flag"
	"log"
	"time"

	"voice-journal/pkg/config"
	"voice-journal/pkg/db"
	"voice-journal/pkg/replication"
)

func main() {
	config.LoadDefaultEnv()
	cfg := config.FromEnv()

	var (
		fromDriver = flag.String("from", db.DriverSQLite, "Source backend: sqlite, postgres, supabase or mongo")
		toDriver   = flag.String("to", cfg.Database.Driver, "Target backend: sqlite, postgres, supabase or mongo")
		fromSQLite = flag.String("from-sqlite", cfg.Database.SQLitePath, "Source SQLite path when -from=sqlite")
		toSQLite   = flag.String("to-sqlite", cfg.Database.SQLitePath, "Target SQLite path when -to=sqlite")
		workers    = flag.Int("workers", cfg.PersistWorkers, "Number of parallel inserts")
	)
	flag.Parse()

	*fromDriver, *toDriver = db.ResolveDriver(*fromDriver), db.ResolveDriver(*toDriver)
	if *fromDriver == *toDriver && (*fromDriver != db.DriverSQLite || *fromSQLite == *toSQLite) {
		log.Fatalf("Source and target are the same backend")
	}

	ctx := context.Background()

	sourceCfg := cfg.Database
	sourceCfg.Driver = *fromDriver
	sourceCfg.SQLitePath = *fromSQLite
	source, err := db.Open(ctx, sourceCfg)
	if err != nil {
		log.Fatalf("Failed to connect to source database: %v", err)
	}
	defer source.Close(ctx)

	targetCfg := cfg.Database
	targetCfg.Driver = *toDriver
	targetCfg.SQLitePath = *toSQLite
	target, err := db.Open(ctx, targetCfg)
	if err != nil {
		log.Fatalf("Failed to connect to target database: %v", err)
	}
	defer target.Close(ctx)

	r, err := replication.NewReplicator(replication.Config{Source: source, Target: target, Workers: *workers})
	if err != nil {
		log.Fatalf("Failed to create replicator: %v", err)
	}

	start := time.Now()
	log.Printf("Replicating %s -> %s", *fromDriver, *toDriver)
	if _, err := r.Run(ctx); err != nil {
		log.Fatalf("Replication failed: %v", err)
	}
	log.Printf("Done. Duration: %s", time.Since(start))
}
