//go:build datagen_postgres

package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"xmimodel/src/helper/env"
	"xmimodel/src/infra/postgres"
	"xmimodel/src/repositories"
	"xmimodel/src/services/graph"
	"xmimodel/src/services/xmiimport"
)

func main() {
	totalDocuments := flag.Int("count", 50, "Number of building documents to import")
	workers := flag.Int("workers", 4, "Documents imported concurrently")
	flag.Parse()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	pool, err := postgres.NewPostgresClient(postgres.Config{
		Host:           env.MustGetString("DB_WRITE_HOST"),
		Port:           env.GetString("DB_WRITE_PORT", "5432"),
		DBName:         env.MustGetString("DB_NAME"),
		User:           env.MustGetString("DB_USER"),
		Password:       env.MustGetString("DB_PASSWORD"),
		MaxConnections: *workers * 2,
	})
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	queryRepository := repositories.NewGraphQueryRepository(pool)
	writeRepository := repositories.NewGraphWriteRepository(pool, nil)
	graphService := graph.NewGraphService(queryRepository, writeRepository)
	importer := xmiimport.NewImporter(logger, 4, nil)

	var imported, entities atomic.Int64
	jobs := make(chan int)
	var wg sync.WaitGroup
	startTime := time.Now()

	for range *workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				model, errs, err := importer.Import(ctx, generateBuilding(randomShape()))
				if err != nil {
					log.Printf("Import failed: %v", err)
					continue
				}
				if errs.HasErrors() {
					log.Printf("Generated document has %d record errors: %v", len(errs), errs[0])
				}

				request, err := graphService.SyncModel(ctx, model)
				if err != nil {
					log.Printf("Sync failed: %v", err)
					continue
				}

				entities.Add(int64(len(request.Entities)))
				if n := imported.Add(1); n%10 == 0 {
					log.Printf("Imported %d documents (%d entities)", n, entities.Load())
				}
			}
		}()
	}

	for i := range *totalDocuments {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	log.Printf("Completed: %d documents, %d entities in %v", imported.Load(), entities.Load(), time.Since(startTime))
}
