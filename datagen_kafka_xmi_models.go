//go:build datagen_kafka_xmi

package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"xmimodel/src/infra/kafka"
)

func main() {
	totalDocuments := flag.Int("count", 100, "Total number of building documents to generate. Use -1 for infinite.")
	batchSize := flag.Int("batch-size", 10, "Number of documents per batch")
	topic := flag.String("topic", "", "Kafka topic to send documents to (required)")
	brokers := flag.String("brokers", "", "Kafka brokers (comma-separated) (required)")
	groupID := flag.String("group-id", "xmi-datagen", "Kafka group ID")
	delayMs := flag.Int("delay-ms", 500, "Delay in milliseconds between batches")
	flag.Parse()

	if *topic == "" {
		log.Fatal("The 'topic' flag is required")
	}
	if *brokers == "" {
		log.Fatal("The 'brokers' flag is required")
	}

	isInfinite := *totalDocuments == -1
	if isInfinite {
		log.Printf("Starting xmi datagen in INFINITE mode with batches of %d", *batchSize)
	} else {
		log.Printf("Starting xmi datagen with %d documents in batches of %d", *totalDocuments, *batchSize)
	}

	kafkaClient, err := kafka.NewKafkaClient(strings.Split(*brokers, ","), *groupID, *batchSize)
	if err != nil {
		log.Fatalf("Failed to create Kafka client: %v", err)
	}
	defer kafkaClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, stopping...")
		cancel()
	}()

	sent, members := 0, 0
	startTime := time.Now()

	for isInfinite || sent < *totalDocuments {
		select {
		case <-ctx.Done():
			log.Println("Shutdown requested, stopping document generation")
			return
		default:
		}

		currentBatchSize := *batchSize
		if !isInfinite && *totalDocuments-sent < currentBatchSize {
			currentBatchSize = *totalDocuments - sent
		}

		messages := make([]kafka.Message, 0, currentBatchSize)
		for range currentBatchSize {
			doc := generateBuilding(randomShape())
			value, err := json.Marshal(doc)
			if err != nil {
				log.Printf("Failed to marshal document: %v", err)
				continue
			}

			key, _ := doc["StructuralMaterial"][0]["ID"].(string)
			messages = append(messages, kafka.Message{
				Key:     key,
				Value:   value,
				Headers: map[string]string{"content_type": "application/json"},
			})
			members += len(doc["StructuralCurveMember"])
		}

		if err := kafkaClient.Producer(messages, *topic); err != nil {
			log.Printf("Failed to send batch: %v", err)
			continue
		}
		sent += len(messages)

		elapsed := time.Since(startTime)
		log.Printf("Sent %d documents (%d curve members) in %v (%.1f docs/sec)", sent, members, elapsed, float64(sent)/elapsed.Seconds())

		time.Sleep(time.Duration(*delayMs) * time.Millisecond)
	}

	log.Printf("Completed: %d documents sent in %v", sent, time.Since(startTime))
}
