package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"xmimodel/src/adapters/kafka/consumers"
	"xmimodel/src/infra/kafka"
	"xmimodel/src/services/xmiimport"
)

var errRecordErrors = errors.New("document has record errors")

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Inspect and publish xmi structural documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			switch strings.ToLower(logLevel) {
			case "debug":
				level = slog.LevelDebug
			case "info":
				level = slog.LevelInfo
			case "error":
				level = slog.LevelError
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(decodeCmd(), publishCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

type decodeReport struct {
	Counts map[string]int `json:"counts"`
	Errors []string       `json:"errors"`
}

func decodeCmd() *cobra.Command {
	var (
		format  string
		output  string
		workers int
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "Decode a document and print what was built and every logged error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := readDocument(args[0], format)
			if err != nil {
				return err
			}

			model, errs, err := xmiimport.NewImporter(slog.Default(), workers, nil).Import(cmd.Context(), doc)
			if err != nil {
				return err
			}

			report := decodeReport{Counts: model.Counts(), Errors: errs.Strings()}
			if err := writeReport(cmd.OutOrStdout(), report, output); err != nil {
				return err
			}

			if strict && errs.HasErrors() {
				return fmt.Errorf("%w: %d", errRecordErrors, len(errs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Document format (json, yaml). Defaults to the file extension")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Report format (text, json)")
	cmd.Flags().IntVar(&workers, "workers", 4, "Curve members decoded in parallel")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any record error is logged")

	return cmd
}

func publishCmd() *cobra.Command {
	var (
		format    string
		brokers   []string
		topic     string
		key       string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "publish <file>",
		Short: "Send a document to the import topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, raw, err := readDocument(args[0], format)
			if err != nil {
				return err
			}

			client, err := kafka.NewKafkaClient(brokers, appName, batchSize)
			if err != nil {
				return err
			}
			defer client.Close()

			if key == "" {
				key = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			headers := map[string]string{consumers.ContentTypeHeader: "application/json"}
			if resolveFormat(args[0], format) == "yaml" {
				headers[consumers.ContentTypeHeader] = "application/yaml"
			}

			if err := client.Producer([]kafka.Message{{Key: key, Value: raw, Headers: headers}}, topic); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "published %s to %s\n", key, topic)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Document format (json, yaml). Defaults to the file extension")
	cmd.Flags().StringSliceVar(&brokers, "brokers", []string{"localhost:9092"}, "Kafka brokers")
	cmd.Flags().StringVar(&topic, "topic", "xmi-documents", "Import topic")
	cmd.Flags().StringVar(&key, "key", "", "Message key. Defaults to the file name")
	cmd.Flags().IntVar(&batchSize, "batch-size", 1, "Producer batch size")

	return cmd
}

func resolveFormat(path, format string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// readDocument decodes the file to check it and also returns its bytes unchanged.
func readDocument(path, format string) (xmiimport.Document, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read document: %w", err)
	}

	var doc xmiimport.Document
	switch resolveFormat(path, format) {
	case "yaml":
		doc, err = xmiimport.DecodeYAMLDocument(raw)
	case "json":
		doc, err = xmiimport.DecodeDocument(raw)
	default:
		return nil, nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, nil, err
	}

	return doc, raw, nil
}

func writeReport(w io.Writer, report decodeReport, output string) error {
	switch output {
	case "json":
		if report.Errors == nil {
			report.Errors = []string{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "text":
		collections := make([]string, 0, len(report.Counts))
		for collection := range report.Counts {
			collections = append(collections, collection)
		}
		slices.Sort(collections)

		for _, collection := range collections {
			fmt.Fprintf(w, "%-28s %d\n", collection, report.Counts[collection])
		}
		fmt.Fprintf(w, "\n%d errors\n", len(report.Errors))
		for _, e := range report.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output %q", output)
	}
}
