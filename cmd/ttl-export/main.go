// Package main implements ttl-export, an offline tool that turns a saved
// graph snapshot into a SHACL Turtle document.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/I14Y-ch/structure-generator/rdf"
	"github.com/I14Y-ch/structure-generator/schema"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ttl-export: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	input := flag.String("in", "", "Snapshot JSON file, '-' or empty for stdin")
	output := flag.String("out", "", "Output Turtle file, empty for stdout")
	quiet := flag.Bool("quiet", false, "Suppress log output")
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, `ttl-export - emit a SHACL Turtle document from a graph snapshot

Usage: %s [options]

Options:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if *quiet {
		logger = slog.New(slog.DiscardHandler)
	}

	data, err := readInput(*input)
	if err != nil {
		return err
	}

	graph, err := schema.LoadSnapshot(data)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	doc, err := rdf.NewEmitter(logger).Emit(graph)
	if err != nil {
		return fmt.Errorf("emit turtle: %w", err)
	}

	if *output == "" {
		_, err = io.WriteString(os.Stdout, doc)
		return err
	}
	if err := os.WriteFile(*output, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *output, err)
	}
	logger.Info("turtle document written", "path", *output, "bytes", len(doc))
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
