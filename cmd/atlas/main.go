// Command atlas deduplicates a candidate file offline: a JSON array of
// location candidates in, merged locations out. No LLM or database needed.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/agenthands/atlas/internal/config"
	"github.com/agenthands/atlas/internal/core/dedupe"
	"github.com/agenthands/atlas/internal/core/model"
	"github.com/agenthands/atlas/internal/export"
)

func main() {
	var (
		inPath     = flag.String("in", "", "input JSON file (array of candidates), - for stdin")
		outPath    = flag.String("out", "-", "output file, - for stdout")
		format     = flag.String("format", export.FormatJSON, "output format: json, csv, geojson")
		configPath = flag.String("config", "", "optional TOML config for thresholds and weights")
		showStats  = flag.Bool("stats", false, "print run statistics to stderr")
	)
	flag.Parse()

	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	opts := dedupe.DefaultOptions()
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		opts = dedupe.OptionsFrom(cfg.Dedupe)
	}

	ded, err := dedupe.NewDeduplicator(opts)
	if err != nil {
		log.Fatalf("Invalid dedupe configuration: %v", err)
	}

	candidates, err := readCandidates(*inPath)
	if err != nil {
		log.Fatalf("Failed to read candidates: %v", err)
	}

	merged, stats := ded.Deduplicate(candidates)

	out := os.Stdout
	if *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	if err := export.Write(out, *format, merged); err != nil {
		log.Fatalf("Failed to export: %v", err)
	}

	if *showStats {
		fmt.Fprintf(os.Stderr, "processed %d candidates into %d locations (%d duplicates in %d groups)\n",
			stats.Processed, len(merged), stats.DuplicatesFound, stats.GroupsCreated)
	}
}

func readCandidates(path string) ([]model.LocationCandidate, error) {
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	var candidates []model.LocationCandidate
	if err := json.NewDecoder(in).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("invalid candidate JSON: %w", err)
	}
	return candidates, nil
}
