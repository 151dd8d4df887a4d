package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/raine/listing-genius/config"
	"github.com/raine/listing-genius/internal/listing"
	"github.com/raine/listing-genius/internal/llm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	rawJSON := flag.Bool("json", false, "Output raw JSON only")
	timeout := flag.Duration("timeout", 90*time.Second, "Give up after this long")
	model := flag.String("model", "", "Gemini model (default gemini-2.5-flash)")
	verbose := flag.Bool("v", false, "Log provider calls to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <item description>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Example: %s Nintendo Switch OLED, lightly used\n\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nRequires GEMINI_API_KEY in the environment or config.env.\n")
	}
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

	keywords, ok := listing.Request{Keywords: strings.Join(flag.Args(), " ")}.Normalized()
	if !ok {
		flag.Usage()
		os.Exit(2)
	}

	config.LoadEnvFile()
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	llmConfig := cfg.LLM()
	if *model != "" {
		llmConfig.Model = *model
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := llm.NewGeminiGenerator(llmConfig).Generate(ctx, keywords)
	if err != nil {
		if errors.Is(err, llm.ErrConfiguration) {
			fmt.Fprintf(os.Stderr, "Error: %v (set GEMINI_API_KEY)\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v. Please try again.\n", err)
		}
		os.Exit(1)
	}

	if *rawJSON {
		if err := writeJSON(os.Stdout, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printResult(os.Stdout, keywords, result)
}

func writeJSON(w io.Writer, result *listing.GenerationResult) error {
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(jsonBytes)); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

func printResult(w io.Writer, keywords string, result *listing.GenerationResult) {
	l := result.Listing
	fmt.Fprintf(w, "Title: %s\n", l.Title)
	fmt.Fprintf(w, "Price: %s (based on Mercari, eBay and FB Marketplace)\n\n", l.Price)
	fmt.Fprintf(w, "%s\n", l.Description)

	fmt.Fprintln(w, "\nProduct images:")
	if len(l.ImageSuggestions) == 0 {
		fmt.Fprintln(w, "  none found")
	}
	for i, u := range l.ImageSuggestions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, u)
	}

	if len(result.Sources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for _, src := range result.Sources {
			fmt.Fprintf(w, "  - %s: %s\n", listing.SourceLabel(src), src.URI)
		}
	}

	fmt.Fprintln(w, "\nCompare prices:")
	for _, link := range listing.MarketLinks(keywords) {
		fmt.Fprintf(w, "  %s: %s\n", link.Name, link.URL)
	}

	fmt.Fprintln(w, "\nSeller tips:")
	for _, tip := range listing.SellerTips {
		fmt.Fprintf(w, "  - %s\n", tip)
	}
}
