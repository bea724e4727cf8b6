package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"noncore_agent/pkg/core/agent"
	"noncore_agent/pkg/core/config"
	"noncore_agent/pkg/core/ingest"
	"noncore_agent/pkg/core/pipeline"
	"noncore_agent/pkg/core/prompt"
	"noncore_agent/pkg/core/report"
	"noncore_agent/pkg/core/store"
)

func main() {
	inputPath := flag.String("input", "", "company document (json, hjson, or yaml)")
	configPath := flag.String("config", "config/screening.yaml", "screening thresholds")
	modelsPath := flag.String("models", "config/models.yaml", "LLM provider config")
	useNarrative := flag.Bool("narrative", false, "run the LLM narrative pass")
	htmlPath := flag.String("html", "", "write an HTML report to this path")
	jsonOut := flag.Bool("json", false, "print the raw result as JSON instead of Markdown")
	flag.Parse()

	godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: screener -input company.json [-narrative] [-html report.html]")
		os.Exit(2)
	}

	if err := prompt.LoadFromDirectory("resources"); err != nil {
		log.Warn().Err(err).Msg("prompt library not loaded, using built-in prompts")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Msg("screening config unreadable, using defaults")
	}
	cfg.Narrative.Enabled = cfg.Narrative.Enabled && *useNarrative

	doc, err := ingest.LoadFile(*inputPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load company document")
	}

	var clients pipeline.Clients
	if cfg.Narrative.Enabled {
		agentCfg, err := agent.LoadConfig(*modelsPath)
		if err != nil {
			log.Warn().Err(err).Msg("models config unreadable, using defaults")
		}
		mgr := agent.NewManager(agentCfg)
		clients = pipeline.Clients{
			Financial:   mgr.ClientFor("financial"),
			Operational: mgr.ClientFor("operational"),
			Industry:    mgr.ClientFor("industry"),
			Historical:  mgr.ClientFor("historical"),
		}
	}

	screener := pipeline.NewScreener(cfg, clients)

	ctx := context.Background()
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(ctx); err != nil {
			log.Warn().Err(err).Msg("database unavailable, results not persisted")
		} else {
			defer store.Close()
			screener.SetStore(store.NewScreeningRepo())
		}
	}

	res, err := screener.Run(ctx, doc)
	if err != nil {
		log.Fatal().Err(err).Msg("screening failed")
	}

	if *htmlPath != "" {
		if err := report.WriteHTML(res, *htmlPath); err != nil {
			log.Fatal().Err(err).Msg("failed to write HTML report")
		}
		log.Info().Str("path", *htmlPath).Msg("HTML report written")
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Fatal().Err(err).Msg("failed to encode result")
		}
		return
	}
	fmt.Print(report.Markdown(res))
}
