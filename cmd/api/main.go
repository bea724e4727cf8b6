package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"noncore_agent/pkg/api/screening"
	"noncore_agent/pkg/core/agent"
	"noncore_agent/pkg/core/config"
	"noncore_agent/pkg/core/prompt"
	"noncore_agent/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize prompt library from resources/
	if err := prompt.LoadFromDirectory("resources"); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to hardcoded prompts")
	} else {
		fmt.Printf("[PROMPT] Loaded %d prompts from resources\n", prompt.Get().Count())
	}

	// Screening thresholds
	cfg, err := config.Load("config/screening.yaml")
	if err != nil {
		fmt.Printf("[WARNING] Screening config unreadable, using defaults: %v\n", err)
	}

	// LLM provider manager
	agentCfg, err := agent.LoadConfig("config/models.yaml")
	if err != nil {
		fmt.Printf("[WARNING] Models config unreadable, using defaults: %v\n", err)
	}
	agentMgr := agent.NewManager(agentCfg)

	screening.InitHandler(agentMgr, cfg)

	// Optional persistence
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(context.Background()); err != nil {
			fmt.Printf("[WARNING] Database unavailable, results not persisted: %v\n", err)
		} else {
			defer store.Close()
			screening.SetStore(store.NewScreeningRepo())
		}
	}

	http.HandleFunc("/api/screening", screening.HandleScreening)

	fmt.Println("Non-core asset screening API listening on :8080")
	fmt.Println("  POST /api/screening")
	if err := http.ListenAndServe(":8080", nil); err != nil {
		fmt.Printf("Server failed: %v\n", err)
		os.Exit(1)
	}
}
