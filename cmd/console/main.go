package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/evergarden-code/vova/pkg/assets"
)

type ConsoleConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:10000"),
		Timeout:    150 * time.Second,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API at %s. Please ensure the relay is running.\n", cfg.APIBaseURL)
		os.Exit(1)
	}

	manifest := assets.Default()
	if path := os.Getenv("ASSET_MANIFEST"); path != "" {
		loaded, err := assets.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load asset manifest: %v\n", err)
			os.Exit(1)
		}
		manifest = loaded
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client, manifest),
		tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
