package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vcidst/demo-bank/internal/config"
	"github.com/vcidst/demo-bank/internal/rasa"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show demo-bank system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	serverURL := fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	client := &http.Client{Timeout: 2 * time.Second}
	rasaClient := rasa.New(cfg.Rasa.BaseURL)

	// Probe the web server and the Rasa server concurrently.
	var serverUp, rasaUp bool
	var g errgroup.Group
	g.Go(func() error {
		serverUp = probeHealth(client, serverURL+"/health")
		return nil
	})
	g.Go(func() error {
		rasaUp = rasaClient.IsRunning(context.Background())
		return nil
	})
	g.Wait()

	if serverUp {
		printStatus("Server", "running on %s", serverURL)
	} else {
		printStatus("Server", "stopped")
	}
	if rasaUp {
		printStatus("Rasa", "running at %s", cfg.Rasa.BaseURL)
	} else {
		printStatus("Rasa", "not running")
	}
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}

// probeHealth reports whether url answers 200 within the client timeout.
func probeHealth(client *http.Client, url string) bool {
	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
