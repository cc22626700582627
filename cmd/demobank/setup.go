package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vcidst/demo-bank/internal/config"
	"github.com/vcidst/demo-bank/internal/storage"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initialize the database and seed demo users",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup()
	},
}

func runSetup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	printStep("Initializing database in %s", cfg.Storage.DataDir)
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		printError("database initialization failed: %v", err)
		return err
	}
	defer store.Close()
	printSuccess("Database tables created successfully")

	created, err := store.SeedDemoUsers()
	if err != nil {
		printError("seeding demo users failed: %v", err)
		return err
	}
	if created == 0 {
		printWarning("Demo users already exist")
	} else {
		printSuccess("Seeded %d demo users", created)
	}

	users, err := store.ListUsers()
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}
	printUsers(users)

	printStep("Setup complete. Start the server with: demobank serve")
	printStatus("Demo login", "demo / demo123")
	return nil
}
