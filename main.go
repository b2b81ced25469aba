package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"uidlens/internal/config"
	"uidlens/internal/container"
	"uidlens/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create dependency injection container
	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	log.Printf("Snapshot store: %s (workspace %s)", appConfig.Store.Backend, appConfig.Store.WorkspaceID)

	// Restore the last saved workspace
	if err := appContainer.Workspace.Restore(ctx); err != nil {
		log.Fatalf("Failed to restore workspace: %v", err)
	}

	server := ui.NewServer(appContainer.Workspace, appContainer.Analysis, appConfig.Server.MaxUploadMB)
	uiApp := ui.NewApp(ui.Config{
		Port:        appConfig.Server.Port,
		CORSOrigins: appConfig.Server.CORSOrigins,
	}, server)

	if err := uiApp.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
