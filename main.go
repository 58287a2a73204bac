package main

import (
	"context"
	"log"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"task-tracker/config"
	httpservermod "task-tracker/modules/httpserver"
	storagemod "task-tracker/modules/storage"
)

func main() {
	cfg := config.Load()

	log.Println("=== Task Tracker API ===")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database Driver: %s", cfg.Database.Driver)
	if cfg.Database.Driver == config.DriverSQLite {
		log.Printf("Database Path: %s", cfg.Database.Path)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	storageModule := storagemod.NewModule(cfg.Database, app.Logger())
	httpServerModule := httpservermod.NewModule(cfg.HTTPPort, app.Logger())

	httpServerModule.SetStorageModule(storageModule)

	// Storage registers first so its store exists when the HTTP server starts.
	app.Register(storageModule)
	app.Register(httpServerModule)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost:%d", cfg.HTTPPort)
	log.Println("Endpoints:")
	log.Println("  GET    /health          - Health check")
	log.Println("  GET    /api/tasks       - List all tasks")
	log.Println("  POST   /api/tasks       - Create a task")
	log.Println("  GET    /api/tasks/:id   - Get a task")
	log.Println("  PUT    /api/tasks/:id   - Replace a task")
	log.Println("  DELETE /api/tasks/:id   - Delete a task")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}
